// Package counselor parses saved ScoutBook Merit Badge Counselor listing
// pages into a structured counselor directory.
//
// ScoutBook renders counselor search results as repeated div blocks whose
// layout has shifted across site revisions. The parser tries a cascade of
// known selectors, falls back to scanning for divs that contain an email
// address, and extracts name, location, contact details, Youth Protection
// expiration, and certified merit badges from each block.
package counselor
