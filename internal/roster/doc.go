// Package roster extracts adult leaders from saved unit roster pages.
//
// Roster exports are named "{UNIT} Roster {DATE}.html" and carry an "Adult
// Members" section whose rows are plain text lines with tab-separated
// columns. The package auto-detects the newest roster per unit, parses the
// adult rows, and merges adults who appear on several unit rosters into one
// member record with all troop affiliations.
package roster
