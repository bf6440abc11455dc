// Package join cross-references roster adults with the counselor directory.
//
// Matching uses folded "first last" keys from both sides, so middle
// initials, parenthetical nicknames, and accents do not block a match. The
// result partitions every roster adult into troop counselors and
// non-counselor leaders, and adds supplemental counselors registered with a
// unit but absent from its roster.
package join
