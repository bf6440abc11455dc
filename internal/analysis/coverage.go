package analysis

import "github.com/scoutops/mbc-pipeline/internal/badge"

// Certified pairs a counselor reference with the badges that survived
// exclusion filtering. Filtering happens exactly once, upstream of this
// package; coverage building never re-applies rules.
type Certified struct {
	Ref    CounselorRef
	Badges []string
}

// BuildCoverage accumulates held badges per counselor into per-badge
// coverage lists. Badge names canonicalize through the alias map so both
// spellings of a badge land in one list. Every Eagle-required badge absent
// from the result is seeded with an explicit empty entry, which is what
// lets the critical pass see Eagle badges nobody counsels.
func (s *Scorer) BuildCoverage(counselors []Certified) map[string][]CounselorRef {
	coverage := make(map[string][]CounselorRef)
	for _, c := range counselors {
		for _, b := range c.Badges {
			name := badge.Canonical(b, s.aliases)
			if name == "" {
				continue
			}
			coverage[name] = append(coverage[name], c.Ref)
		}
	}

	for _, name := range s.eagle.Names() {
		if _, ok := coverage[name]; !ok {
			coverage[name] = []CounselorRef{}
		}
	}
	return coverage
}
