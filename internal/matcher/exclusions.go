package matcher

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// RuleKind distinguishes full exclusions from selective inclusions.
type RuleKind int

const (
	// RuleFull removes a person from coverage entirely.
	RuleFull RuleKind = iota
	// RuleSelective counts a person for exactly one named badge.
	RuleSelective
)

// Rule is one line of the exclusion file.
type Rule struct {
	Name         string // as written in the file
	Key          string // Normalize(Name)
	Kind         RuleKind
	AllowedBadge string // RuleSelective only
}

// Decision describes how a ruleset treats one person.
type Decision int

const (
	// Keep means no rule applies.
	Keep Decision = iota
	// Exclude means a full exclusion matched.
	Exclude
	// Restrict means a selective rule matched; only its badge counts.
	Restrict
)

// Ruleset holds the parsed exclusion policy. Full exclusions are always
// checked before selective ones, in file order.
type Ruleset struct {
	full      []Rule
	selective []Rule
}

// LoadRules parses the exclusion file: one rule per line, lines with no
// comma are full exclusions, lines with one comma are "name, allowed badge"
// selective inclusions. Blank lines and # comments are skipped. A missing
// file yields an empty ruleset, since most units maintain none.
func LoadRules(path string) (*Ruleset, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Ruleset{}, nil
		}
		return nil, fmt.Errorf("opening exclusion file: %w", err)
	}
	defer f.Close() // nolint:errcheck

	rs := &Ruleset{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if name, allowed, found := strings.Cut(line, ","); found {
			name = strings.TrimSpace(name)
			allowed = strings.TrimSpace(allowed)
			if name == "" || allowed == "" {
				continue
			}
			rs.selective = append(rs.selective, Rule{
				Name:         name,
				Key:          Normalize(name),
				Kind:         RuleSelective,
				AllowedBadge: allowed,
			})
			continue
		}

		rs.full = append(rs.full, Rule{
			Name: line,
			Key:  Normalize(line),
			Kind: RuleFull,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading exclusion file: %w", err)
	}
	return rs, nil
}

// Len returns the total number of rules.
func (rs *Ruleset) Len() int {
	return len(rs.full) + len(rs.selective)
}

// For returns the decision for a raw candidate name and, for Restrict, the
// single badge the person may be counted for.
func (rs *Ruleset) For(name string) (Decision, string) {
	for _, r := range rs.full {
		if Matches(name, r.Key) {
			return Exclude, ""
		}
	}
	for _, r := range rs.selective {
		if Matches(name, r.Key) {
			return Restrict, r.AllowedBadge
		}
	}
	return Keep, ""
}

// FilterBadges applies the ruleset to one person's badge list. Exclude
// drops every badge; Restrict keeps the allowed badge only when the person
// actually holds it. The returned decision lets callers count outcomes.
//
// Coverage filtering happens exactly once per run, before scoring; callers
// downstream of the analyze stage must consume the filtered artifact rather
// than re-applying the rules.
func (rs *Ruleset) FilterBadges(name string, badges []string) ([]string, Decision) {
	decision, allowed := rs.For(name)
	switch decision {
	case Exclude:
		return nil, Exclude
	case Restrict:
		for _, b := range badges {
			if strings.TrimSpace(b) == allowed {
				return []string{b}, Restrict
			}
		}
		return nil, Restrict
	default:
		return badges, Keep
	}
}

// FullNames returns the names of full exclusion rules as written in the
// file, for report metadata.
func (rs *Ruleset) FullNames() []string {
	names := make([]string, 0, len(rs.full))
	for _, r := range rs.full {
		names = append(names, r.Name)
	}
	return names
}
