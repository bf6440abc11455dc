// Package matcher resolves whether two free-text person names refer to the
// same individual.
//
// Unit rosters and the counselor directory rarely agree on the exact form of
// a name: rosters carry middle initials ("Jon A Campbell") the directory
// omits, and the directory carries parenthetical nicknames ("Christopher
// (Chris) White") rosters never use. The matcher provides normalized keys,
// a first+last fallback comparison, nickname-aware parsing, and the
// exclusion ruleset built on top of them.
package matcher

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// PersonName is a parsed person name. AltFirst carries a parenthetical
// nickname when the source had one ("Christopher (Chris) White").
type PersonName struct {
	First    string
	AltFirst string
	Last     string
}

// nicknameRe matches "First (Nick) Rest of Name". Unicode letter classes
// keep accented first names intact.
var nicknameRe = regexp.MustCompile(`^([\p{L}\p{N}_]+)\s*\(([^)]+)\)\s*(.+)$`)

// Normalize lowercases a name and removes all whitespace. The result is the
// primary lookup key for exclusion rules.
func Normalize(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "")
}

// Matches reports whether a raw candidate name matches an already-normalized
// rule key. The exact normalized form is tried first, then a first+last
// concatenation that drops middle tokens and initials. Candidates with fewer
// than two tokens only ever match exactly.
//
// "Jon A. Campbell" matches "joncampbell"; "Campbell Jon" does not, since
// token order is preserved.
func Matches(candidateName, ruleKey string) bool {
	if candidateName == "" {
		return false
	}
	if Normalize(candidateName) == ruleKey {
		return true
	}

	tokens := strings.Fields(candidateName)
	if len(tokens) < 2 {
		return false
	}
	return strings.ToLower(tokens[0]+tokens[len(tokens)-1]) == ruleKey
}

// ParseName splits a raw name into first, nickname, and last parts. Without
// a parenthetical the split is first token / remaining tokens. Zero-token
// input yields the zero value.
func ParseName(raw string) PersonName {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return PersonName{}
	}

	if m := nicknameRe.FindStringSubmatch(raw); m != nil {
		return PersonName{
			First:    m[1],
			AltFirst: strings.TrimSpace(m[2]),
			Last:     strings.TrimSpace(m[3]),
		}
	}

	tokens := strings.Fields(raw)
	name := PersonName{First: tokens[0]}
	if len(tokens) > 1 {
		name.Last = strings.Join(tokens[1:], " ")
	}
	return name
}

// String reassembles the name without the nickname.
func (n PersonName) String() string {
	if n.Last == "" {
		return n.First
	}
	return n.First + " " + n.Last
}

// JoinKeys returns the folded "first last" keys this person can join under.
// The nickname variant is included when it differs from the given first
// name, so "Christopher (Chris) White" joins both "christopher white" and
// "chris white".
func (n PersonName) JoinKeys() []string {
	if n.First == "" && n.Last == "" {
		return nil
	}

	keys := []string{FoldKey(n.First + " " + n.Last)}
	if n.AltFirst != "" {
		alt := FoldKey(n.AltFirst + " " + n.Last)
		if alt != keys[0] {
			keys = append(keys, alt)
		}
	}
	return keys
}

// FoldKey folds a name for cross-roster joining: lowercased, diacritics
// stripped, whitespace collapsed. Folding is deliberately confined to join
// keys; Normalize and Matches compare bytes exactly.
func FoldKey(s string) string {
	s = stripDiacritics(strings.ToLower(s))
	return strings.Join(strings.Fields(s), " ")
}

// stripDiacritics removes combining marks after NFD decomposition, so
// "José" and "Jose" fold to the same key.
func stripDiacritics(s string) string {
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
