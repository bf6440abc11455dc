package matcher

import (
	"os"
	"path/filepath"
	"testing"
)

func writeRules(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mbc_exclusions.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadRules(t *testing.T) {
	path := writeRules(t, `# unit exclusion policy
Jane Doe

John Smith, Art
  Frank Miller
`)

	rs, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules() error = %v", err)
	}

	if rs.Len() != 3 {
		t.Errorf("Len() = %d, want 3 (comments and blanks skipped)", rs.Len())
	}
	if len(rs.full) != 2 {
		t.Errorf("full rules = %d, want 2", len(rs.full))
	}
	if len(rs.selective) != 1 {
		t.Errorf("selective rules = %d, want 1", len(rs.selective))
	}
	if rs.full[0].Key != "janedoe" {
		t.Errorf("full rule key = %q, want %q", rs.full[0].Key, "janedoe")
	}
	if rs.selective[0].AllowedBadge != "Art" {
		t.Errorf("allowed badge = %q, want %q", rs.selective[0].AllowedBadge, "Art")
	}
}

func TestLoadRules_MissingFileIsEmpty(t *testing.T) {
	rs, err := LoadRules(filepath.Join(t.TempDir(), "absent.txt"))
	if err != nil {
		t.Fatalf("LoadRules() on missing file error = %v, want empty ruleset", err)
	}
	if rs.Len() != 0 {
		t.Errorf("Len() = %d, want 0", rs.Len())
	}
	if d, _ := rs.For("Anyone At All"); d != Keep {
		t.Errorf("empty ruleset decision = %v, want Keep", d)
	}
}

func TestRuleset_For(t *testing.T) {
	path := writeRules(t, "Jane Doe\nJohn Smith, Art\n")
	rs, err := LoadRules(path)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name        string
		candidate   string
		wantDec     Decision
		wantAllowed string
	}{
		{"full exclusion exact", "Jane Doe", Exclude, ""},
		{"full exclusion with middle initial", "Jane Q Doe", Exclude, ""},
		{"selective match", "John Smith", Restrict, "Art"},
		{"selective with middle name", "John Paul Smith", Restrict, "Art"},
		{"no rule", "Alice Walker", Keep, ""},
		{"reversed tokens do not match", "Doe Jane", Keep, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec, allowed := rs.For(tt.candidate)
			if dec != tt.wantDec || allowed != tt.wantAllowed {
				t.Errorf("For(%q) = (%v, %q), want (%v, %q)",
					tt.candidate, dec, allowed, tt.wantDec, tt.wantAllowed)
			}
		})
	}
}

func TestRuleset_FullCheckedBeforeSelective(t *testing.T) {
	// The same person under both kinds: the full exclusion wins.
	path := writeRules(t, "John Smith, Art\nJohn Smith\n")
	rs, err := LoadRules(path)
	if err != nil {
		t.Fatal(err)
	}

	if dec, _ := rs.For("John Smith"); dec != Exclude {
		t.Errorf("For() = %v, want Exclude (full rules take precedence)", dec)
	}
}

func TestRuleset_FilterBadges(t *testing.T) {
	path := writeRules(t, "Jane Doe\nJohn Smith, Art\n")
	rs, err := LoadRules(path)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		person   string
		badges   []string
		wantKept []string
		wantDec  Decision
	}{
		{
			name:     "full exclusion drops everything",
			person:   "Jane Q Doe",
			badges:   []string{"Cooking"},
			wantKept: nil,
			wantDec:  Exclude,
		},
		{
			name:     "selective keeps only the allowed badge",
			person:   "John Smith",
			badges:   []string{"Art", "Woodworking"},
			wantKept: []string{"Art"},
			wantDec:  Restrict,
		},
		{
			name:     "selective without the allowed badge keeps nothing",
			person:   "John Smith",
			badges:   []string{"Woodworking"},
			wantKept: nil,
			wantDec:  Restrict,
		},
		{
			name:     "unmatched person untouched",
			person:   "Alice Walker",
			badges:   []string{"Camping", "Hiking"},
			wantKept: []string{"Camping", "Hiking"},
			wantDec:  Keep,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kept, dec := rs.FilterBadges(tt.person, tt.badges)
			if dec != tt.wantDec {
				t.Errorf("decision = %v, want %v", dec, tt.wantDec)
			}
			if len(kept) != len(tt.wantKept) {
				t.Fatalf("kept = %v, want %v", kept, tt.wantKept)
			}
			for i := range tt.wantKept {
				if kept[i] != tt.wantKept[i] {
					t.Errorf("kept[%d] = %q, want %q", i, kept[i], tt.wantKept[i])
				}
			}
		})
	}
}

func TestRuleset_FullNames(t *testing.T) {
	path := writeRules(t, `Jane Doe
John Smith, Art
Frank Miller
`)

	rs, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules() error = %v", err)
	}

	names := rs.FullNames()
	want := []string{"Jane Doe", "Frank Miller"}
	if len(names) != len(want) {
		t.Fatalf("FullNames() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("FullNames()[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}
