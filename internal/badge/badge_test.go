package badge

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultEagleBadges(t *testing.T) {
	badges := DefaultEagleBadges()

	if len(badges) != 18 {
		t.Errorf("DefaultEagleBadges() returned %d badges, want 18", len(badges))
	}

	set := NewSet(badges...)
	for _, required := range []string{"Camping", "First Aid", "Citizenship in the Community", "Sustainability"} {
		if !set.Has(required) {
			t.Errorf("Eagle list missing %q", required)
		}
	}
	if set.Has("Golf") {
		t.Error("Eagle list should not contain Golf")
	}

	// Returned slice is a copy; mutating it must not leak into the catalog.
	badges[0] = "mutated"
	if DefaultEagleBadges()[0] == "mutated" {
		t.Error("DefaultEagleBadges() shares backing array with catalog")
	}
}

func TestCanonical(t *testing.T) {
	aliases := DefaultAliases()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"aliased citizenship badge", "Citizenship in Community", "Citizenship in the Community"},
		{"already canonical", "Citizenship in the Community", "Citizenship in the Community"},
		{"unknown passes through", "Golf", "Golf"},
		{"whitespace trimmed", "  Camping ", "Camping"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Canonical(tt.in, aliases); got != tt.want {
				t.Errorf("Canonical(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSet_Names(t *testing.T) {
	s := NewSet("Swimming", "Camping", "Hiking")
	names := s.Names()

	want := []string{"Camping", "Hiking", "Swimming"}
	if len(names) != len(want) {
		t.Fatalf("Names() returned %d names, want %d", len(names), len(want))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestLoadAll(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "all_merit_badges.txt")
	content := "# full badge universe\nArchery\n\nBasketry\nCamping\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	badges, err := LoadAll(path)
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}

	want := []string{"Archery", "Basketry", "Camping"}
	if len(badges) != len(want) {
		t.Fatalf("LoadAll() returned %d badges, want %d", len(badges), len(want))
	}
	for i := range want {
		if badges[i] != want[i] {
			t.Errorf("badges[%d] = %q, want %q", i, badges[i], want[i])
		}
	}
}

func TestLoadAll_MissingFile(t *testing.T) {
	if _, err := LoadAll(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Error("LoadAll() on missing file should return an error")
	}
}
