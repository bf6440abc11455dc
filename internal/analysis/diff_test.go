package analysis

import "testing"

func TestCompareRuns(t *testing.T) {
	previous := []Record{
		{BadgeName: "Camping", GapLevel: LevelCritical},
		{BadgeName: "Golf", GapLevel: LevelHigh},
		{BadgeName: "Basketry", GapLevel: LevelMedium},
		{BadgeName: "Chess", GapLevel: LevelAdequate},
	}
	current := []Record{
		{BadgeName: "Camping", GapLevel: LevelCritical}, // unchanged
		{BadgeName: "Golf", GapLevel: LevelAdequate},    // resolved
		{BadgeName: "Chess", GapLevel: LevelMedium},     // was adequate, now gapped
		{BadgeName: "Archery", GapLevel: LevelHigh},     // brand new
		// Basketry absent entirely: resolved
	}

	changes := CompareRuns(previous, current)

	byBadge := make(map[string]GapChange)
	for _, c := range changes {
		byBadge[c.BadgeName] = c
	}

	if len(changes) != 4 {
		t.Fatalf("CompareRuns() returned %d changes, want 4: %+v", len(changes), changes)
	}
	if c := byBadge["Archery"]; c.ChangeType != "new" || c.NewLevel != LevelHigh {
		t.Errorf("Archery change = %+v", c)
	}
	if c := byBadge["Chess"]; c.ChangeType != "new" || c.OldLevel != LevelAdequate {
		t.Errorf("Chess change = %+v, want new gap from adequate", c)
	}
	if c := byBadge["Golf"]; c.ChangeType != "resolved" || c.OldLevel != LevelHigh {
		t.Errorf("Golf change = %+v", c)
	}
	if c := byBadge["Basketry"]; c.ChangeType != "resolved" || c.OldLevel != LevelMedium {
		t.Errorf("Basketry change = %+v", c)
	}
	if _, ok := byBadge["Camping"]; ok {
		t.Error("unchanged badge should not appear in the diff")
	}
}

func TestCompareRuns_LevelTransition(t *testing.T) {
	previous := []Record{{BadgeName: "Golf", GapLevel: LevelMedium}}
	current := []Record{{BadgeName: "Golf", GapLevel: LevelHigh}}

	changes := CompareRuns(previous, current)
	if len(changes) != 1 {
		t.Fatalf("got %d changes, want 1", len(changes))
	}
	c := changes[0]
	if c.ChangeType != "level" || c.OldLevel != LevelMedium || c.NewLevel != LevelHigh {
		t.Errorf("change = %+v", c)
	}
}

func TestCompareRuns_FirstRun(t *testing.T) {
	current := []Record{
		{BadgeName: "Camping", GapLevel: LevelCritical},
		{BadgeName: "Chess", GapLevel: LevelAdequate},
	}

	changes := CompareRuns(nil, current)
	if len(changes) != 1 {
		t.Fatalf("got %d changes, want 1 (adequate badges are not gaps)", len(changes))
	}
	if changes[0].BadgeName != "Camping" || changes[0].ChangeType != "new" {
		t.Errorf("change = %+v", changes[0])
	}
}

func TestCompareRuns_SortedOutput(t *testing.T) {
	current := []Record{
		{BadgeName: "Zebra Studies", GapLevel: LevelMedium},
		{BadgeName: "Archery", GapLevel: LevelMedium},
		{BadgeName: "Moviemaking", GapLevel: LevelMedium},
	}

	changes := CompareRuns(nil, current)
	want := []string{"Archery", "Moviemaking", "Zebra Studies"}
	for i, name := range want {
		if changes[i].BadgeName != name {
			t.Errorf("changes[%d] = %s, want %s", i, changes[i].BadgeName, name)
		}
	}
}
