package main

import (
	"fmt"
	"os"
	"time"

	"github.com/scoutops/mbc-pipeline/internal/analysis"
	"github.com/scoutops/mbc-pipeline/internal/badge"
	"github.com/scoutops/mbc-pipeline/internal/join"
	"github.com/scoutops/mbc-pipeline/internal/report"
	"github.com/scoutops/mbc-pipeline/internal/storage"
)

// Renders a report bundle from canned data into ./preview-data for manual
// eyeballing of the HTML and calendar output.
func main() {
	j := &join.Result{
		TroopCounselors: []join.Counselor{
			{
				Name:          "Christopher (Chris) White",
				FirstName:     "Christopher",
				LastName:      "White",
				Troops:        []string{"32"},
				TroopDisplay:  "T32",
				MeritBadges:   []string{"Camping", "Cooking", "Golf"},
				Email:         "chris.white@example.com",
				Phone:         "(702) 555-0142",
				PhoneMobile:   "(702) 555-0142",
				YPTExpiration: "3/14/2027",
				Source:        "roster",
			},
		},
		NonCounselorLeaders: []join.Leader{
			{
				Name:         "Dana Brooks",
				FirstName:    "Dana",
				LastName:     "Brooks",
				Troops:       []string{"32"},
				TroopDisplay: "T32",
				Positions:    map[string]string{"32": "Committee Member"},
			},
		},
		TotalAdults: 2,
		MBCMatches:  1,
	}

	scorer := analysis.NewScorer()
	coverage := scorer.BuildCoverage([]analysis.Certified{
		{
			Ref:    analysis.CounselorRef{Name: "Christopher (Chris) White", Troop: "T32"},
			Badges: []string{"Camping", "Cooking", "Golf"},
		},
	})
	demand := map[string]analysis.Demand{
		"Camping": {ScoutCount: 5, InterestedScouts: []string{"Scout A", "Scout B", "Scout C", "Scout D", "Scout E"}, IsEagleRequired: true, PriorityWeight: 1.5},
		"Golf":    {ScoutCount: 4, InterestedScouts: []string{"Scout A", "Scout F", "Scout G", "Scout H"}},
		"Chess":   {ScoutCount: 1, InterestedScouts: []string{"Scout B"}},
	}
	records := scorer.Prioritize(demand, coverage)
	artifact := &analysis.Artifact{
		PriorityAnalysis: records,
		AnalysisSummary:  analysis.Summarize(records),
	}

	store, err := storage.New("preview-data", nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating store: %v\n", err)
		os.Exit(1)
	}

	dir, err := report.Generate(store, &report.Data{
		Join:        j,
		Priority:    artifact,
		AllBadges:   append(badge.DefaultEagleBadges(), "Golf", "Chess", "Art"),
		EagleBadges: badge.NewSet(badge.DefaultEagleBadges()...),
	}, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating reports: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Preview reports written to %s\n", dir)
}
