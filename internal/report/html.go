package report

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"github.com/scoutops/mbc-pipeline/internal/analysis"
	"github.com/scoutops/mbc-pipeline/internal/badge"
	"github.com/scoutops/mbc-pipeline/internal/join"
)

const generatedLayout = "January 02, 2006 at 03:04 PM"

// htmlHeaderFmt is the shared document head: page title, embedded styles,
// and the banner with the generation timestamp.
const htmlHeaderFmt = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s</title>
    <style>
        body {
            font-family: Arial, sans-serif;
            max-width: 1200px;
            margin: 0 auto;
            padding: 20px;
            background-color: #f5f5f5;
        }
        .header {
            background-color: #003f7f;
            color: white;
            padding: 20px;
            border-radius: 8px;
            margin-bottom: 20px;
        }
        .header h1 {
            margin: 0;
            font-size: 24px;
        }
        .timestamp {
            font-size: 14px;
            opacity: 0.9;
        }
        .content {
            background-color: white;
            padding: 20px;
            border-radius: 8px;
            box-shadow: 0 2px 4px rgba(0,0,0,0.1);
        }
        table {
            width: 100%%;
            border-collapse: collapse;
            margin-top: 20px;
        }
        th, td {
            padding: 12px;
            text-align: left;
            border-bottom: 1px solid #ddd;
        }
        th {
            background-color: #f8f9fa;
            font-weight: bold;
        }
        tr:hover {
            background-color: #f5f5f5;
        }
        .section {
            margin-bottom: 30px;
        }
        .section h2 {
            color: #003f7f;
            border-bottom: 2px solid #003f7f;
            padding-bottom: 10px;
        }
        .badge-list {
            display: flex;
            flex-wrap: wrap;
            gap: 5px;
            margin-top: 5px;
        }
        .badge {
            background-color: #e9ecef;
            padding: 3px 8px;
            border-radius: 12px;
            font-size: 12px;
        }
        .eagle-badge {
            background-color: #ffd700;
            color: #000;
        }
        .coverage-table {
            table-layout: fixed;
        }
        .coverage-table th:first-child {
            width: 30%%;
        }
        .coverage-table th:last-child {
            width: 70%%;
        }
        .coverage-table td {
            vertical-align: top;
        }
    </style>
</head>
<body>
    <div class="header">
        <h1>%s</h1>
        <div class="timestamp">Generated on %s</div>
    </div>
`

func htmlHeader(title string, now time.Time) string {
	escaped := html.EscapeString(title)
	return fmt.Sprintf(htmlHeaderFmt, escaped, escaped, now.Format(generatedLayout))
}

func renderTroopCounselors(titlePrefix string, troops []string, counselors []join.Counselor, eagle badge.Set, now time.Time) string {
	var b strings.Builder
	b.WriteString(htmlHeader(fmt.Sprintf("%s Merit Badge Counselors", titlePrefix), now))

	b.WriteString(fmt.Sprintf(`
    <div class="content">
        <div class="section">
            <h2>%s Merit Badge Counselors (%d)</h2>
            <p>Merit Badge Counselors associated with %s including unit members and MBC-only registrations.</p>

            <table>
                <thead>
                    <tr>
                        <th>Name</th>
                        <th>Troops</th>
                        <th>Contact</th>
                        <th>YPT Expires</th>
                        <th>Merit Badges</th>
                    </tr>
                </thead>
                <tbody>
`, html.EscapeString(titlePrefix), len(counselors), html.EscapeString(strings.Join(troops, " and "))))

	for _, c := range counselors {
		b.WriteString(fmt.Sprintf(`                    <tr>
                        <td>%s</td>
                        <td>%s</td>
                        <td>%s</td>
                        <td>%s</td>
                        <td>%s</td>
                    </tr>
`, html.EscapeString(c.Name), html.EscapeString(c.TroopDisplay), contactCell(c), html.EscapeString(c.YPTExpiration), badgeChips(c.MeritBadges, eagle)))
	}

	b.WriteString(`                </tbody>
            </table>
        </div>
    </div>
</body>
</html>`)

	return b.String()
}

func renderNonCounselors(titlePrefix string, troops []string, leaders []join.Leader, now time.Time) string {
	var b strings.Builder
	b.WriteString(htmlHeader(fmt.Sprintf("%s Non-Counselor Leaders", titlePrefix), now))

	b.WriteString(fmt.Sprintf(`
    <div class="content">
        <div class="section">
            <h2>%s Leaders Who Are NOT Merit Badge Counselors (%d)</h2>
            <p>Adult members of %s who could potentially become Merit Badge Counselors.</p>

            <table>
                <thead>
                    <tr>
                        <th>Name</th>
                        <th>Troops</th>
                        <th>Position</th>
                    </tr>
                </thead>
                <tbody>
`, html.EscapeString(titlePrefix), len(leaders), html.EscapeString(strings.Join(troops, " and "))))

	for _, l := range leaders {
		b.WriteString(fmt.Sprintf(`                    <tr>
                        <td>%s</td>
                        <td>%s</td>
                        <td>%s</td>
                    </tr>
`, html.EscapeString(l.Name), html.EscapeString(l.TroopDisplay), html.EscapeString(positionsForLeader(l))))
	}

	b.WriteString(`                </tbody>
            </table>
        </div>
    </div>
</body>
</html>`)

	return b.String()
}

func renderCoverage(titlePrefix string, counselors []join.Counselor, allBadges []string, eagle badge.Set, now time.Time) string {
	counselorsFor := make(map[string][]string)
	for _, c := range counselors {
		display := fmt.Sprintf("%s (%s)", c.Name, c.TroopDisplay)
		for _, raw := range c.MeritBadges {
			name := strings.TrimSpace(raw)
			if name == "" {
				continue
			}
			counselorsFor[name] = append(counselorsFor[name], display)
		}
	}

	var eagleWith, eagleWithout, otherWith, otherWithout []string
	for _, name := range allBadges {
		_, covered := counselorsFor[name]
		switch {
		case eagle.Has(name) && covered:
			eagleWith = append(eagleWith, name)
		case eagle.Has(name):
			eagleWithout = append(eagleWithout, name)
		case covered:
			otherWith = append(otherWith, name)
		default:
			otherWithout = append(otherWithout, name)
		}
	}
	sort.Strings(eagleWith)
	sort.Strings(eagleWithout)
	sort.Strings(otherWith)
	sort.Strings(otherWithout)

	var b strings.Builder
	b.WriteString(htmlHeader(fmt.Sprintf("%s Merit Badge Coverage Report", titlePrefix), now))

	tp := html.EscapeString(titlePrefix)
	b.WriteString(fmt.Sprintf(`
    <div class="content">
        <h2>%s Merit Badge Coverage Report</h2>
`, tp))

	b.WriteString(coverageTableSection(
		fmt.Sprintf("Eagle-Required Merit Badges with %s Counselors (%d badges)", tp, len(eagleWith)),
		eagleWith, counselorsFor))
	b.WriteString(coverageChipsSection(
		fmt.Sprintf("Eagle-Required Merit Badges without %s Counselors (%d badges)", tp, len(eagleWithout)),
		eagleWithout, "badge eagle-badge"))
	b.WriteString(coverageTableSection(
		fmt.Sprintf("Non-Eagle Merit Badges with %s Counselors (%d badges)", tp, len(otherWith)),
		otherWith, counselorsFor))
	b.WriteString(coverageChipsSection(
		fmt.Sprintf("Non-Eagle Merit Badges without %s Counselors (%d badges)", tp, len(otherWithout)),
		otherWithout, "badge"))

	b.WriteString(`    </div>
</body>
</html>`)

	return b.String()
}

func coverageTableSection(heading string, badges []string, counselorsFor map[string][]string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf(`
        <div class="section">
            <h3>%s</h3>
            <table class="coverage-table">
                <tr><th>Merit Badge</th><th>Counselors</th></tr>
`, heading))

	for _, name := range badges {
		escaped := make([]string, 0, len(counselorsFor[name]))
		for _, c := range counselorsFor[name] {
			escaped = append(escaped, html.EscapeString(c))
		}
		b.WriteString(fmt.Sprintf(`                <tr>
                    <td>%s</td>
                    <td>%s</td>
                </tr>
`, html.EscapeString(name), strings.Join(escaped, "<br>")))
	}

	b.WriteString(`            </table>
        </div>
`)
	return b.String()
}

func coverageChipsSection(heading string, badges []string, chipClass string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf(`
        <div class="section">
            <h3>%s</h3>
            <div class="badge-list">
`, heading))

	for _, name := range badges {
		b.WriteString(fmt.Sprintf(`<span class="%s">%s</span>`, chipClass, html.EscapeString(name)))
	}
	if len(badges) > 0 {
		b.WriteString("\n")
	}

	b.WriteString(`            </div>
        </div>
`)
	return b.String()
}

func badgeChips(badges []string, eagle badge.Set) string {
	var b strings.Builder
	b.WriteString(`<div class="badge-list">`)
	for _, raw := range badges {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		class := "badge"
		if eagle.Has(name) {
			class = "eagle-badge"
		}
		b.WriteString(fmt.Sprintf(`<span class="%s">%s</span>`, class, html.EscapeString(name)))
	}
	b.WriteString(`</div>`)
	return b.String()
}

// contactCell stacks email and labeled phone numbers. Counselors whose
// directory entry only yielded a single unlabeled number fall back to that.
func contactCell(c join.Counselor) string {
	var parts []string
	if c.Email != "" {
		parts = append(parts, html.EscapeString(c.Email))
	}

	labeled := []struct{ label, number string }{
		{"Home", c.PhoneHome},
		{"Mobile", c.PhoneMobile},
		{"Work", c.PhoneWork},
	}
	hadLabeled := false
	for _, p := range labeled {
		if number := strings.TrimSpace(p.number); number != "" {
			parts = append(parts, fmt.Sprintf("%s: %s", p.label, html.EscapeString(number)))
			hadLabeled = true
		}
	}
	if !hadLabeled && c.Phone != "" {
		parts = append(parts, html.EscapeString(c.Phone))
	}

	return strings.Join(parts, "<br>")
}

// priorityStyle is appended to the priority report; it extends the shared
// header styles with the stat grid, priority tables, and definition lists.
const priorityStyle = `
        <style>
        .stats-grid {
            display: grid;
            grid-template-columns: repeat(4, 1fr);
            gap: 15px;
            margin: 20px 0;
        }
        .stat-box {
            text-align: center;
            padding: 15px;
            border-radius: 8px;
            border: 2px solid #ddd;
        }
        .stat-box.critical { border-color: #d32f2f; background-color: #ffebee; }
        .stat-box.high { border-color: #f57c00; background-color: #fff3e0; }
        .stat-box.medium { border-color: #1976d2; background-color: #e3f2fd; }
        .stat-box.scouts { border-color: #388e3c; background-color: #e8f5e8; }
        .stat-number { font-size: 2em; font-weight: bold; margin-bottom: 5px; }
        .stat-label { font-weight: bold; margin-bottom: 3px; }
        .stat-desc { font-size: 0.9em; color: #666; }

        .priority-table { width: 100%; border-collapse: collapse; margin: 15px 0; table-layout: fixed; }
        .priority-table th { background-color: #f5f5f5; padding: 10px; text-align: left; }
        .priority-table td { padding: 8px; border-bottom: 1px solid #ddd; vertical-align: top; }
        .priority-table th:nth-child(1), .priority-table td:nth-child(1) { width: 30%; }
        .priority-table th:nth-child(2), .priority-table td:nth-child(2) { width: 12%; text-align: center; }
        .priority-table th:nth-child(3), .priority-table td:nth-child(3) { width: 38%; }
        .priority-table th:nth-child(4), .priority-table td:nth-child(4) { width: 20%; }
        .priority-table .number { text-align: center; font-weight: bold; }
        .critical-row { background-color: #ffebee; }
        .high-row { background-color: #fff3e0; }

        .priority-list { margin: 15px 0; }
        .priority-item {
            display: flex;
            margin: 10px 0;
            padding: 15px;
            border-radius: 8px;
            border-left: 4px solid #ddd;
        }
        .priority-item.medium { border-left-color: #1976d2; background-color: #e3f2fd; }
        .priority-details { flex: 1; }
        .badge-name { font-size: 1.1em; font-weight: bold; margin-bottom: 5px; }
        .priority-meta { color: #000; margin-bottom: 5px; }

        .definitions {
            margin: 15px 0;
        }
        .definition-item {
            display: flex;
            margin: 10px 0;
            padding: 10px;
            border-radius: 8px;
            border-left: 4px solid #ddd;
        }
        .definition-item.critical { border-left-color: #d32f2f; background-color: #ffebee; }
        .definition-item.high { border-left-color: #f57c00; background-color: #fff3e0; }
        .definition-item.medium { border-left-color: #1976d2; background-color: #e3f2fd; }
        .definition-item.low { border-left-color: #999; background-color: #f5f5f5; }
        .definition-label {
            font-weight: bold;
            min-width: 80px;
            margin-right: 15px;
        }
        .definition-desc {
            flex: 1;
        }

        .instructions {
            background-color: #f8f9fa;
            padding: 20px;
            border-radius: 8px;
            border-left: 4px solid #17a2b8;
        }
        </style>
`

const priorityInstructions = `
        <div class="section">
            <h3>💡 How to Use This Report</h3>
            <div class="instructions">
                <p><strong>Understanding Priority Levels:</strong></p>
                <ul>
                    <li><strong>Critical Priority:</strong> Eagle-required Merit Badges with 0 or 1 Merit Badge Counselors (MBC). These are the highest recruitment priority regardless of current Scout requests, as they represent essential advancement requirements with insufficient coverage.</li>
                    <li><strong>High Priority:</strong> Non-Eagle Merit Badges with 3 or more Scout requests and no MBC coverage. Popular Merit Badges that Scouts are actively seeking to earn.</li>
                    <li><strong>Medium Priority:</strong> Non-Eagle Merit Badges with 1-2 Scout requests and no MBC coverage. Lower demand but still representing Scout interest.</li>
                    <li><strong>Adequate Coverage:</strong> Merit Badges with 3+ counselors are considered adequately covered and not shown as priorities in this report.</li>
                </ul>

                <p><strong>Using This Report for Merit Badge Counselor Recruitment:</strong></p>
                <ul>
                    <li><strong>Start with Critical Priority:</strong> Focus recruitment efforts on Eagle-required Merit Badges first, as these are essential for all Scouts working toward Eagle rank</li>
                    <li><strong>Review Scout Names:</strong> See which Scouts are requesting specific Merit Badges to gauge actual demand and timing needs</li>
                    <li><strong>Identify Candidates:</strong> Look for adult leaders with relevant skills, experience, or professional backgrounds matching priority Merit Badges</li>
                    <li><strong>Understand the Data:</strong> "Scouts Impacted" shows unique Scouts affected by coverage gaps (not total participants)</li>
                    <li><strong>Update Regularly:</strong> Re-run this analysis after recruiting new counselors or collecting new Scout interest data</li>
                </ul>
            </div>
        </div>
`

func renderPriority(titlePrefix string, artifact *analysis.Artifact, now time.Time) string {
	var critical, high, medium []analysis.Record
	for _, rec := range artifact.PriorityAnalysis {
		switch rec.GapLevel {
		case analysis.LevelCritical:
			critical = append(critical, rec)
		case analysis.LevelHigh:
			high = append(high, rec)
		case analysis.LevelMedium:
			medium = append(medium, rec)
		}
	}
	byBadge := func(records []analysis.Record) {
		sort.Slice(records, func(a, b int) bool { return records[a].BadgeName < records[b].BadgeName })
	}
	byBadge(critical)
	byBadge(high)
	byBadge(medium)

	var b strings.Builder
	b.WriteString(htmlHeader(fmt.Sprintf("%s Merit Badge Coverage Priority Analysis", titlePrefix), now))

	tp := html.EscapeString(titlePrefix)
	b.WriteString(fmt.Sprintf(`
    <div class="content">
        <h2>%s Merit Badge Coverage Priority Analysis</h2>
        <p>Based on Scout demand data and current counselor coverage - identifies recruitment priorities</p>

        <div class="section">
            <h3>📊 Analysis Summary</h3>
            <div class="stats-grid">
                <div class="stat-box critical">
                    <div class="stat-number">%d</div>
                    <div class="stat-label">Critical Priority</div>
                    <div class="stat-desc">Merit Badges</div>
                </div>
                <div class="stat-box high">
                    <div class="stat-number">%d</div>
                    <div class="stat-label">High Priority</div>
                    <div class="stat-desc">Merit Badges</div>
                </div>
                <div class="stat-box medium">
                    <div class="stat-number">%d</div>
                    <div class="stat-label">Medium Priority</div>
                    <div class="stat-desc">Merit Badges</div>
                </div>
                <div class="stat-box scouts">
                    <div class="stat-number">%d</div>
                    <div class="stat-label">Scouts Impacted</div>
                    <div class="stat-desc">By coverage gaps</div>
                </div>
            </div>
        </div>

        <div class="section">
            <h3>📋 Priority Definitions</h3>
            <div class="definitions">
                <div class="definition-item critical">
                    <div class="definition-label">Critical</div>
                    <div class="definition-desc">Eagle-required Merit Badges with 0 or 1 Merit Badge Counselors (MBC)</div>
                </div>
                <div class="definition-item high">
                    <div class="definition-label">High</div>
                    <div class="definition-desc">3 or more Scouts requesting a non-Eagle Merit Badge with no MBC coverage</div>
                </div>
                <div class="definition-item medium">
                    <div class="definition-label">Medium</div>
                    <div class="definition-desc">1-2 Scouts requesting a non-Eagle Merit Badge with no MBC coverage</div>
                </div>
                <div class="definition-item low">
                    <div class="definition-label">Low</div>
                    <div class="definition-desc">Non-requested, non-Eagle Merit Badges with no MBC coverage</div>
                </div>
            </div>
        </div>
`, tp, len(critical), len(high), len(medium), artifact.AnalysisSummary.ScoutImpact.UniqueScoutsAffected))

	b.WriteString(fmt.Sprintf(`
        <div class="section">
            <h3>🚨 Critical Priority (%d Merit Badges)</h3>
            <p>Eagle-required Merit Badges with 0 or 1 Merit Badge Counselors (MBC).</p>

            <table class="priority-table">
                <thead>
                    <tr>
                        <th>Merit Badge</th>
                        <th>Scout Demand</th>
                        <th>Interested Scouts</th>
                        <th>Merit Badge Counselor</th>
                    </tr>
                </thead>
                <tbody>
`, len(critical)))

	for _, rec := range critical {
		b.WriteString(fmt.Sprintf(`                    <tr class="critical-row">
                        <td><strong>%s%s</strong></td>
                        <td class="number">%d</td>
                        <td>%s</td>
                        <td>%s</td>
                    </tr>
`, eagleIndicator(rec), html.EscapeString(rec.BadgeName), rec.ScoutDemand, scoutsCell(rec.InterestedScouts), firstCounselorName(rec)))
	}

	b.WriteString(fmt.Sprintf(`                </tbody>
            </table>
        </div>

        <div class="section">
            <h3>⚠️ High Priority (%d Merit Badges)</h3>
            <p>3 or more Scouts requesting non-Eagle Merit Badges with no MBC coverage.</p>

            <table class="priority-table">
                <thead>
                    <tr>
                        <th>Merit Badge</th>
                        <th>Scout Demand</th>
                        <th>Interested Scouts</th>
                    </tr>
                </thead>
                <tbody>
`, len(high)))

	for _, rec := range high {
		b.WriteString(fmt.Sprintf(`                    <tr class="high-row">
                        <td><strong>%s%s</strong></td>
                        <td class="number">%d</td>
                        <td>%s</td>
                    </tr>
`, eagleIndicator(rec), html.EscapeString(rec.BadgeName), rec.ScoutDemand, scoutsCell(rec.InterestedScouts)))
	}

	b.WriteString(fmt.Sprintf(`                </tbody>
            </table>
        </div>

        <div class="section">
            <h3>🎯 Medium Priority (%d Merit Badges)</h3>
            <p>1-2 Scouts requesting non-Eagle Merit Badges with no MBC coverage.</p>

            <div class="priority-list">
`, len(medium)))

	for _, rec := range medium {
		b.WriteString(fmt.Sprintf(`                <div class="priority-item medium">
                    <div class="priority-details">
                        <div class="badge-name">%s%s</div>
                        <div class="priority-meta">
                            %d Scout(s) interested: %s
                        </div>
                    </div>
                </div>
`, eagleIndicator(rec), html.EscapeString(rec.BadgeName), rec.ScoutDemand, scoutsCell(rec.InterestedScouts)))
	}

	b.WriteString(`            </div>
        </div>
`)

	b.WriteString(priorityInstructions)
	b.WriteString(priorityStyle)
	b.WriteString(`    </div>
</body>
</html>`)

	return b.String()
}

func eagleIndicator(rec analysis.Record) string {
	if rec.IsEagleRequired {
		return "🦅 "
	}
	return ""
}

// scoutsCell lists up to three interested Scouts with a "+N more" overflow.
func scoutsCell(scouts []string) string {
	if len(scouts) == 0 {
		return "None currently"
	}

	shown := scouts
	more := 0
	if len(scouts) > 3 {
		shown = scouts[:3]
		more = len(scouts) - 3
	}

	cell := html.EscapeString(strings.Join(shown, ", "))
	if more > 0 {
		cell += fmt.Sprintf(" +%d more", more)
	}
	return cell
}

func firstCounselorName(rec analysis.Record) string {
	if len(rec.Counselors) == 0 {
		return "None"
	}
	return html.EscapeString(rec.Counselors[0].Name)
}
