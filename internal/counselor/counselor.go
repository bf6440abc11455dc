package counselor

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"github.com/scoutops/mbc-pipeline/internal/matcher"
)

// entrySelectors are tried in order against a listing page. The inline-style
// variant matches the classic ScoutBook results layout; the class-based ones
// cover newer exports.
var entrySelectors = []string{
	`div[style*="margin-left: 65px"]`,
	".counselor-entry",
	".mb-counselor",
	"div.counselor",
}

var (
	emailRe        = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	homePhoneRe    = regexp.MustCompile(`(?i)Home[:\s]*\(?(\d{3})\)?[-.\s]*(\d{3})[-.\s]*(\d{4})`)
	mobilePhoneRe  = regexp.MustCompile(`(?i)Mobile[:\s]*\(?(\d{3})\)?[-.\s]*(\d{3})[-.\s]*(\d{4})`)
	workPhoneRe    = regexp.MustCompile(`(?i)Work[:\s]*\(?(\d{3})\)?[-.\s]*(\d{3})[-.\s]*(\d{4})`)
	yptExpiresRe   = regexp.MustCompile(`(?i)Expires:\s*(\d{1,2}/\d{1,2}/\d{4})`)
	cityStateZipRe = regexp.MustCompile(`([A-Za-z][A-Za-z\s]*?),\s*([A-Z]{2})\s*(\d{5})`)
	stateOrZipRe   = regexp.MustCompile(`\b[A-Z]{2}\b|\d{5}`)
)

// decorationPhrases appear on ScoutBook chip images (council logos, approval
// checkmarks) that share the merit badge chip markup.
var decorationPhrases = []string{"council", "heart", "england", "approved", "checkbox"}

// Record is one counselor extracted from a listing page.
type Record struct {
	Name          string   `json:"name"`
	FirstName     string   `json:"first_name"`
	AltFirstName  string   `json:"alt_first_name"`
	LastName      string   `json:"last_name"`
	Location      string   `json:"location"`
	Email         string   `json:"email"`
	Phone         string   `json:"phone"`
	PhoneHome     string   `json:"phone_home"`
	PhoneMobile   string   `json:"phone_mobile"`
	PhoneWork     string   `json:"phone_work"`
	YPTExpiration string   `json:"ypt_expiration"`
	MeritBadges   []string `json:"merit_badges"`
}

// PersonName returns the parsed name used for join-key generation.
func (r Record) PersonName() matcher.PersonName {
	return matcher.PersonName{First: r.FirstName, AltFirst: r.AltFirstName, Last: r.LastName}
}

// ExtractionMetadata describes one extraction run.
type ExtractionMetadata struct {
	Timestamp       string `json:"timestamp"`
	TotalCounselors int    `json:"total_counselors"`
	Source          string `json:"source"`
	RunID           string `json:"run_id"`
}

// Directory is the counselor directory artifact.
type Directory struct {
	ExtractionMetadata ExtractionMetadata `json:"extraction_metadata"`
	Counselors         []Record           `json:"counselors"`
}

// NewDirectory wraps extracted records with run metadata.
func NewDirectory(records []Record, source string) Directory {
	if records == nil {
		records = []Record{}
	}
	return Directory{
		ExtractionMetadata: ExtractionMetadata{
			Timestamp:       time.Now().Format(time.RFC3339),
			TotalCounselors: len(records),
			Source:          source,
			RunID:           uuid.NewString(),
		},
		Counselors: records,
	}
}

// ParseFile extracts counselor records from one saved listing page.
func ParseFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening counselor page: %w", err)
	}
	defer f.Close() // nolint:errcheck

	records, err := parsePage(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return records, nil
}

// ParseDir extracts counselors from every .html page in dir, merging pages
// and deduplicating by normalized name. Page order is the sorted filename
// order, so multi-page extractions are stable across runs.
func ParseDir(dir string) ([]Record, error) {
	pages, err := filepath.Glob(filepath.Join(dir, "*.html"))
	if err != nil {
		return nil, fmt.Errorf("listing counselor pages: %w", err)
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("no counselor pages found in %s", dir)
	}
	sort.Strings(pages)

	merged := make([]Record, 0)
	seen := make(map[string]bool)
	for _, page := range pages {
		records, err := ParseFile(page)
		if err != nil {
			return nil, err
		}
		for _, rec := range records {
			key := matcher.Normalize(rec.Name)
			if seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, rec)
		}
	}
	return merged, nil
}

// parsePage extracts counselor records from listing page HTML.
func parsePage(r io.Reader) ([]Record, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	var blocks *goquery.Selection
	for _, selector := range entrySelectors {
		if found := doc.Find(selector); found.Length() > 0 {
			blocks = found
			break
		}
	}
	if blocks == nil {
		// Fallback: any div whose text carries an email address.
		blocks = doc.Find("div").FilterFunction(func(_ int, s *goquery.Selection) bool {
			return emailRe.MatchString(s.Text())
		})
	}

	records := make([]Record, 0)
	seen := make(map[string]bool)
	blocks.Each(func(_ int, sel *goquery.Selection) {
		rec, ok := parseEntry(sel)
		if !ok {
			return
		}
		key := matcher.Normalize(rec.Name)
		if seen[key] {
			return
		}
		seen[key] = true
		records = append(records, rec)
	})
	return records, nil
}

// parseEntry pulls one counselor out of a listing block. An entry is kept
// only when it has a parseable name and at least one contact field.
func parseEntry(sel *goquery.Selection) (Record, bool) {
	full := sel.Text()
	lines := nonEmptyLines(full)
	if len(lines) == 0 {
		return Record{}, false
	}

	name := matcher.ParseName(lines[0])
	if name.Last == "" {
		return Record{}, false
	}

	rec := Record{
		FirstName:    name.First,
		AltFirstName: name.AltFirst,
		LastName:     name.Last,
		MeritBadges:  []string{},
	}
	if name.AltFirst != "" {
		rec.Name = fmt.Sprintf("%s (%s) %s", name.First, name.AltFirst, name.Last)
	} else {
		rec.Name = lines[0]
	}

	if addr := sel.Find("div.address").First(); addr.Length() > 0 {
		rec.Location = locationFromAddress(addr.Text())
	} else {
		// The location line runs straight into the phone block in the
		// flattened text ("Acton, MA 01720Home (978) 263-4038..."), so the
		// zip code terminates the match.
		for _, line := range lines[1:] {
			if m := cityStateZipRe.FindStringSubmatch(line); m != nil {
				rec.Location = fmt.Sprintf("%s, %s %s", strings.TrimSpace(m[1]), m[2], m[3])
				break
			}
		}
	}

	rec.PhoneHome = phoneFrom(homePhoneRe, full)
	rec.PhoneMobile = phoneFrom(mobilePhoneRe, full)
	rec.PhoneWork = phoneFrom(workPhoneRe, full)
	rec.Phone = firstNonEmpty(rec.PhoneHome, rec.PhoneMobile, rec.PhoneWork)

	rec.Email = emailRe.FindString(full)

	// yptDate is sometimes a sibling of the entry block rather than a child,
	// so ancestor divs are searched closest-first before falling back to the
	// flattened text.
	ypt := sel.Find("div.yptDate").First()
	if ypt.Length() == 0 {
		sel.ParentsFiltered("div").EachWithBreak(func(_ int, p *goquery.Selection) bool {
			if found := p.Find("div.yptDate").First(); found.Length() > 0 {
				ypt = found
				return false
			}
			return true
		})
	}
	if ypt.Length() > 0 {
		if m := yptExpiresRe.FindStringSubmatch(ypt.Text()); m != nil {
			rec.YPTExpiration = m[1]
		}
	} else if m := yptExpiresRe.FindStringSubmatch(full); m != nil {
		rec.YPTExpiration = m[1]
	}

	if container := sel.Find("div.mbContainer").First(); container.Length() > 0 {
		chips := container.Find("div.mb.ui-corner-all.ui-shadow")
		if chips.Length() == 0 {
			chips = container.Find("div").FilterFunction(func(_ int, s *goquery.Selection) bool {
				cls, _ := s.Attr("class")
				return strings.Contains(strings.ToLower(cls), "mb")
			})
		}
		chips.Each(func(_ int, chip *goquery.Selection) {
			text := strings.TrimSpace(chip.Text())
			if text == "" || isDecorationChip(text) {
				return
			}
			rec.MeritBadges = append(rec.MeritBadges, text)
		})
	}

	if rec.Name == "" || (rec.Email == "" && rec.Phone == "") {
		return Record{}, false
	}
	return rec, true
}

// locationFromAddress reduces an address block to its geographic lines,
// dropping phone and email rows.
func locationFromAddress(text string) string {
	keep := make([]string, 0, 2)
	for _, line := range nonEmptyLines(text) {
		lower := strings.ToLower(line)
		if strings.Contains(lower, "home") || strings.Contains(lower, "mobile") ||
			strings.Contains(lower, "work") || strings.Contains(lower, "@") ||
			strings.Contains(lower, "expires") {
			continue
		}
		if stateOrZipRe.MatchString(line) {
			keep = append(keep, line)
		}
	}
	return strings.Join(keep, ", ")
}

func phoneFrom(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return fmt.Sprintf("(%s) %s-%s", m[1], m[2], m[3])
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func nonEmptyLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// isDecorationChip reports whether chip text is a council logo or approval
// marker rather than a merit badge name.
func isDecorationChip(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range decorationPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
