// Package calendar renders Youth Protection Training expirations as an
// iCalendar feed the advancement committee can import, one all-day event per
// counselor whose directory entry carries a parseable expiration date.
package calendar

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/scoutops/mbc-pipeline/internal/matcher"
)

// Entry is one expiration to place on the calendar.
type Entry struct {
	Name    string
	Email   string
	Expires time.Time
}

// ParseYPTDate parses an expiration in the M/D/YYYY form the counselor
// directory renders, with or without zero padding.
func ParseYPTDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty YPT date")
	}
	t, err := time.Parse("1/2/2006", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing YPT date %q: %w", s, err)
	}
	return t, nil
}

// YPTCalendar generates an iCalendar document for the given expirations.
// Entries are sorted by date then name so the output is stable across runs.
// Empty input yields an empty string.
func YPTCalendar(entries []Entry, name string) string {
	if len(entries) == 0 {
		return ""
	}

	sorted := append([]Entry(nil), entries...)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].Expires.Equal(sorted[j].Expires) {
			return sorted[i].Expires.Before(sorted[j].Expires)
		}
		return sorted[i].Name < sorted[j].Name
	})

	var ics strings.Builder

	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString("VERSION:2.0\r\n")
	ics.WriteString("PRODID:-//ScoutOps//mbc-pipeline//EN\r\n")
	ics.WriteString("CALSCALE:GREGORIAN\r\n")
	ics.WriteString("METHOD:PUBLISH\r\n")
	if name != "" {
		ics.WriteString(fmt.Sprintf("X-WR-CALNAME:%s\r\n", escapeICS(name)))
	}

	stamp := time.Now().UTC()
	for _, e := range sorted {
		writeExpirationEvent(&ics, e, stamp)
	}

	ics.WriteString("END:VCALENDAR\r\n")
	return ics.String()
}

func writeExpirationEvent(ics *strings.Builder, e Entry, stamp time.Time) {
	ics.WriteString("BEGIN:VEVENT\r\n")

	// UID - deterministic per person and date so re-imports update in place
	uid := fmt.Sprintf("ypt-%s-%s@mbc-pipeline", matcher.Normalize(e.Name), formatICSDate(e.Expires))
	ics.WriteString(fmt.Sprintf("UID:%s\r\n", uid))

	// DTSTAMP - when this calendar entry was generated
	ics.WriteString(fmt.Sprintf("DTSTAMP:%s\r\n", formatICSTime(stamp)))

	// All-day event on the expiration date; DTEND is exclusive
	ics.WriteString(fmt.Sprintf("DTSTART;VALUE=DATE:%s\r\n", formatICSDate(e.Expires)))
	ics.WriteString(fmt.Sprintf("DTEND;VALUE=DATE:%s\r\n", formatICSDate(e.Expires.AddDate(0, 0, 1))))

	summary := fmt.Sprintf("YPT expires: %s", e.Name)
	ics.WriteString(fmt.Sprintf("SUMMARY:%s\r\n", escapeICS(summary)))

	description := fmt.Sprintf("Youth Protection Training for %s expires on %s. Renewal at my.scouting.org takes about an hour.",
		e.Name, e.Expires.Format("January 2, 2006"))
	if e.Email != "" {
		description = fmt.Sprintf("%s\nContact: %s", description, e.Email)
	}
	ics.WriteString(fmt.Sprintf("DESCRIPTION:%s\r\n", escapeICS(description)))

	ics.WriteString("STATUS:CONFIRMED\r\n")
	ics.WriteString("SEQUENCE:0\r\n")

	// TRANSP - a reminder, not a commitment; leave the day free
	ics.WriteString("TRANSP:TRANSPARENT\r\n")

	ics.WriteString("END:VEVENT\r\n")
}

// formatICSDate formats a time.Time as an iCalendar all-day date string
func formatICSDate(t time.Time) string {
	return t.Format("20060102")
}

// formatICSTime formats a time.Time as an iCalendar datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// escapeICS escapes special characters for iCalendar format
func escapeICS(s string) string {
	// Replace special characters according to RFC 5545
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
