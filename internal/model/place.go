// Package model defines the place record shared across discovery, the
// dedup store, and outreach.
package model

import (
	"strings"

	"golang.org/x/text/cases"
)

// Outcome classifies an enrichment attempt.
type Outcome string

const (
	// OutcomeEnriched means a non-empty contact email was obtained.
	OutcomeEnriched Outcome = "enriched"
	// OutcomeUnenriched covers everything else: no website, unreachable
	// site, or no email pattern on the page.
	OutcomeUnenriched Outcome = "unenriched"
)

// Place is one discovered business record.
type Place struct {
	Name         string
	Address      string
	Website      string
	Email        string
	OpeningHours string
	ClosedDays   string
	Outcome      Outcome
	Contacted    bool
}

// Key returns the normalized identity key for the record. An empty key
// means no usable identity; such records are never persisted.
func (p Place) Key() string {
	return NormalizeName(p.Name)
}

// NormalizeName canonicalizes a raw display name into a comparable
// identity key: surrounding whitespace trimmed, Unicode case folded.
// Empty input maps to the empty string.
func NormalizeName(name string) string {
	// cases.Caser carries state, so build one per call.
	return cases.Fold().String(strings.TrimSpace(name))
}

// SummarizeHours splits provider weekday text (e.g. "Monday: Closed",
// "Tuesday: 7:00 AM – 3:00 PM") into an opening-hours summary and a
// comma list of closed day names.
func SummarizeHours(weekdays []string) (open, closed string) {
	var openDays, closedDays []string
	for _, line := range weekdays {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		day, hours, found := strings.Cut(line, ":")
		if found && strings.EqualFold(strings.TrimSpace(hours), "closed") {
			closedDays = append(closedDays, strings.TrimSpace(day))
			continue
		}
		openDays = append(openDays, line)
	}
	return strings.Join(openDays, "; "), strings.Join(closedDays, ", ")
}
