package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/Taiyaki-maker/Apply-Automation/internal/model"
	"github.com/Taiyaki-maker/Apply-Automation/internal/scrape"
	"github.com/Taiyaki-maker/Apply-Automation/pkg/places"
)

// Enricher augments a discovered place with its website, opening hours,
// and a contact email scraped from the site. Every failure along the way
// degrades the record to unenriched; dead links, timeouts, and pages
// without a parseable email are steady-state events, not defects.
type Enricher struct {
	client  places.Client
	fetcher *scrape.Fetcher
	log     *zap.Logger
}

// NewEnricher creates an Enricher.
func NewEnricher(client places.Client, fetcher *scrape.Fetcher, log *zap.Logger) *Enricher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Enricher{client: client, fetcher: fetcher, log: log}
}

// Enrich produces the place record for one raw search hit. fetchFailed
// reports whether the website existed but could not be read, for the run
// report.
func (e *Enricher) Enrich(ctx context.Context, raw places.RawPlace) (rec model.Place, fetchFailed bool) {
	rec = model.Place{
		Name:    raw.Name,
		Address: raw.Address,
		Outcome: model.OutcomeUnenriched,
	}

	website, err := e.client.Website(ctx, raw.PlaceID)
	if err != nil {
		e.log.Debug("website lookup failed", zap.String("place", raw.Name), zap.Error(err))
		website = places.NoWebsite
	}
	rec.Website = website

	// Hours are attached to either outcome and never affect classification.
	if weekdays, err := e.client.OpeningHours(ctx, raw.PlaceID); err == nil {
		rec.OpeningHours, rec.ClosedDays = model.SummarizeHours(weekdays)
	}

	if website == places.NoWebsite {
		return rec, false
	}

	text, err := e.fetcher.Fetch(ctx, website)
	if err != nil {
		e.log.Debug("page fetch failed", zap.String("website", website), zap.Error(err))
		return rec, true
	}

	if email, ok := ExtractEmail(text); ok {
		rec.Email = email
		rec.Outcome = model.OutcomeEnriched
	}
	return rec, false
}
