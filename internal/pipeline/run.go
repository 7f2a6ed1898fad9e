package pipeline

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Taiyaki-maker/Apply-Automation/internal/model"
	"github.com/Taiyaki-maker/Apply-Automation/internal/store"
)

// Report summarizes one discovery run for the operator.
type Report struct {
	Discovered    int `json:"discovered"`
	Enriched      int `json:"enriched"`
	Unenriched    int `json:"unenriched"`
	Appended      int `json:"appended"`
	FetchFailures int `json:"fetch_failures"`
	ProviderStops int `json:"provider_stops"`
}

// Runner wires discovery, enrichment, and the dedup store into one
// run-to-completion pipeline invocation.
type Runner struct {
	discoverer *Discoverer
	enricher   *Enricher
	store      *store.Store
	log        *zap.Logger
}

// NewRunner creates a Runner.
func NewRunner(d *Discoverer, e *Enricher, st *store.Store, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{discoverer: d, enricher: e, store: st, log: log}
}

// Run executes one discovery-and-enrichment pass: load known identities,
// walk search pages, enrich each new place, and merge the batch into the
// store. Per-record failures become data state; only a store write
// failure is returned as an error.
func (r *Runner) Run(ctx context.Context, query string, maxResults int) (*Report, error) {
	snapshot, err := r.store.Load()
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: load store")
	}
	known := snapshot.Identities()
	r.log.Info("store loaded",
		zap.Int("succeeded", len(snapshot.Succeeded)),
		zap.Int("failed", len(snapshot.Failed)),
	)

	report := &Report{}

	raws, err := r.discoverer.Discover(ctx, query, maxResults, known)
	if err != nil {
		// The walk ended early; whatever was collected still flows on.
		r.log.Warn("discovery stopped early", zap.Error(err), zap.Int("collected", len(raws)))
		report.ProviderStops++
	}
	report.Discovered = len(raws)

	records := make([]model.Place, 0, len(raws))
	for _, raw := range raws {
		rec, fetchFailed := r.enricher.Enrich(ctx, raw)
		if fetchFailed {
			report.FetchFailures++
		}
		if rec.Outcome == model.OutcomeEnriched {
			report.Enriched++
		} else {
			report.Unenriched++
		}
		records = append(records, rec)
	}

	appended := snapshot.Merge(records)
	report.Appended = appended

	if err := r.store.Save(snapshot); err != nil {
		return report, eris.Wrap(err, "pipeline: save store")
	}

	r.log.Info("discovery run complete",
		zap.Int("discovered", report.Discovered),
		zap.Int("enriched", report.Enriched),
		zap.Int("unenriched", report.Unenriched),
		zap.Int("appended", report.Appended),
		zap.Int("fetch_failures", report.FetchFailures),
	)
	return report, nil
}
