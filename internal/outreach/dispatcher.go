package outreach

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Taiyaki-maker/Apply-Automation/internal/store"
	"github.com/Taiyaki-maker/Apply-Automation/pkg/mailer"
)

// Report summarizes one dispatch run.
type Report struct {
	Pending int `json:"pending"`
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
}

// Dispatcher sends the campaign message to every enriched record not yet
// contacted, at most once per record across all runs. The persisted
// contacted flag is the gate: it is set only after a successful send and
// never reset, so a record that fails stays pending and is retried on
// the next invocation.
type Dispatcher struct {
	store  *store.Store
	sender mailer.Sender
	tmpl   *Template
	log    *zap.Logger
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(st *store.Store, sender mailer.Sender, tmpl *Template, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{store: st, sender: sender, tmpl: tmpl, log: log}
}

// DispatchAll runs one outreach pass. One failed send never aborts the
// batch; flags for the whole pass are persisted once at the end.
func (d *Dispatcher) DispatchAll(ctx context.Context) (*Report, error) {
	snapshot, err := d.store.Load()
	if err != nil {
		return nil, eris.Wrap(err, "outreach: load store")
	}

	pending := snapshot.Pending()
	report := &Report{Pending: len(pending)}

	for _, rec := range pending {
		msg, err := d.tmpl.Render(rec)
		if err != nil {
			d.log.Warn("render failed", zap.String("place", rec.Name), zap.Error(err))
			report.Failed++
			continue
		}

		if err := d.sender.Send(ctx, msg); err != nil {
			d.log.Warn("send failed, will retry next run",
				zap.String("place", rec.Name),
				zap.String("to", rec.Email),
				zap.Error(err),
			)
			report.Failed++
			continue
		}

		snapshot.SetContacted(rec.Key())
		report.Sent++
		d.log.Info("application sent", zap.String("place", rec.Name), zap.String("to", rec.Email))
	}

	if err := d.store.Save(snapshot); err != nil {
		return report, eris.Wrap(err, "outreach: persist flags")
	}
	return report, nil
}
