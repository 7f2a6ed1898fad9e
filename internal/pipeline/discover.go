// Package pipeline implements the discovery, enrichment, and merge run
// over the places provider and the dedup store.
package pipeline

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Taiyaki-maker/Apply-Automation/internal/model"
	"github.com/Taiyaki-maker/Apply-Automation/pkg/places"
)

// DefaultPageDelay is the pause before each continuation-page request.
// Provider tokens take a moment to become valid, and the pause keeps the
// walk inside the provider's rate limits.
const DefaultPageDelay = 2 * time.Second

// Discoverer walks text-search result pages and yields candidate places
// not seen before, either in this walk or in a prior run.
type Discoverer struct {
	client places.Client
	delay  time.Duration
	log    *zap.Logger
}

// NewDiscoverer creates a Discoverer. A zero pageDelay disables the
// inter-page pause (tests).
func NewDiscoverer(client places.Client, pageDelay time.Duration, log *zap.Logger) *Discoverer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Discoverer{client: client, delay: pageDelay, log: log}
}

// Discover collects up to maxResults raw places for the query, skipping
// any whose identity key is in known, already emitted this walk, or
// empty. A provider failure mid-walk returns the places collected so far
// together with the error; partial results are valid and the caller
// decides whether the failure is worth more than a warning.
func (d *Discoverer) Discover(ctx context.Context, query string, maxResults int, known map[string]struct{}) ([]places.RawPlace, error) {
	if maxResults <= 0 {
		return nil, nil
	}

	seen := make(map[string]struct{}, len(known))
	for k := range known {
		seen[k] = struct{}{}
	}

	var collected []places.RawPlace
	pageToken := ""
	for page := 1; ; page++ {
		if pageToken != "" && d.delay > 0 {
			select {
			case <-ctx.Done():
				return collected, eris.Wrap(ctx.Err(), "discover: cancelled")
			case <-time.After(d.delay):
			}
		}

		result, err := d.client.SearchPage(ctx, query, pageToken)
		if err != nil {
			// Continuation state is provider-assigned and expires, so a
			// failed page ends the walk. What was collected still counts.
			return collected, eris.Wrapf(err, "discover: page %d", page)
		}

		for _, raw := range result.Places {
			key := model.NormalizeName(raw.Name)
			if key == "" {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			collected = append(collected, raw)
		}

		d.log.Debug("search page processed",
			zap.Int("page", page),
			zap.Int("hits", len(result.Places)),
			zap.Int("collected", len(collected)),
		)

		if len(collected) >= maxResults || result.NextPageToken == "" {
			break
		}
		pageToken = result.NextPageToken
	}

	if len(collected) > maxResults {
		collected = collected[:maxResults]
	}
	return collected, nil
}
