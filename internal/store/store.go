// Package store persists place records to a two-sheet workbook,
// deduplicated by identity key and partitioned by enrichment outcome.
package store

import (
	"github.com/Taiyaki-maker/Apply-Automation/internal/model"
)

// Snapshot is the full store state held in memory for one run. The
// workbook file is the single source of truth between runs; nothing else
// retains state across invocations.
type Snapshot struct {
	Succeeded []model.Place
	Failed    []model.Place
}

// Identities returns the set of identity keys present in either
// partition.
func (s *Snapshot) Identities() map[string]struct{} {
	ids := make(map[string]struct{}, len(s.Succeeded)+len(s.Failed))
	for _, p := range s.Succeeded {
		ids[p.Key()] = struct{}{}
	}
	for _, p := range s.Failed {
		ids[p.Key()] = struct{}{}
	}
	return ids
}

// Contains reports whether an identity key exists in either partition.
func (s *Snapshot) Contains(key string) bool {
	_, ok := s.Identities()[key]
	return ok
}

// Merge appends new records to their outcome partition, first-write-wins:
// a record whose identity key already exists anywhere in the snapshot is
// discarded, and existing records are never modified. Records without a
// usable identity are dropped. Returns the number appended.
func (s *Snapshot) Merge(records []model.Place) int {
	ids := s.Identities()
	appended := 0
	for _, rec := range records {
		key := rec.Key()
		if key == "" {
			continue
		}
		if _, ok := ids[key]; ok {
			continue
		}
		ids[key] = struct{}{}
		if rec.Outcome == model.OutcomeEnriched {
			s.Succeeded = append(s.Succeeded, rec)
		} else {
			s.Failed = append(s.Failed, rec)
		}
		appended++
	}
	return appended
}

// SetContacted marks the succeeded record with the given identity key as
// contacted. The flag only ever transitions false to true; calling this
// twice, or for a key that is absent or already contacted, is a no-op.
func (s *Snapshot) SetContacted(key string) {
	for i := range s.Succeeded {
		if s.Succeeded[i].Key() == key {
			s.Succeeded[i].Contacted = true
			return
		}
	}
}

// Pending returns the succeeded records still awaiting outreach: not yet
// contacted and carrying a non-empty email.
func (s *Snapshot) Pending() []model.Place {
	var pending []model.Place
	for _, p := range s.Succeeded {
		if !p.Contacted && p.Email != "" {
			pending = append(pending, p)
		}
	}
	return pending
}
