package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Taiyaki-maker/Apply-Automation/internal/model"
)

func enriched(name, email string) model.Place {
	return model.Place{Name: name, Email: email, Outcome: model.OutcomeEnriched}
}

func unenriched(name string) model.Place {
	return model.Place{Name: name, Outcome: model.OutcomeUnenriched}
}

func TestSnapshotMergePartitionsByOutcome(t *testing.T) {
	sn := &Snapshot{}

	appended := sn.Merge([]model.Place{
		enriched("Cafe A", "a@a.com"),
		unenriched("Cafe B"),
	})

	assert.Equal(t, 2, appended)
	assert.Len(t, sn.Succeeded, 1)
	assert.Len(t, sn.Failed, 1)
}

func TestSnapshotMergeFirstWriteWins(t *testing.T) {
	sn := &Snapshot{}
	sn.Merge([]model.Place{enriched("Cafe A", "first@a.com")})

	appended := sn.Merge([]model.Place{
		enriched("  CAFE A  ", "second@a.com"), // same identity
		unenriched("cafe a"),                   // same identity, other outcome
	})

	assert.Zero(t, appended)
	assert.Len(t, sn.Succeeded, 1)
	assert.Empty(t, sn.Failed)
	assert.Equal(t, "first@a.com", sn.Succeeded[0].Email)
}

func TestSnapshotMergeIntraBatchDuplicate(t *testing.T) {
	sn := &Snapshot{}

	appended := sn.Merge([]model.Place{
		unenriched("Cafe B"),
		unenriched("CAFE B"),
	})

	assert.Equal(t, 1, appended)
	assert.Len(t, sn.Failed, 1)
}

func TestSnapshotMergeDropsEmptyIdentity(t *testing.T) {
	sn := &Snapshot{}

	appended := sn.Merge([]model.Place{
		{Name: "   ", Outcome: model.OutcomeUnenriched},
	})

	assert.Zero(t, appended)
	assert.Empty(t, sn.Failed)
}

func TestSnapshotPartitionsDisjoint(t *testing.T) {
	sn := &Snapshot{}
	sn.Merge([]model.Place{enriched("Cafe A", "a@a.com"), unenriched("Cafe B")})
	sn.Merge([]model.Place{unenriched("Cafe A"), enriched("Cafe B", "b@b.com"), enriched("Cafe C", "c@c.com")})

	succeeded := make(map[string]struct{})
	for _, p := range sn.Succeeded {
		succeeded[p.Key()] = struct{}{}
	}
	for _, p := range sn.Failed {
		_, ok := succeeded[p.Key()]
		assert.False(t, ok, "identity %q in both partitions", p.Key())
	}
}

func TestSnapshotIdentities(t *testing.T) {
	sn := &Snapshot{}
	sn.Merge([]model.Place{enriched("Cafe A", "a@a.com"), unenriched("Cafe B")})

	ids := sn.Identities()
	assert.Len(t, ids, 2)
	assert.Contains(t, ids, "cafe a")
	assert.Contains(t, ids, "cafe b")
	assert.True(t, sn.Contains("cafe a"))
	assert.False(t, sn.Contains("cafe z"))
}

func TestSnapshotSetContactedIdempotent(t *testing.T) {
	sn := &Snapshot{}
	sn.Merge([]model.Place{enriched("Cafe A", "a@a.com")})

	sn.SetContacted("cafe a")
	assert.True(t, sn.Succeeded[0].Contacted)

	// Second call and unknown key are both no-ops.
	sn.SetContacted("cafe a")
	sn.SetContacted("cafe z")
	assert.True(t, sn.Succeeded[0].Contacted)
}

func TestSnapshotPending(t *testing.T) {
	sn := &Snapshot{
		Succeeded: []model.Place{
			{Name: "Cafe A", Email: "a@a.com", Outcome: model.OutcomeEnriched},
			{Name: "Cafe B", Email: "b@b.com", Outcome: model.OutcomeEnriched, Contacted: true},
			{Name: "Cafe C", Outcome: model.OutcomeEnriched}, // no email
		},
	}

	pending := sn.Pending()
	assert.Len(t, pending, 1)
	assert.Equal(t, "Cafe A", pending[0].Name)
}
