package pipeline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Taiyaki-maker/Apply-Automation/internal/model"
	"github.com/Taiyaki-maker/Apply-Automation/internal/store"
	"github.com/Taiyaki-maker/Apply-Automation/pkg/places"
)

func newTestRunner(t *testing.T, mock *mockPlaces) (*Runner, *store.Store) {
	t.Helper()
	st := store.New(filepath.Join(t.TempDir(), "places.xlsx"), nil)
	d := NewDiscoverer(mock, 0, nil)
	e := NewEnricher(mock, newTestFetcher(), nil)
	return NewRunner(d, e, st, nil), st
}

func TestRunEndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`reach us: hello@cafea.com`))
	}))
	defer srv.Close()

	// Page 1: Cafe A (email found) and Cafe B (no website).
	// Page 2 via token: Cafe A again, a provider duplicate. No further token.
	mock := &mockPlaces{
		pages: []places.SearchResult{
			{Places: []places.RawPlace{raw("Cafe A"), raw("Cafe B")}, NextPageToken: "tok-1"},
			{Places: []places.RawPlace{raw("Cafe A")}},
		},
		websites: map[string]string{"id-Cafe A": srv.URL},
	}
	runner, st := newTestRunner(t, mock)

	report, err := runner.Run(context.Background(), "cafe", 10)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Discovered)
	assert.Equal(t, 1, report.Enriched)
	assert.Equal(t, 1, report.Unenriched)
	assert.Equal(t, 2, report.Appended)
	assert.Zero(t, report.ProviderStops)

	snapshot, err := st.Load()
	require.NoError(t, err)
	require.Len(t, snapshot.Succeeded, 1)
	require.Len(t, snapshot.Failed, 1)
	assert.Equal(t, "Cafe A", snapshot.Succeeded[0].Name)
	assert.Equal(t, "hello@cafea.com", snapshot.Succeeded[0].Email)
	assert.False(t, snapshot.Succeeded[0].Contacted)
	assert.Equal(t, "Cafe B", snapshot.Failed[0].Name)
}

func TestRunSecondRunSkipsKnown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`hello@cafea.com`))
	}))
	defer srv.Close()

	mock := &mockPlaces{
		pages: []places.SearchResult{
			{Places: []places.RawPlace{raw("Cafe A")}},
		},
		websites: map[string]string{"id-Cafe A": srv.URL},
	}
	runner, st := newTestRunner(t, mock)

	_, err := runner.Run(context.Background(), "cafe", 10)
	require.NoError(t, err)

	// Same provider output next run; the store-known identity is skipped.
	mock.searchCalls = 0
	report, err := runner.Run(context.Background(), "cafe", 10)
	require.NoError(t, err)
	assert.Zero(t, report.Discovered)
	assert.Zero(t, report.Appended)

	snapshot, err := st.Load()
	require.NoError(t, err)
	assert.Len(t, snapshot.Succeeded, 1)
}

func TestRunProviderFailureKeepsPartialProgress(t *testing.T) {
	mock := &mockPlaces{
		pages: []places.SearchResult{
			{Places: []places.RawPlace{raw("Cafe B")}, NextPageToken: "tok-1"},
		},
		failAt: 2,
	}
	runner, st := newTestRunner(t, mock)

	report, err := runner.Run(context.Background(), "cafe", 10)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Discovered)
	assert.Equal(t, 1, report.ProviderStops)

	snapshot, err := st.Load()
	require.NoError(t, err)
	assert.Len(t, snapshot.Failed, 1)
}

func TestRunFetchFailureCounted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	mock := &mockPlaces{
		pages: []places.SearchResult{
			{Places: []places.RawPlace{raw("Cafe D")}},
		},
		websites: map[string]string{"id-Cafe D": srv.URL},
	}
	runner, _ := newTestRunner(t, mock)

	report, err := runner.Run(context.Background(), "cafe", 10)
	require.NoError(t, err)
	assert.Equal(t, 1, report.FetchFailures)
	assert.Equal(t, 1, report.Unenriched)
	assert.Zero(t, report.Enriched)
}

func TestRunMergeIsFirstWriteWins(t *testing.T) {
	mock := &mockPlaces{
		pages: []places.SearchResult{
			{Places: []places.RawPlace{raw("Cafe B")}},
		},
	}
	runner, st := newTestRunner(t, mock)

	_, err := runner.Run(context.Background(), "cafe", 10)
	require.NoError(t, err)

	before, err := st.Load()
	require.NoError(t, err)
	require.Len(t, before.Failed, 1)

	// A later merge with the same identity leaves the stored record alone.
	appended, err := st.MergeAppend([]model.Place{{
		Name:    "cafe b",
		Email:   "late@cafeb.com",
		Outcome: model.OutcomeEnriched,
	}})
	require.NoError(t, err)
	assert.Zero(t, appended)

	after, err := st.Load()
	require.NoError(t, err)
	assert.Len(t, after.Failed, 1)
	assert.Empty(t, after.Succeeded)
	assert.Empty(t, after.Failed[0].Email)
}
