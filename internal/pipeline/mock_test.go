package pipeline

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/Taiyaki-maker/Apply-Automation/pkg/places"
)

// mockPlaces implements places.Client for testing. Pages are served in
// call order; failAt fails the nth SearchPage call (1-based).
type mockPlaces struct {
	pages       []places.SearchResult
	failAt      int
	searchCalls int
	gotTokens   []string

	websites    map[string]string
	websiteErrs map[string]error
	hours       map[string][]string
	hoursErr    error
}

func (m *mockPlaces) SearchPage(_ context.Context, _ string, pageToken string) (*places.SearchResult, error) {
	m.searchCalls++
	m.gotTokens = append(m.gotTokens, pageToken)

	if m.failAt > 0 && m.searchCalls == m.failAt {
		return nil, eris.New("status 503")
	}
	if m.searchCalls > len(m.pages) {
		return &places.SearchResult{}, nil
	}
	page := m.pages[m.searchCalls-1]
	return &page, nil
}

func (m *mockPlaces) Website(_ context.Context, placeID string) (string, error) {
	if err, ok := m.websiteErrs[placeID]; ok {
		return "", err
	}
	if url, ok := m.websites[placeID]; ok {
		return url, nil
	}
	return places.NoWebsite, nil
}

func (m *mockPlaces) OpeningHours(_ context.Context, placeID string) ([]string, error) {
	if m.hoursErr != nil {
		return nil, m.hoursErr
	}
	return m.hours[placeID], nil
}
