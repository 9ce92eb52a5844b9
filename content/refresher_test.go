package content

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/showdeck/showdeck/cards"
	"github.com/showdeck/showdeck/mockup"
	"github.com/showdeck/showdeck/playback"
	"github.com/showdeck/showdeck/render"
)

type backendFixture struct {
	projects   string
	categories string
	config     string
	failing    atomic.Bool
}

func (b *backendFixture) handler(w http.ResponseWriter, r *http.Request) {
	if b.failing.Load() {
		w.WriteHeader(http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/api/projects":
		fmt.Fprint(w, b.projects)
	case "/api/categories":
		fmt.Fprint(w, b.categories)
	case "/api/config":
		fmt.Fprint(w, b.config)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newTestRefresher(t *testing.T, backend *backendFixture, notify NotifyFunc) (*Refresher, *cards.Deck, *playback.Coordinator) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(backend.handler))
	t.Cleanup(srv.Close)

	coord := playback.NewCoordinator(nil, nil)
	deck := cards.NewDeck()
	factory := cards.NewFactory(render.New(nil), coord, nil)
	r := NewRefresher(NewClient(srv.URL), factory, deck, coord, nil, "date", notify)
	return r, deck, coord
}

func stockBackend() *backendFixture {
	return &backendFixture{
		projects: `[
			{"title": "Site", "category": "Web", "date": "2024-01-01", "mockup_content": "img1:https://example.com/a.png"},
			{"title": "Tool", "category": "CLI", "date": "2024-02-01"}
		]`,
		categories: `[{"name": "Mobile"}, {"name": "Web"}, {"name": "CLI"}]`,
		config:     `{"show_all_category_filter": true}`,
	}
}

func TestRefresh_BuildsTheDeck(t *testing.T) {
	t.Parallel()
	r, deck, _ := newTestRefresher(t, stockBackend(), nil)

	require.NoError(t, r.Refresh())

	assert.Len(t, deck.List(""), 2)

	snap := r.Snapshot()
	assert.Equal(t, 2, snap.ProjectCount)
	assert.Len(t, snap.Categories, 3)
	assert.True(t, snap.Config.ShowAllCategoryFilter)
	assert.False(t, snap.FetchedAt.IsZero())
}

func TestRefresh_ResetsPlaybackOnSwap(t *testing.T) {
	t.Parallel()
	r, _, coord := newTestRefresher(t, stockBackend(), nil)
	require.NoError(t, r.Refresh())

	// a live registry entry must not survive a content swap
	coord.Register(playback.NewHandle("card:1", mockup.KindEmbed, "https://example.com/embed", stubPlayer{}, nil))
	require.NotEmpty(t, coord.State())

	require.NoError(t, r.Refresh())
	assert.Empty(t, coord.State())
}

func TestRefresh_FailureKeepsTheOldDeck(t *testing.T) {
	t.Parallel()
	backend := stockBackend()
	r, deck, _ := newTestRefresher(t, backend, nil)
	require.NoError(t, r.Refresh())

	backend.failing.Store(true)
	assert.Error(t, r.Refresh())

	// the stale deck keeps serving
	assert.Len(t, deck.List(""), 2)
	assert.Equal(t, 2, r.Snapshot().ProjectCount)
}

func TestRefresh_AlertsAfterConsecutiveFailures(t *testing.T) {
	t.Parallel()
	backend := stockBackend()
	backend.failing.Store(true)

	var alerts []string
	r, _, _ := newTestRefresher(t, backend, func(title, message string) {
		alerts = append(alerts, title)
	})

	for i := 0; i < failureAlertThreshold+2; i++ {
		assert.Error(t, r.Refresh())
	}

	// exactly one alert, at the threshold, not on every failure after it
	assert.Len(t, alerts, 1)
}

func TestRefresh_SuccessResetsTheFailureCounter(t *testing.T) {
	t.Parallel()
	backend := stockBackend()
	var alerts int
	r, _, _ := newTestRefresher(t, backend, func(title, message string) {
		alerts++
	})

	backend.failing.Store(true)
	for i := 0; i < failureAlertThreshold-1; i++ {
		assert.Error(t, r.Refresh())
	}

	backend.failing.Store(false)
	require.NoError(t, r.Refresh())

	backend.failing.Store(true)
	for i := 0; i < failureAlertThreshold-1; i++ {
		assert.Error(t, r.Refresh())
	}

	assert.Zero(t, alerts)
}

func TestFilters_AllButtonFollowsSiteConfig(t *testing.T) {
	t.Parallel()
	backend := stockBackend()
	r, _, _ := newTestRefresher(t, backend, nil)
	require.NoError(t, r.Refresh())

	filters := r.Filters()
	require.Len(t, filters, 4)
	assert.Equal(t, Filter{Label: "All", Value: "all"}, filters[0])
	assert.Equal(t, Filter{Label: "Mobile", Value: "mobile"}, filters[1])
	// first category that actually has projects is the default active one
	assert.Equal(t, Filter{Label: "Web", Value: "web", Active: true}, filters[2])
	assert.Equal(t, Filter{Label: "CLI", Value: "cli"}, filters[3])
}

func TestFilters_WithoutAllButton(t *testing.T) {
	t.Parallel()
	backend := stockBackend()
	backend.config = `{"show_all_category_filter": false}`
	r, _, _ := newTestRefresher(t, backend, nil)
	require.NoError(t, r.Refresh())

	filters := r.Filters()
	require.Len(t, filters, 3)
	assert.Equal(t, "Mobile", filters[0].Label)
}

func TestFilters_FallBackToAllWhenNoCategoryHasProjects(t *testing.T) {
	t.Parallel()
	backend := stockBackend()
	backend.projects = `[]`
	r, _, _ := newTestRefresher(t, backend, nil)
	require.NoError(t, r.Refresh())

	filters := r.Filters()
	require.Len(t, filters, 4)
	assert.True(t, filters[0].Active)
}

type stubPlayer struct{}

func (stubPlayer) Play() error                      { return nil }
func (stubPlayer) Pause() error                     { return nil }
func (stubPlayer) Stop() error                      { return nil }
func (stubPlayer) Seek(time.Duration) error         { return nil }
func (stubPlayer) Position() (time.Duration, error) { return 0, playback.ErrPositionUnknown }
