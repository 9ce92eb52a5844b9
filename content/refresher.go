package content

import (
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/showdeck/showdeck/cards"
	"github.com/showdeck/showdeck/playback"
)

// After this many consecutive failures the admin gets a single alert; the
// counter resets on the next good refresh.
const failureAlertThreshold = 3

// Snapshot is the non-card remainder of one successful content fetch.
type Snapshot struct {
	Categories   []Category
	Config       SiteConfig
	ProjectCount int
	FetchedAt    time.Time
}

// Filter is one category filter button for the page.
type Filter struct {
	Label  string `json:"label"`
	Value  string `json:"value"`
	Active bool   `json:"active"`
}

// NotifyFunc delivers an operator alert (pushover in production).
type NotifyFunc func(title, message string)

// Refresher pulls a fresh content snapshot and swaps the deck wholesale.
// Refreshes never overlap for the same purpose, so a late response simply
// loses the swap; there is no request sequencing.
type Refresher struct {
	client  *Client
	factory *cards.Factory
	deck    *cards.Deck
	coord   *playback.Coordinator
	publish playback.PublishFunc
	sortBy  string
	notify  NotifyFunc

	mu       sync.RWMutex
	snap     Snapshot
	failures int
}

func NewRefresher(client *Client, factory *cards.Factory, deck *cards.Deck, coord *playback.Coordinator, publish playback.PublishFunc, sortBy string, notify NotifyFunc) *Refresher {
	return &Refresher{
		client:  client,
		factory: factory,
		deck:    deck,
		coord:   coord,
		publish: publish,
		sortBy:  sortBy,
		notify:  notify,
	}
}

// Refresh fetches projects, categories and config, rebuilds the deck and
// resets the playback registry; replacing the page's content is a page-level
// interruption so nothing may keep playing across it. A failed config fetch
// is tolerated with a zero config, matching how the page treats it.
func (r *Refresher) Refresh() error {
	projects, err := r.client.FetchProjects(r.sortBy)
	if err != nil {
		return r.fail(err)
	}
	categories, err := r.client.FetchCategories()
	if err != nil {
		return r.fail(err)
	}
	siteCfg, err := r.client.FetchConfig()
	if err != nil {
		slog.Warn("Config fetch failed, continuing with defaults", slog.Any("error", err))
		siteCfg = SiteConfig{}
	}

	built := make([]cards.Card, 0, len(projects))
	for _, p := range projects {
		built = append(built, r.factory.Build(p))
	}

	r.coord.Reset()
	r.deck.Replace(built)

	r.mu.Lock()
	r.snap = Snapshot{
		Categories:   categories,
		Config:       siteCfg,
		ProjectCount: len(projects),
		FetchedAt:    time.Now(),
	}
	r.failures = 0
	r.mu.Unlock()

	slog.Info("Content snapshot refreshed",
		slog.Int("projects", len(projects)),
		slog.Int("categories", len(categories)))

	if r.publish != nil {
		data, err := json.Marshal(map[string]any{
			"projects":   len(projects),
			"fetched_at": time.Now().Format(time.RFC3339),
		})
		if err == nil {
			r.publish("content", data)
		}
	}

	return nil
}

func (r *Refresher) fail(err error) error {
	r.mu.Lock()
	r.failures++
	n := r.failures
	r.mu.Unlock()

	slog.Error("Content refresh failed", slog.Int("consecutive", n), slog.Any("error", err))

	if n == failureAlertThreshold && r.notify != nil {
		r.notify("Showdeck content refresh failing", err.Error())
	}
	return err
}

func (r *Refresher) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snap
}

// Filters builds the category filter buttons: backend order, an optional
// leading "All" when the site config asks for it, and the default active
// filter being the first category that actually has projects, falling back
// to "all".
func (r *Refresher) Filters() []Filter {
	snap := r.Snapshot()

	active := ""
	for _, cat := range snap.Categories {
		if r.deck.HasCategory(cat.Name) {
			active = strings.ToLower(cat.Name)
			break
		}
	}
	if active == "" {
		active = "all"
	}

	var filters []Filter
	if snap.Config.ShowAllCategoryFilter {
		filters = append(filters, Filter{Label: "All", Value: "all", Active: active == "all"})
	}
	for _, cat := range snap.Categories {
		value := strings.ToLower(cat.Name)
		filters = append(filters, Filter{Label: cat.Name, Value: value, Active: value == active})
	}
	return filters
}
