package cards

import (
	"html/template"
	"strings"
	"sync"
)

// Deck is the set of built cards currently on the page, swapped wholesale on
// every content refresh. Cards are keyed by their deterministic ID.
type Deck struct {
	mu    sync.RWMutex
	cards []*Card
	byID  map[string]*Card
}

func NewDeck() *Deck {
	return &Deck{byID: map[string]*Card{}}
}

func (d *Deck) Replace(cards []Card) {
	byID := make(map[string]*Card, len(cards))
	ordered := make([]*Card, 0, len(cards))
	for i := range cards {
		c := &cards[i]
		byID[c.ID] = c
		ordered = append(ordered, c)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.cards = ordered
	d.byID = byID
}

func (d *Deck) Get(id string) (*Card, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	c, ok := d.byID[id]
	return c, ok
}

// List returns the cards matching a category filter. An empty filter or
// "all" matches everything; matching is case-insensitive like the page's
// filter buttons.
func (d *Deck) List(filter string) []*Card {
	d.mu.RLock()
	defer d.mu.RUnlock()

	filter = strings.ToLower(strings.TrimSpace(filter))
	if filter == "" || filter == "all" {
		return append([]*Card(nil), d.cards...)
	}
	var out []*Card
	for _, c := range d.cards {
		if strings.ToLower(c.Category) == filter {
			out = append(out, c)
		}
	}
	return out
}

// HasCategory reports whether any card belongs to the given category.
func (d *Deck) HasCategory(category string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, c := range d.cards {
		if strings.EqualFold(c.Category, category) {
			return true
		}
	}
	return false
}

// View is the wire form of one card for the page client.
type View struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Tags         []string      `json:"tags"`
	Date         string        `json:"date"`
	Category     string        `json:"category"`
	Terminal     bool          `json:"terminal"`
	Confidential bool          `json:"confidential"`
	Buttons      []Button      `json:"buttons"`
	Cover        string        `json:"cover,omitempty"`
	Accent       []string      `json:"accent,omitempty"`
	MockupHTML   template.HTML `json:"mockup_html,omitempty"`
	Carousel     *CarouselView `json:"carousel,omitempty"`
}

type CarouselView struct {
	Index   int    `json:"index"`
	Length  int    `json:"length"`
	Counter string `json:"counter"`
	Chrome  bool   `json:"chrome"`
}

// NewView renders the card's active media unit into its wire form. The
// caller is responsible for registering any live handle the unit carries.
func NewView(c *Card) View {
	v := View{
		ID:           c.ID,
		Title:        c.Title,
		Description:  c.Description,
		Tags:         c.Tags,
		Date:         c.Date,
		Category:     c.Category,
		Terminal:     c.Terminal,
		Confidential: c.Confidential,
		Buttons:      c.Buttons,
		Cover:        c.Cover,
		Accent:       c.Accent,
	}
	v.MockupHTML = c.ActiveUnit().HTML
	if c.Carousel != nil {
		v.Carousel = &CarouselView{
			Index:   c.Carousel.Index(),
			Length:  c.Carousel.Len(),
			Counter: c.Carousel.Counter(),
			Chrome:  c.Carousel.HasChrome(),
		}
	}
	return v
}
