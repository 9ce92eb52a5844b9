package carousel

import (
	"fmt"
	"sync"

	"github.com/showdeck/showdeck/mockup"
	"github.com/showdeck/showdeck/render"
)

// Coordinator is the slice of the playback coordinator a carousel needs:
// slide changes tear down the owning card's players before the swap.
type Coordinator interface {
	ReleaseCard(cardID string)
}

// Controller owns the navigation state of one card's media carousel. Items
// are parsed once at card build time and never change; only the index moves.
// Only the active slide is ever rendered.
type Controller struct {
	cardID   string
	items    []mockup.Token
	renderer *render.Renderer
	coord    Coordinator

	mu    sync.Mutex
	index int
}

func New(cardID string, items []mockup.Token, renderer *render.Renderer, coord Coordinator) *Controller {
	return &Controller{
		cardID:   cardID,
		items:    items,
		renderer: renderer,
		coord:    coord,
	}
}

func (c *Controller) CardID() string { return c.cardID }

func (c *Controller) Len() int { return len(c.items) }

func (c *Controller) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// HasChrome reports whether navigation controls should render at all.
// Single-item (and empty) carousels get no chrome and never touch the
// playback registry on navigation.
func (c *Controller) HasChrome() bool { return len(c.items) > 1 }

// SetIndex moves to the given slide, wrapping modulo the item count. The
// owning card's live players are released first so the outgoing slide can
// never keep playing underneath the new one.
func (c *Controller) SetIndex(i int) {
	if len(c.items) <= 1 {
		return
	}
	n := len(c.items)
	i = ((i % n) + n) % n

	c.coord.ReleaseCard(c.cardID)

	c.mu.Lock()
	c.index = i
	c.mu.Unlock()
}

func (c *Controller) Next() {
	c.SetIndex(c.Index() + 1)
}

func (c *Controller) Prev() {
	c.SetIndex(c.Index() - 1)
}

// Counter is the human-readable position indicator, e.g. "2 / 5".
func (c *Controller) Counter() string {
	return fmt.Sprintf("%d / %d", c.Index()+1, len(c.items))
}

// Active renders the current slide. Rendering is lazy: inactive slides have
// no markup and no handles until navigated to.
func (c *Controller) Active() render.Unit {
	c.mu.Lock()
	i := c.index
	c.mu.Unlock()
	if len(c.items) == 0 {
		return render.Unit{}
	}
	return c.renderer.Render(c.cardID, c.items[i])
}
