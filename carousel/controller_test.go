package carousel

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/showdeck/showdeck/mockup"
	"github.com/showdeck/showdeck/render"
)

type releaseRecorder struct {
	released []string
}

func (r *releaseRecorder) ReleaseCard(cardID string) {
	r.released = append(r.released, cardID)
}

func threeSlides() []mockup.Token {
	return []mockup.Token{
		{Kind: mockup.KindImage, Order: 1, Src: "https://example.com/a.png"},
		{Kind: mockup.KindVideo, Order: 2, Src: "video/demo.mp4"},
		{Kind: mockup.KindImage, Order: 3, Src: "https://example.com/b.png"},
	}
}

func TestController_NextAndPrevWrap(t *testing.T) {
	t.Parallel()
	rec := &releaseRecorder{}
	c := New("card:1", threeSlides(), render.New(nil), rec)

	assert.Equal(t, 0, c.Index())

	c.Prev()
	assert.Equal(t, 2, c.Index())

	c.Next()
	assert.Equal(t, 0, c.Index())

	c.Next()
	c.Next()
	c.Next()
	assert.Equal(t, 0, c.Index())
}

func TestController_SetIndexWrapsArbitraryValues(t *testing.T) {
	t.Parallel()
	c := New("card:1", threeSlides(), render.New(nil), &releaseRecorder{})

	c.SetIndex(7)
	assert.Equal(t, 1, c.Index())

	c.SetIndex(-4)
	assert.Equal(t, 2, c.Index())
}

func TestController_NavigationReleasesTheCardFirst(t *testing.T) {
	t.Parallel()
	rec := &releaseRecorder{}
	c := New("card:1", threeSlides(), render.New(nil), rec)

	c.Next()
	c.Prev()

	assert.Equal(t, []string{"card:1", "card:1"}, rec.released)
}

func TestController_SingleItemNavigationIsANoOp(t *testing.T) {
	t.Parallel()
	rec := &releaseRecorder{}
	c := New("card:1", threeSlides()[:1], render.New(nil), rec)

	c.Next()
	c.Prev()
	c.SetIndex(5)

	assert.Equal(t, 0, c.Index())
	// no chrome, no registry churn
	assert.Empty(t, rec.released)
	assert.False(t, c.HasChrome())
}

func TestController_Counter(t *testing.T) {
	t.Parallel()
	c := New("card:1", threeSlides(), render.New(nil), &releaseRecorder{})

	assert.Equal(t, "1 / 3", c.Counter())
	c.Next()
	assert.Equal(t, "2 / 3", c.Counter())
}

func TestController_ActiveRendersTheCurrentSlideOnly(t *testing.T) {
	t.Parallel()
	c := New("card:1", threeSlides(), render.New(nil), &releaseRecorder{})

	unit := c.Active()
	assert.Equal(t, mockup.KindImage, unit.Kind)
	assert.Contains(t, string(unit.HTML), "https://example.com/a.png")

	c.Next()
	unit = c.Active()
	assert.Equal(t, mockup.KindVideo, unit.Kind)
}

func TestController_EmptyCarousel(t *testing.T) {
	t.Parallel()
	c := New("card:1", nil, render.New(nil), &releaseRecorder{})

	assert.Equal(t, 0, c.Len())
	assert.False(t, c.HasChrome())
	assert.Empty(t, string(c.Active().HTML))
}
