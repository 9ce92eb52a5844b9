package cards

import (
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/showdeck/showdeck/carousel"
	"github.com/showdeck/showdeck/mockup"
	"github.com/showdeck/showdeck/render"
)

// Project is one record from the backend's projects endpoint.
type Project struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Tags           []string `json:"tags"`
	Date           string   `json:"date"`
	Category       string   `json:"category"`
	MockupContent  string   `json:"mockup_content"`
	MockupType     string   `json:"mockup_type"`
	GithubURL      string   `json:"github_url"`
	DemoURL        string   `json:"demo_url"`
	Confidential   bool     `json:"confidential"`
	LinkButtonText string   `json:"link_button_text"`
	DemoButtonText string   `json:"demo_button_text"`
}

type Button struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Card is the composed view of one project: copy, buttons and at most one
// media surface, either a token carousel or a single legacy unit.
type Card struct {
	ID           string
	Title        string
	Description  string
	Tags         []string
	Date         string
	Category     string
	Terminal     bool
	Confidential bool
	Buttons      []Button

	Carousel *carousel.Controller
	Legacy   *render.Unit

	Cover  string
	Accent []string
}

// ActiveUnit is the card's currently visible media unit, rendered lazily.
func (c *Card) ActiveUnit() render.Unit {
	if c.Carousel != nil {
		return c.Carousel.Active()
	}
	if c.Legacy != nil {
		return *c.Legacy
	}
	return render.Unit{}
}

// CoverFunc caches a card's external cover image and returns its local
// location plus extracted accent colours. Optional; failures return zeros.
type CoverFunc func(imageURL string) (location string, colours []string)

type Factory struct {
	renderer *render.Renderer
	coord    carousel.Coordinator
	covers   CoverFunc
}

func NewFactory(renderer *render.Renderer, coord carousel.Coordinator, covers CoverFunc) *Factory {
	return &Factory{renderer: renderer, coord: coord, covers: covers}
}

// Build composes a card from a project record. Numbered tokens win; when
// none parse the legacy single-format chain decides what, if anything, the
// mockup area shows. Media-format problems never fail a build.
func (f *Factory) Build(p Project) Card {
	card := Card{
		ID:           GenerateCardID(p),
		Title:        p.Title,
		Description:  p.Description,
		Tags:         p.Tags,
		Date:         p.Date,
		Category:     p.Category,
		Terminal:     p.MockupType == "terminal",
		Confidential: p.Confidential,
	}

	if !p.Confidential {
		if p.GithubURL != "" {
			card.Buttons = append(card.Buttons, Button{Label: defaultLabel(p.LinkButtonText, "GitHub"), URL: p.GithubURL})
		}
		if p.DemoURL != "" {
			card.Buttons = append(card.Buttons, Button{Label: defaultLabel(p.DemoButtonText, "Demo"), URL: p.DemoURL})
		}
	}

	if tokens := mockup.Parse(p.MockupContent); len(tokens) > 0 {
		card.Carousel = carousel.New(card.ID, tokens, f.renderer, f.coord)
		f.attachCover(&card, firstImageSrc(tokens))
		return card
	}

	if leg := mockup.DetectLegacy(p.MockupContent); leg.Kind != mockup.LegacyNone {
		unit := f.renderer.RenderLegacy(card.ID, p.Title, leg)
		card.Legacy = &unit
		f.attachCover(&card, legacyCoverSrc(leg))
	}
	return card
}

func (f *Factory) attachCover(card *Card, src string) {
	if f.covers == nil || src == "" {
		return
	}
	card.Cover, card.Accent = f.covers(src)
}

// GenerateCardID is deterministic across rebuilds so handle IDs and carousel
// references stay stable when the deck is refreshed with unchanged content.
func GenerateCardID(p Project) string {
	sum := xxhash.Sum64String(fmt.Sprintf("%s-%s-%s", p.Title, p.Category, p.Date))
	return fmt.Sprintf("card:%d", sum)
}

func defaultLabel(label, fallback string) string {
	if label == "" {
		return fallback
	}
	return label
}

func firstImageSrc(tokens []mockup.Token) string {
	for _, t := range tokens {
		if t.Kind == mockup.KindImage {
			return t.Src
		}
	}
	return ""
}

func legacyCoverSrc(leg mockup.Legacy) string {
	switch leg.Kind {
	case mockup.LegacySlideshow:
		return leg.Slides[0]
	case mockup.LegacyExternalImage:
		return leg.Src
	default:
		return ""
	}
}
