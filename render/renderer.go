package render

import (
	"bytes"
	"html/template"
	"log/slog"
	"strings"
	"time"

	"github.com/showdeck/showdeck/mockup"
	"github.com/showdeck/showdeck/playback"
	"github.com/showdeck/showdeck/youtube"
)

// PlayerFactory builds the playback.Player behind a live handle. The router
// wires this up to remote (browser-side) players; tests substitute fakes.
type PlayerFactory func(cardID string, kind mockup.Kind, src string, clip *playback.Clip) playback.Player

// Placeholder describes a lazily-instantiated YouTube player. The markup
// carries the same values as data attributes so the client can activate it.
type Placeholder struct {
	VideoID string
	Start   *int
	End     *int
}

// Unit is the rendered form of one media item: safe markup plus, for kinds
// that are live from creation, the playback handle to register. YouTube
// items carry a Placeholder instead; their handle exists only once the
// visitor activates the slide.
type Unit struct {
	Kind        mockup.Kind
	HTML        template.HTML
	Handle      *playback.Handle
	Placeholder *Placeholder
}

type Renderer struct {
	players PlayerFactory
}

func New(players PlayerFactory) *Renderer {
	if players == nil {
		players = func(string, mockup.Kind, string, *playback.Clip) playback.Player {
			return noopPlayer{}
		}
	}
	return &Renderer{players: players}
}

var (
	imageTmpl = template.Must(template.New("image").Parse(
		`<img src="{{.Src}}" alt="{{.Alt}}" class="mockup-media">`))

	textTmpl = template.Must(template.New("text").Parse(
		`<p class="mockup-text">{{.Text}}</p>`))

	youtubeTmpl = template.Must(template.New("youtube").Parse(
		`<div class="yt-placeholder" data-card-id="{{.CardID}}" data-video-id="{{.VideoID}}"` +
			`{{if .Start}} data-clip-start="{{.Start}}"{{end}}` +
			`{{if .End}} data-clip-end="{{.End}}"{{end}}>` +
			`<img src="{{.Thumbnail}}" alt="{{.Alt}}" class="mockup-media">` +
			`<button class="yt-play-btn" aria-label="Play video">&#9658;</button>` +
			`</div>`))

	videoTmpl = template.Must(template.New("video").Parse(
		`<video src="{{.Src}}" class="mockup-media" controls playsinline data-handle-id="{{.HandleID}}"></video>`))

	embedTmpl = template.Must(template.New("embed").Parse(
		`<div class="embed-frame" data-handle-id="{{.HandleID}}">` +
			`<iframe src="{{.Src}}" frameborder="0" allowfullscreen class="mockup-media"></iframe>` +
			`<button class="fullscreen-btn" data-handle-id="{{.HandleID}}" aria-label="Fullscreen">&#x26F6;</button>` +
			`</div>`))

	slideshowTmpl = template.Must(template.New("slideshow").Parse(
		`<div class="slide-preview">` +
			`<img src="{{.First}}" alt="{{.Alt}}" class="mockup-media" data-external-slides="{{.Slides}}">` +
			`<div class="slide-hint">Click to view slideshow ({{.Count}} images)</div>` +
			`</div>`))

	slideFolderTmpl = template.Must(template.New("slidefolder").Parse(
		`<div class="slide-preview">` +
			`<img src="/static/slides/{{.Name}}/0.jpg" alt="{{.Alt}}" class="mockup-media" data-slides="{{.Name}}">` +
			`<div class="slide-hint">Click to view slideshow</div>` +
			`</div>`))
)

// Render maps one parsed token to its rendered unit. Unrecognised kinds and
// unresolvable YouTube references degrade (empty fragment and literal text
// respectively); Render never fails.
func (r *Renderer) Render(cardID string, item mockup.Token) Unit {
	switch item.Kind {
	case mockup.KindImage:
		return Unit{
			Kind: item.Kind,
			HTML: execute(imageTmpl, map[string]string{"Src": item.Src, "Alt": "project media"}),
		}
	case mockup.KindYouTube:
		ref := youtube.Resolve(item.Src)
		if ref.VideoID == "" {
			return r.textUnit(item.Kind, item.Src)
		}
		return Unit{
			Kind: item.Kind,
			HTML: execute(youtubeTmpl, map[string]any{
				"CardID":    cardID,
				"VideoID":   ref.VideoID,
				"Start":     intOrZero(ref.Start),
				"End":       intOrZero(ref.End),
				"Thumbnail": youtube.ThumbnailURL(ref.VideoID),
				"Alt":       "video preview",
			}),
			Placeholder: &Placeholder{VideoID: ref.VideoID, Start: ref.Start, End: ref.End},
		}
	case mockup.KindVideo, mockup.KindDriveVideo:
		src := item.Src
		if item.Kind == mockup.KindDriveVideo {
			src = driveStreamURL(driveFileID(item.Src))
		}
		return r.videoUnit(cardID, item.Kind, src)
	case mockup.KindEmbed, mockup.KindDriveEmbed:
		src := item.Src
		if item.Kind == mockup.KindDriveEmbed {
			src = drivePreviewURL(driveFileID(item.Src))
		}
		return r.embedUnit(cardID, item.Kind, src)
	default:
		return Unit{Kind: mockup.KindUnknown}
	}
}

// RenderLegacy maps a detected legacy format to a single non-carousel unit.
func (r *Renderer) RenderLegacy(cardID, title string, leg mockup.Legacy) Unit {
	alt := title + " mockup"
	switch leg.Kind {
	case mockup.LegacySlideshow:
		return Unit{
			Kind: mockup.KindImage,
			HTML: execute(slideshowTmpl, map[string]any{
				"First":  leg.Slides[0],
				"Slides": joinSlides(leg.Slides),
				"Count":  len(leg.Slides),
				"Alt":    title + " slides",
			}),
		}
	case mockup.LegacyExternalImage:
		return Unit{
			Kind: mockup.KindImage,
			HTML: execute(imageTmpl, map[string]string{"Src": leg.Src, "Alt": alt}),
		}
	case mockup.LegacySlideFolder:
		return Unit{
			Kind: mockup.KindImage,
			HTML: execute(slideFolderTmpl, map[string]string{"Name": leg.Src, "Alt": title + " slides"}),
		}
	case mockup.LegacyLocalImage:
		return Unit{
			Kind: mockup.KindImage,
			HTML: execute(imageTmpl, map[string]string{"Src": "/static/" + leg.Src, "Alt": alt}),
		}
	case mockup.LegacyLocalVideo:
		return r.videoUnit(cardID, mockup.KindVideo, "/static/"+leg.Src)
	case mockup.LegacyYouTube:
		ref := youtube.Resolve(leg.Src)
		if ref.VideoID == "" {
			return r.textUnit(mockup.KindUnknown, leg.Src)
		}
		// legacy pages embedded the player directly with no placeholder,
		// so it behaves like a generic iframe rather than a managed player
		return r.embedUnit(cardID, mockup.KindEmbed, youtube.EmbedURL(ref))
	case mockup.LegacyText:
		return r.textUnit(mockup.KindUnknown, leg.Src)
	default:
		return Unit{Kind: mockup.KindUnknown}
	}
}

func (r *Renderer) videoUnit(cardID string, kind mockup.Kind, src string) Unit {
	h := playback.NewHandle(cardID, kind, src, r.players(cardID, kind, src, nil), nil)
	return Unit{
		Kind:   kind,
		HTML:   execute(videoTmpl, map[string]string{"Src": src, "HandleID": h.ID}),
		Handle: h,
	}
}

func (r *Renderer) embedUnit(cardID string, kind mockup.Kind, src string) Unit {
	h := playback.NewHandle(cardID, kind, src, r.players(cardID, kind, src, nil), nil)
	return Unit{
		Kind:   kind,
		HTML:   execute(embedTmpl, map[string]string{"Src": src, "HandleID": h.ID}),
		Handle: h,
	}
}

func (r *Renderer) textUnit(kind mockup.Kind, text string) Unit {
	return Unit{Kind: kind, HTML: execute(textTmpl, map[string]string{"Text": text})}
}

func execute(t *template.Template, data any) template.HTML {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		slog.Error("Failed to execute media template",
			slog.String("template", t.Name()), slog.Any("error", err))
		return ""
	}
	return template.HTML(buf.String())
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func joinSlides(slides []string) string {
	return strings.Join(slides, "|")
}

// noopPlayer backs handles rendered without a wired player factory.
type noopPlayer struct{}

func (noopPlayer) Play() error                     { return nil }
func (noopPlayer) Pause() error                    { return nil }
func (noopPlayer) Stop() error                     { return nil }
func (noopPlayer) Seek(time.Duration) error        { return nil }
func (noopPlayer) Position() (time.Duration, error) { return 0, playback.ErrPositionUnknown }
