package main

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	hmacext "github.com/alexellis/hmac/v2"
	"github.com/rs/cors"

	"github.com/showdeck/showdeck/cards"
	"github.com/showdeck/showdeck/config"
	"github.com/showdeck/showdeck/content"
	"github.com/showdeck/showdeck/events"
	"github.com/showdeck/showdeck/mockup"
	"github.com/showdeck/showdeck/playback"
	"github.com/showdeck/showdeck/render"
	"github.com/showdeck/showdeck/youtube"
)

type playbackRequest struct {
	HandleID string  `json:"handle_id,omitempty"`
	CardID   string  `json:"card_id,omitempty"`
	VideoID  string  `json:"video_id,omitempty"`
	Start    *int    `json:"start,omitempty"`
	End      *int    `json:"end,omitempty"`
	Seconds  float64 `json:"seconds,omitempty"`
}

type navRequest struct {
	CardID string `json:"card_id"`
	Action string `json:"action"`
	Index  int    `json:"index"`
}

// slideFragment is the wire form of a card's active media unit, returned by
// the render and nav endpoints so the client can swap the mockup area.
type slideFragment struct {
	CardID   string        `json:"card_id"`
	Kind     string        `json:"kind"`
	HTML     template.HTML `json:"html"`
	HandleID string        `json:"handle_id,omitempty"`
	Index    int           `json:"index"`
	Counter  string        `json:"counter,omitempty"`
	Chrome   bool          `json:"chrome"`
}

func renderJSONMessage(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	res := map[string]string{"message": message}
	json.NewEncoder(w).Encode(res)
}

func renderJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func decodeBody(w http.ResponseWriter, r *http.Request, out any) bool {
	if r.Method != http.MethodPost {
		renderJSONError(w, http.StatusMethodNotAllowed, "that method is invalid for this endpoint")
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		renderJSONError(w, http.StatusBadRequest, "failed to decode request body")
		return false
	}
	return true
}

func RegisterRoutes(mux *http.ServeMux, cfg config.Config, deck *cards.Deck, coord *playback.Coordinator, store *playback.Store, refresher *content.Refresher, covers *content.Covers, players render.PlayerFactory) http.Handler {

	events.Server.CreateStream("playback")
	events.Server.CreateStream("content")

	// the browser matches stream commands to registry entries by handle ID,
	// so players must be keyed from the same inputs as their handles
	if players == nil {
		players = func(cardID string, kind mockup.Kind, src string, clip *playback.Clip) playback.Player {
			return playback.NewRemotePlayer(playback.GenerateHandleID(cardID, kind, src), events.Publish)
		}
	}

	// renderActive renders the card's visible unit, registers any live handle
	// it carries and packages the result for the client.
	renderActive := func(c *cards.Card) slideFragment {
		unit := c.ActiveUnit()
		frag := slideFragment{
			CardID: c.ID,
			Kind:   unit.Kind.String(),
			HTML:   unit.HTML,
		}
		if unit.Handle != nil {
			coord.Register(unit.Handle)
			frag.HandleID = unit.Handle.ID
		}
		if c.Carousel != nil {
			frag.Index = c.Carousel.Index()
			frag.Counter = c.Carousel.Counter()
			frag.Chrome = c.Carousel.HasChrome()
		}
		return frag
	}

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintf(w, "Welcome to Showdeck, the media layer behind the project cards.\nYou can find the source code on <a href=\"https://github.com/showdeck/showdeck\">Github</a>\n")
	})

	mux.HandleFunc("/static/", func(w http.ResponseWriter, r *http.Request) {
		name := strings.ReplaceAll(r.URL.Path, "/static/", "")
		// cover.<guid>.jpeg
		segments := strings.Split(name, ".")
		if len(segments) != 3 || segments[0] != "cover" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		guid := segments[1]
		extension := segments[2]
		image, err := covers.Load(guid, extension)
		if err != nil {
			w.WriteHeader(http.StatusGone)
			return
		}
		w.Header().Set("Cache-Control", "public, max-age=31622400")
		w.Header().Set("Content-Type", fmt.Sprintf("image/%s", extension))
		w.Write([]byte(image))
	})

	mux.HandleFunc("/api", func(w http.ResponseWriter, r *http.Request) {
		renderJSONMessage(w, "This is the base of Showdeck's card and playback APIs")
	})

	mux.HandleFunc("/api/cards", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		list := deck.List(r.URL.Query().Get("filter"))
		views := make([]cards.View, 0, len(list))
		for _, c := range list {
			views = append(views, cards.NewView(c))
		}
		json.NewEncoder(w).Encode(views)
	})

	mux.HandleFunc("/api/cards/render", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		c, ok := deck.Get(r.URL.Query().Get("id"))
		if !ok {
			renderJSONError(w, http.StatusNotFound, "no card with that id")
			return
		}
		json.NewEncoder(w).Encode(renderActive(c))
	})

	mux.HandleFunc("/api/cards/nav", func(w http.ResponseWriter, r *http.Request) {
		var req navRequest
		if !decodeBody(w, r, &req) {
			return
		}
		c, ok := deck.Get(req.CardID)
		if !ok {
			renderJSONError(w, http.StatusNotFound, "no card with that id")
			return
		}
		if c.Carousel == nil {
			renderJSONError(w, http.StatusBadRequest, "card has no carousel")
			return
		}
		switch req.Action {
		case "next":
			c.Carousel.Next()
		case "prev":
			c.Carousel.Prev()
		case "set":
			c.Carousel.SetIndex(req.Index)
		default:
			renderJSONError(w, http.StatusBadRequest, "unknown nav action")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(renderActive(c))
	})

	mux.HandleFunc("/api/filters", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(refresher.Filters())
	})

	mux.HandleFunc("/api/playback/activate", func(w http.ResponseWriter, r *http.Request) {
		var req playbackRequest
		if !decodeBody(w, r, &req) {
			return
		}
		// A video id means a placeholder activation: the handle doesn't exist
		// until the visitor clicks, so it is built and started here. A bare
		// handle id is the play event of an already-registered native video.
		if req.VideoID != "" {
			if _, ok := deck.Get(req.CardID); !ok {
				renderJSONError(w, http.StatusNotFound, "no card with that id")
				return
			}
			ref := youtube.Ref{VideoID: req.VideoID, Start: req.Start, End: req.End}
			src := youtube.EmbedURL(ref)
			clip := playback.ClipFromRef(ref)
			h := playback.NewHandle(req.CardID, mockup.KindYouTube, src,
				players(req.CardID, mockup.KindYouTube, src, clip), clip)
			coord.RegisterAndPlay(h)
		} else if req.HandleID != "" {
			coord.Play(req.HandleID)
		} else {
			renderJSONError(w, http.StatusBadRequest, "either handle_id or video_id is required")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(coord.State())
	})

	mux.HandleFunc("/api/playback/pause", func(w http.ResponseWriter, r *http.Request) {
		var req playbackRequest
		if !decodeBody(w, r, &req) {
			return
		}
		coord.Pause(req.HandleID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(coord.State())
	})

	mux.HandleFunc("/api/playback/resume", func(w http.ResponseWriter, r *http.Request) {
		var req playbackRequest
		if !decodeBody(w, r, &req) {
			return
		}
		coord.Resume(req.HandleID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(coord.State())
	})

	mux.HandleFunc("/api/playback/restart", func(w http.ResponseWriter, r *http.Request) {
		var req playbackRequest
		if !decodeBody(w, r, &req) {
			return
		}
		coord.Restart(req.HandleID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(coord.State())
	})

	mux.HandleFunc("/api/playback/interrupt", func(w http.ResponseWriter, r *http.Request) {
		var req playbackRequest
		if !decodeBody(w, r, &req) {
			return
		}
		coord.StopAll(req.HandleID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(coord.State())
	})

	mux.HandleFunc("/api/playback/progress", func(w http.ResponseWriter, r *http.Request) {
		var req playbackRequest
		if !decodeBody(w, r, &req) {
			return
		}
		coord.ReportPosition(req.HandleID, time.Duration(req.Seconds*float64(time.Second)))
		renderJSONMessage(w, "ok")
	})

	mux.HandleFunc("/api/playback/history", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		results, err := store.History(7)
		if err != nil {
			renderJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if len(results) == 0 {
			json.NewEncoder(w).Encode([]string{})
			return
		}
		json.NewEncoder(w).Encode(results)
	})

	mux.HandleFunc("/api/refresh", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		secret := cfg.Showdeck.RefreshWebhookSecret
		if secret == "" {
			renderJSONError(w, http.StatusServiceUnavailable, "this endpoint is not properly configured")
			return
		}

		signature := r.Header.Get("X-Showdeck-Signature")
		if signature == "" {
			renderJSONError(w, http.StatusUnauthorized, "no signature was provided")
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			renderJSONError(w, http.StatusBadRequest, "failed to read request body as part of signature validation")
			return
		}

		if err := hmacext.Validate(body, fmt.Sprintf("sha256=%s", signature), secret); err != nil {
			slog.With(slog.Any("error", err)).Error("Failed signature validation")
			renderJSONError(w, http.StatusUnauthorized, "signature failed validation")
			return
		}

		if err := refresher.Refresh(); err != nil {
			renderJSONError(w, http.StatusBadGateway, "content refresh failed")
			return
		}
		renderJSONMessage(w, "content refreshed")
	})

	mux.HandleFunc("/events", events.Server.ServeHTTP)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"https://showdeck.dev", "http://localhost:1313", "http://localhost:8080"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Origin, Content-Type, Accept"},
	})

	return c.Handler(mux)
}
