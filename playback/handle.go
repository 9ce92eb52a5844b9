package playback

import (
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/showdeck/showdeck/mockup"
	"github.com/showdeck/showdeck/youtube"
)

type Status string

const (
	StatusPlaying Status = "playing"
	StatusPaused  Status = "paused"
	StatusStopped Status = "stopped"
	StatusEnded   Status = "ended"
	// StatusLive marks embed iframes which run from the moment they are
	// rendered and are never actively suspended by the coordinator.
	StatusLive Status = "live"
)

// Player is the control surface of one live playable unit. Every method may
// fail when the underlying player has been torn down; the coordinator treats
// all such failures as "nothing happened".
type Player interface {
	Play() error
	Pause() error
	Stop() error
	Seek(to time.Duration) error
	Position() (time.Duration, error)
}

// Clip bounds a YouTube reference. A zero End means the clip is unbounded
// and no end timer is ever armed.
type Clip struct {
	Start time.Duration
	End   time.Duration
}

// ClipFromRef lifts the optional clip bounds off a resolved YouTube
// reference. A reference with no bounds yields nil.
func ClipFromRef(ref youtube.Ref) *Clip {
	if ref.Start == nil && ref.End == nil {
		return nil
	}
	c := &Clip{}
	if ref.Start != nil {
		c.Start = time.Duration(*ref.Start) * time.Second
	}
	if ref.End != nil {
		c.End = time.Duration(*ref.End) * time.Second
	}
	return c
}

// Handle is one registered playable unit. Handles are created by the
// renderer (native video, embeds) or on placeholder activation (YouTube) and
// owned by the Coordinator from registration until release.
type Handle struct {
	ID     string
	CardID string
	Kind   mockup.Kind
	Src    string

	player Player
	clip   *Clip

	// mutated only under the coordinator lock
	status     Status
	endTimer   *time.Timer
	timerToken uint64
}

func NewHandle(cardID string, kind mockup.Kind, src string, player Player, clip *Clip) *Handle {
	return &Handle{
		ID:     GenerateHandleID(cardID, kind, src),
		CardID: cardID,
		Kind:   kind,
		Src:    src,
		player: player,
		clip:   clip,
		status: StatusStopped,
	}
}

func (h *Handle) Player() Player { return h.player }

// GenerateHandleID is deterministic so re-rendering the same slide resolves
// to the same registry entry rather than leaking duplicates.
func GenerateHandleID(cardID string, kind mockup.Kind, src string) string {
	sum := xxhash.Sum64String(fmt.Sprintf("%s-%s-%s", cardID, kind, src))
	return fmt.Sprintf("%s:%s:%d", cardID, kind, sum)
}

// HandleState is the wire form of one registry entry, pushed to clients on
// the playback stream and returned from the state endpoint.
type HandleState struct {
	ID          string `json:"id"`
	CardID      string `json:"card_id"`
	Kind        string `json:"kind"`
	Src         string `json:"src"`
	Status      Status `json:"status"`
	ClipStart   int    `json:"clip_start,omitempty"`
	ClipEnd     int    `json:"clip_end,omitempty"`
	RestartFrom int    `json:"restart_from"`
	ShowOverlay bool   `json:"show_overlay,omitempty"`
}
