package playback

import (
	"encoding/json"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/showdeck/showdeck/mockup"
)

// PublishFunc pushes an event payload onto a named client stream.
type PublishFunc func(stream string, data []byte)

// Coordinator is the process-wide registry of live playable units and the
// single owner of the exclusivity rule: starting any playback stops every
// other suspendable entry first. All page-level interruptions (slide change,
// filter change, navigation) funnel through here rather than being
// re-implemented per call site.
type Coordinator struct {
	mu      sync.Mutex
	handles map[string]*Handle
	store   *Store
	publish PublishFunc

	// timerSeq issues a unique token per armed clip timer. Tokens live on
	// the coordinator, not the handle: handle IDs are deterministic and a
	// deregistered slide can be recreated under the same ID, so a per-handle
	// counter would let the old handle's timer fire into the new one.
	timerSeq uint64

	// swapped out by tests to fire clip timers deterministically
	afterFunc func(d time.Duration, f func()) *time.Timer
}

// NewCoordinator builds a coordinator. Both store and publish may be nil, in
// which case session recording and client broadcasts are skipped.
func NewCoordinator(store *Store, publish PublishFunc) *Coordinator {
	return &Coordinator{
		handles:   map[string]*Handle{},
		store:     store,
		publish:   publish,
		afterFunc: time.AfterFunc,
	}
}

// Register adds a handle without starting playback. Embed and Drive preview
// iframes are live from the moment they are rendered, so they register as
// StatusLive; native video registers stopped until its play event arrives.
// Registering an already-known handle is a no-op.
func (c *Coordinator) Register(h *Handle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.handles[h.ID]; ok {
		return
	}
	if h.Kind == mockup.KindEmbed || h.Kind == mockup.KindDriveEmbed {
		h.status = StatusLive
		c.recordStartLocked(h)
	}
	c.handles[h.ID] = h
	c.broadcastLocked()
}

// RegisterAndPlay stops everything else, registers the handle and starts it.
// This is the only path by which a handle reaches StatusPlaying for the
// first time.
func (c *Coordinator) RegisterAndPlay(h *Handle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopAllLocked(h.ID)
	c.handles[h.ID] = h
	c.playLocked(h)
}

// Play handles the play event of an already-registered unit, typically a
// native video element the visitor hit play on.
func (c *Coordinator) Play(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	h, ok := c.handles[id]
	if !ok {
		return
	}
	c.stopAllLocked(id)
	c.playLocked(h)
}

// Pause suspends one handle without touching the rest. The pending clip
// timer is cancelled; Resume recomputes it from the live position.
func (c *Coordinator) Pause(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	h, ok := c.handles[id]
	if !ok {
		return
	}
	c.cancelTimerLocked(h)
	if err := h.player.Pause(); err != nil {
		slog.Debug("Ignoring pause failure", slog.String("handle", h.ID), slog.Any("error", err))
	}
	h.status = StatusPaused
	c.broadcastLocked()
}

// Resume restarts a paused handle. Resuming counts as starting playback so
// everything else is stopped first and the clip timer is re-armed from the
// player's reported position.
func (c *Coordinator) Resume(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	h, ok := c.handles[id]
	if !ok {
		return
	}
	c.stopAllLocked(id)
	c.playLocked(h)
}

// Restart seeks a handle back to its clip start (or zero) and plays it.
// Used by the ended-overlay affordance.
func (c *Coordinator) Restart(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	h, ok := c.handles[id]
	if !ok {
		return
	}
	c.stopAllLocked(id)
	c.cancelTimerLocked(h)
	var start time.Duration
	if h.clip != nil {
		start = h.clip.Start
	}
	if err := h.player.Seek(start); err != nil {
		slog.Debug("Ignoring seek failure", slog.String("handle", h.ID), slog.Any("error", err))
	}
	c.playLocked(h)
}

// StopAll suspends every rich-media handle except the given ID. Native video
// is paused and rewound but stays registered; YouTube playback is stopped,
// its clip timer cancelled and the handle deregistered so the slide reverts
// to its placeholder. Embed and Drive preview iframes keep running; the
// hosting service owns their playback state.
func (c *Coordinator) StopAll(exclude string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopAllLocked(exclude)
	c.broadcastLocked()
}

func (c *Coordinator) stopAllLocked(exclude string) {
	for id, h := range c.handles {
		if id == exclude {
			continue
		}
		switch h.Kind {
		case mockup.KindVideo, mockup.KindDriveVideo:
			if h.status == StatusStopped {
				continue
			}
			c.cancelTimerLocked(h)
			if err := h.player.Pause(); err != nil {
				slog.Debug("Ignoring pause failure", slog.String("handle", h.ID), slog.Any("error", err))
			}
			if err := h.player.Seek(0); err != nil {
				slog.Debug("Ignoring seek failure", slog.String("handle", h.ID), slog.Any("error", err))
			}
			h.status = StatusStopped
			c.recordStopLocked(h, "interrupted")
		case mockup.KindYouTube:
			c.cancelTimerLocked(h)
			if err := h.player.Stop(); err != nil {
				slog.Debug("Ignoring stop failure", slog.String("handle", h.ID), slog.Any("error", err))
			}
			h.status = StatusStopped
			c.recordStopLocked(h, "interrupted")
			delete(c.handles, id)
		}
	}
}

// ReleaseCard tears down every handle belonging to one card. Called before
// a carousel swaps slides and when a card disappears from the deck.
func (c *Coordinator) ReleaseCard(cardID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	changed := false
	for id, h := range c.handles {
		if h.CardID != cardID {
			continue
		}
		c.cancelTimerLocked(h)
		if h.status == StatusPlaying || h.status == StatusPaused || h.status == StatusLive {
			if err := h.player.Stop(); err != nil {
				slog.Debug("Ignoring stop failure", slog.String("handle", h.ID), slog.Any("error", err))
			}
			c.recordStopLocked(h, "released")
		}
		delete(c.handles, id)
		changed = true
	}
	if changed {
		c.broadcastLocked()
	}
}

// Reset empties the registry entirely. Used when the deck is rebuilt from a
// fresh content snapshot and for test isolation.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, h := range c.handles {
		c.cancelTimerLocked(h)
		if h.status == StatusPlaying || h.status == StatusPaused || h.status == StatusLive {
			if err := h.player.Stop(); err != nil {
				slog.Debug("Ignoring stop failure", slog.String("handle", h.ID), slog.Any("error", err))
			}
			c.recordStopLocked(h, "reset")
		}
		delete(c.handles, id)
	}
	c.broadcastLocked()
}

// ReportPosition feeds a client-side position report back into the handle's
// player so the next clip-timer computation starts from reality instead of
// the clip's start bound.
func (c *Coordinator) ReportPosition(id string, pos time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	h, ok := c.handles[id]
	if !ok {
		return
	}
	if rp, ok := h.player.(interface{ SetPosition(time.Duration) }); ok {
		rp.SetPosition(pos)
	}
}

// State returns a deterministic snapshot of the registry.
func (c *Coordinator) State() []HandleState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *Coordinator) playLocked(h *Handle) {
	if err := h.player.Play(); err != nil {
		// degrade to the static thumbnail; the visitor just sees nothing happen
		slog.Debug("Ignoring play failure", slog.String("handle", h.ID), slog.Any("error", err))
		return
	}
	h.status = StatusPlaying
	c.armClipTimerLocked(h)
	c.recordStartLocked(h)
	c.broadcastLocked()
}

func (c *Coordinator) armClipTimerLocked(h *Handle) {
	if h.clip == nil || h.clip.End <= 0 {
		return
	}
	remaining := h.clip.End - h.clip.Start
	if pos, err := h.player.Position(); err == nil {
		remaining = h.clip.End - pos
	} else {
		slog.Debug("Clip position unknown, assuming full clip duration",
			slog.String("handle", h.ID))
	}
	if remaining < 0 {
		remaining = 0
	}
	c.timerSeq++
	token := c.timerSeq
	h.timerToken = token
	h.endTimer = c.afterFunc(remaining, func() {
		c.clipEnded(h.ID, token)
	})
}

// cancelTimerLocked clears the arm token so an already-fired callback that
// is waiting on the lock becomes a no-op. Tokens are never reused, so the
// cancelled timer stays dead even if the same handle ID is later recreated.
func (c *Coordinator) cancelTimerLocked(h *Handle) {
	h.timerToken = 0
	if h.endTimer != nil {
		h.endTimer.Stop()
		h.endTimer = nil
	}
}

func (c *Coordinator) clipEnded(id string, token uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	h, ok := c.handles[id]
	if !ok || h.timerToken != token || h.status != StatusPlaying {
		return
	}
	h.endTimer = nil
	if err := h.player.Pause(); err != nil {
		slog.Debug("Ignoring pause failure", slog.String("handle", h.ID), slog.Any("error", err))
	}
	h.status = StatusEnded
	c.recordStopLocked(h, "clip_end")
	c.broadcastLocked()
}

func (c *Coordinator) stateLocked() []HandleState {
	states := make([]HandleState, 0, len(c.handles))
	for _, h := range c.handles {
		s := HandleState{
			ID:     h.ID,
			CardID: h.CardID,
			Kind:   h.Kind.String(),
			Src:    h.Src,
			Status: h.status,
		}
		if h.clip != nil {
			s.ClipStart = int(h.clip.Start.Seconds())
			s.ClipEnd = int(h.clip.End.Seconds())
			s.RestartFrom = int(h.clip.Start.Seconds())
		}
		s.ShowOverlay = h.status == StatusEnded
		states = append(states, s)
	}
	sort.Slice(states, func(i, j int) bool { return states[i].ID < states[j].ID })
	return states
}

func (c *Coordinator) broadcastLocked() {
	if c.publish == nil {
		return
	}
	data, err := json.Marshal(c.stateLocked())
	if err != nil {
		return
	}
	c.publish("playback", data)
}

func (c *Coordinator) recordStartLocked(h *Handle) {
	if c.store == nil {
		return
	}
	if err := c.store.RecordStart(h.ID, h.CardID, h.Kind.String(), h.Src); err != nil {
		slog.Error("Failed to record playback session start",
			slog.String("handle", h.ID), slog.Any("error", err))
	}
}

func (c *Coordinator) recordStopLocked(h *Handle, reason string) {
	if c.store == nil {
		return
	}
	if err := c.store.RecordStop(h.ID, reason); err != nil {
		slog.Error("Failed to record playback session stop",
			slog.String("handle", h.ID), slog.Any("error", err))
	}
}
