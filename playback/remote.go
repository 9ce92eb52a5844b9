package playback

import (
	"encoding/json"
	"errors"
	"sync"
	"time"
)

// ErrPositionUnknown is returned by RemotePlayer.Position before the browser
// has reported any progress. Callers fall back to fixed clip durations.
var ErrPositionUnknown = errors.New("playback position has not been reported")

// Command is one directive pushed to browser-side players over the playback
// stream. The client is expected to locate the element by handle ID and obey.
type Command struct {
	Action   string  `json:"action"`
	HandleID string  `json:"handle_id"`
	Seconds  float64 `json:"seconds,omitempty"`
}

// RemotePlayer drives a player that lives in the visitor's browser. Control
// calls become commands on the playback stream; position flows back through
// the progress endpoint as best-effort reports. There is no way to read the
// true position synchronously, mirroring how cross-origin players behave.
type RemotePlayer struct {
	handleID string
	publish  PublishFunc

	mu    sync.Mutex
	pos   time.Duration
	known bool
}

func NewRemotePlayer(handleID string, publish PublishFunc) *RemotePlayer {
	return &RemotePlayer{handleID: handleID, publish: publish}
}

func (p *RemotePlayer) Play() error  { return p.send("play", 0) }
func (p *RemotePlayer) Pause() error { return p.send("pause", 0) }

func (p *RemotePlayer) Stop() error {
	p.mu.Lock()
	p.pos = 0
	p.mu.Unlock()
	return p.send("stop", 0)
}

func (p *RemotePlayer) Seek(to time.Duration) error {
	p.mu.Lock()
	p.pos = to
	p.known = true
	p.mu.Unlock()
	return p.send("seek", to.Seconds())
}

func (p *RemotePlayer) Position() (time.Duration, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.known {
		return 0, ErrPositionUnknown
	}
	return p.pos, nil
}

// SetPosition records a progress report from the browser.
func (p *RemotePlayer) SetPosition(pos time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pos = pos
	p.known = true
}

func (p *RemotePlayer) send(action string, seconds float64) error {
	if p.publish == nil {
		return nil
	}
	data, err := json.Marshal(Command{Action: action, HandleID: p.handleID, Seconds: seconds})
	if err != nil {
		return err
	}
	p.publish("playback", data)
	return nil
}
