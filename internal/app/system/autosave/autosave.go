// Package autosave turns a stream of editor change events into debounced,
// deduplicated saves.
//
// A Controller is Idle until a change arrives, Pending while the quiescence
// window runs (each new change restarts it), and Flushing while it
// serializes the latest snapshot and, if it differs from what was last
// saved, calls the Saver. At most one save per session is in flight; a
// window that closes during a save queues exactly one follow-up flush.
package autosave

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/AashishRichhariya/openleaf/internal/app/system/content"
	"github.com/AashishRichhariya/openleaf/internal/domain/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultWindow is the quiescence window before a flush.
const DefaultWindow = 2 * time.Second

// State is the controller's position in the debounce cycle.
type State int

const (
	Idle State = iota
	Pending
	Flushing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Flushing:
		return "flushing"
	default:
		return "unknown"
	}
}

// Timer is a cancellable deferred callback. *time.Timer satisfies it.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealScheduler schedules on the wall clock.
var RealScheduler Scheduler = realScheduler{}

// Snapshot is an editor state that can serialize itself.
type Snapshot interface {
	ToJSON() (json.RawMessage, error)
}

// SnapshotFunc adapts a function to Snapshot.
type SnapshotFunc func() (json.RawMessage, error)

// ToJSON implements Snapshot.
func (f SnapshotFunc) ToJSON() (json.RawMessage, error) { return f() }

// Static is a Snapshot of already-serialized content.
type Static json.RawMessage

// ToJSON implements Snapshot.
func (s Static) ToJSON() (json.RawMessage, error) { return json.RawMessage(s), nil }

// Saver persists a document. lifecycle.Service and client.Client satisfy it.
type Saver interface {
	Save(ctx context.Context, slug string, content json.RawMessage, readOnly, isNew bool) (models.Document, error)
}

// Config describes one editing session.
type Config struct {
	Slug     string
	ReadOnly bool
	// IsNew makes the first successful save a create. It is cleared after
	// that save.
	IsNew bool
	// Initial is the content the session opened with. An unchanged
	// snapshot is never saved.
	Initial json.RawMessage
	// Window defaults to DefaultWindow.
	Window time.Duration
	// Scheduler defaults to RealScheduler.
	Scheduler Scheduler
}

// Controller debounces saves for one session. It is safe for concurrent use.
type Controller struct {
	cfg     Config
	saver   Saver
	logger  *zap.Logger
	session string

	mu        sync.Mutex
	latest    Snapshot
	lastSaved string
	isNew     bool
	gen       uint64
	timer     Timer
	armed     bool
	inFlight  bool
	queued    bool
	closed    bool
}

// New creates a Controller in the Idle state.
func New(saver Saver, cfg Config, logger *zap.Logger) *Controller {
	if cfg.Window <= 0 {
		cfg.Window = DefaultWindow
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = RealScheduler
	}
	initial, err := content.Canonical(cfg.Initial)
	if err != nil {
		initial = ""
	}
	c := &Controller{
		cfg:       cfg,
		saver:     saver,
		session:   uuid.NewString(),
		lastSaved: initial,
		isNew:     cfg.IsNew,
	}
	c.logger = logger.With(zap.String("slug", cfg.Slug), zap.String("session", c.session))
	return c
}

// OnChange records snap as the latest editor state and restarts the
// quiescence window. Read-only and closed sessions ignore it.
func (c *Controller) OnChange(snap Snapshot) {
	if c.cfg.ReadOnly {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.latest = snap
	if c.timer != nil {
		c.timer.Stop()
	}
	c.gen++
	gen := c.gen
	c.timer = c.cfg.Scheduler.AfterFunc(c.cfg.Window, func() { c.fire(gen) })
	c.armed = true
}

// Close cancels any pending flush. A save already in flight is left to finish.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.queued = false
	c.armed = false
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// State reports where the controller is in the debounce cycle.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.inFlight:
		return Flushing
	case c.armed:
		return Pending
	default:
		return Idle
	}
}

// LastSaved returns the canonical form of the last successfully saved content.
func (c *Controller) LastSaved() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSaved
}

// Session returns the id used to correlate this session's log lines.
func (c *Controller) Session() string {
	return c.session
}

func (c *Controller) fire(gen uint64) {
	c.mu.Lock()
	if c.closed || gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.armed = false
	if c.inFlight {
		c.queued = true
		c.mu.Unlock()
		return
	}
	c.inFlight = true
	c.mu.Unlock()

	for {
		c.mu.Lock()
		snap, isNew, lastSaved := c.latest, c.isNew, c.lastSaved
		c.mu.Unlock()

		c.flush(snap, isNew, lastSaved)

		c.mu.Lock()
		if c.queued && !c.closed {
			c.queued = false
			c.mu.Unlock()
			continue
		}
		c.inFlight = false
		c.mu.Unlock()
		return
	}
}

func (c *Controller) flush(snap Snapshot, isNew bool, lastSaved string) {
	if snap == nil {
		return
	}
	raw, err := snap.ToJSON()
	if err != nil {
		c.logger.Warn("autosave: snapshot serialization failed", zap.Error(err))
		return
	}
	canon, err := content.Canonical(raw)
	if err != nil {
		c.logger.Warn("autosave: snapshot is not valid JSON", zap.Error(err))
		return
	}
	if canon == lastSaved {
		c.logger.Debug("autosave: content unchanged, skipping save")
		return
	}

	if _, err := c.saver.Save(context.Background(), c.cfg.Slug, raw, false, isNew); err != nil {
		c.logger.Error("autosave: save failed; will retry on next change", zap.Error(err))
		return
	}

	c.mu.Lock()
	c.lastSaved = canon
	c.isNew = false
	c.mu.Unlock()
	c.logger.Debug("autosave: saved", zap.Bool("new", isNew))
}
