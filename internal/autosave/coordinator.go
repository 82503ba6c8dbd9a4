package autosave

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Asonyu-Ng/career-profile-pal/internal/domain/cv"
	"github.com/Asonyu-Ng/career-profile-pal/internal/observability"
)

type Saver interface {
	Save(ctx context.Context, record cv.CV) bool
}

type UserValidator interface {
	IsRegisteredUserID(ctx context.Context, id string) bool
}

const DefaultDelay = 2 * time.Second

// Coordinator debounces draft mutations into record store saves. Each Notify
// re-arms the single pending timer, so within a busy window only the last
// draft state is written. Debounce, not throttle: continuous edits never
// force a periodic flush.
type Coordinator struct {
	saver   Saver
	users   UserValidator
	delay   time.Duration
	log     *slog.Logger
	metrics *observability.Metrics

	mu     sync.Mutex
	timer  *time.Timer
	draft  cv.CV
	closed bool
}

func New(saver Saver, users UserValidator, delay time.Duration, log *slog.Logger, metrics *observability.Metrics) *Coordinator {
	if delay <= 0 {
		delay = DefaultDelay
	}

	return &Coordinator{
		saver:   saver,
		users:   users,
		delay:   delay,
		log:     log,
		metrics: metrics,
	}
}

// Notify records the latest draft state and re-arms the save timer. Earlier
// pending saves are superseded, not queued.
func (c *Coordinator) Notify(draft cv.CV) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.draft = draft

	if c.timer != nil {
		c.timer.Stop()
	}

	c.timer = time.AfterFunc(c.delay, c.fire)
}

// Close cancels any pending save. No save fires after Close returns.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true

	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Coordinator) fire() {
	c.mu.Lock()

	if c.closed {
		c.mu.Unlock()
		return
	}

	draft := c.draft
	c.timer = nil
	c.mu.Unlock()

	ctx := context.Background()

	if draft.UserID == "" {
		c.log.Debug("auto-save skipped, draft has no owner", "cvId", draft.ID)
		c.metrics.AutoSaveSkipped.WithLabelValues("no_user").Inc()
		return
	}

	if !c.users.IsRegisteredUserID(ctx, draft.UserID) {
		c.log.Debug("auto-save skipped, owner not registered", "cvId", draft.ID, "userId", draft.UserID)
		c.metrics.AutoSaveSkipped.WithLabelValues("unregistered_user").Inc()
		return
	}

	if !draft.HasContent() {
		c.log.Debug("auto-save skipped, draft is empty", "cvId", draft.ID)
		c.metrics.AutoSaveSkipped.WithLabelValues("empty_draft").Inc()
		return
	}

	draft.UpdatedAt = time.Now()

	// no retry on failure; the store already degraded to a no-op and logged
	c.saver.Save(ctx, draft)
	c.metrics.AutoSaveFired.Inc()

	c.log.Debug("cv auto-saved", "cvId", draft.ID)
}
