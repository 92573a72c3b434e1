// Package engine keeps the client-side view of a study plan consistent with
// the server. It owns the rendered day, the calendar grid and the queue
// lists, and decides per action whether to patch a card in place or reload.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/leetplan/plansync/internal/models"
	"github.com/leetplan/plansync/internal/render"
	"github.com/leetplan/plansync/internal/state"
	"github.com/leetplan/plansync/internal/storage"
)

var (
	ErrPlanLoad        = errors.New("failed to load day plan")
	ErrMutation        = errors.New("update rejected")
	ErrMalformedList   = errors.New("malformed list response")
	ErrListLoad        = errors.New("failed to load list")
	ErrUnknownQuestion = errors.New("question is not on the current page")
	ErrUnknownAction   = errors.New("unknown action")
)

// Defaults for the timing knobs
const (
	DefaultCalendarRetry  = 100 * time.Millisecond
	DefaultNoteSavedFlash = 1500 * time.Millisecond
)

// API is the subset of the study plan server the engine talks to
type API interface {
	CurrentDay(ctx context.Context) (*models.CurrentDay, error)
	Plan(ctx context.Context, day int) (*models.DayPlan, error)
	SetProgress(ctx context.Context, questionID int, isCorrect *bool) error
	Defer(ctx context.Context, questionID int) error
	Undefer(ctx context.Context, questionID int) error
	SaveNote(ctx context.Context, questionID int, note string) error
	Note(ctx context.Context, questionID int) (string, error)
	Statistics(ctx context.Context) (*models.Statistics, error)
	Review(ctx context.Context) ([]models.ReviewEntry, error)
	Deferred(ctx context.Context) ([]models.DeferredEntry, error)
}

// Engine is the synchronization engine. Its methods are safe for
// concurrent use.
type Engine struct {
	api      API
	settings storage.SettingsRepository
	notifier Notifier

	view state.Reader
	// days is written only by the day plan loader
	days state.DayWriter
	// stats is written only by the statistics aggregator
	stats state.StatisticsWriter

	now            func() time.Time
	calendarRetry  time.Duration
	noteSavedFlash time.Duration

	page     *page
	calendar *calendar

	mu       sync.RWMutex
	deferred *render.DeferredList
}

// Option configures the engine
type Option func(*Engine)

// WithClock sets the source of the local date used by the fallback
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithCalendarRetry sets how often the calendar polls for the start date
func WithCalendarRetry(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.calendarRetry = d
		}
	}
}

// WithNoteSavedFlash sets how long the "✓ Saved!" flag stays up
func WithNoteSavedFlash(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.noteSavedFlash = d
		}
	}
}

// New creates an engine. A nil notifier discards notices.
func New(api API, store *state.Store, settings storage.SettingsRepository, notifier Notifier, opts ...Option) *Engine {
	if notifier == nil {
		notifier = NotifierFunc(func(Notice) {})
	}
	e := &Engine{
		api:            api,
		settings:       settings,
		notifier:       notifier,
		view:           store,
		days:           store,
		stats:          store,
		now:            time.Now,
		calendarRetry:  DefaultCalendarRetry,
		noteSavedFlash: DefaultNoteSavedFlash,
		page:           newPage(),
		calendar:       &calendar{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start bootstraps the view: the current day, the calendar grid and the
// header statistics. It returns the day plan error, if any, after the
// other parts have been attempted.
func (e *Engine) Start(ctx context.Context) error {
	dayErr := e.LoadCurrentDay(ctx)

	if err := e.BuildCalendar(ctx); err != nil {
		slog.Warn("calendar not built", "error", err)
	}
	if err := e.LoadStatistics(ctx); err != nil {
		slog.Warn("statistics not loaded", "error", err)
	}

	return dayErr
}

// Wait blocks until background calendar checks have finished
func (e *Engine) Wait() {
	e.calendar.wg.Wait()
}

// CurrentDay returns the active day
func (e *Engine) CurrentDay() int {
	return e.view.CurrentDay()
}

// Day returns a copy of the rendered day, or nil before the first load
func (e *Engine) Day() *render.DayView {
	return e.page.snapshot()
}

// Card returns a copy of the card of a question on the current page
func (e *Engine) Card(questionID int) (*render.CardView, bool) {
	return e.page.card(questionID)
}

// Deferred returns the last rendered deferred list, or nil
func (e *Engine) Deferred() *render.DeferredList {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.deferred
}

func (e *Engine) today() models.Date {
	return models.NewDate(e.now())
}

func (e *Engine) notify(kind NoticeKind, message string, err error) {
	e.notifier.Notify(Notice{Kind: kind, Message: message, Err: err})
}
