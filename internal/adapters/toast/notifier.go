package toast

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"restaurant_reviews/internal/adapters/observability"
	"restaurant_reviews/internal/domain"
)

type Level string

const (
	LevelError   Level = "error"
	LevelWarning Level = "warning"
	LevelSuccess Level = "success"
)

type Toast struct {
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Feed logs every notification and keeps the most recent ones for the front end to display.
type Feed struct {
	log zerolog.Logger
	max int

	mu    sync.Mutex
	items []Toast
}

var _ domain.Notifier = (*Feed)(nil)

func New(l zerolog.Logger, history int) *Feed {
	if history <= 0 {
		history = 50
	}
	return &Feed{log: l, max: history}
}

func (f *Feed) Error(msg string) {
	f.log.Error().Str("toast", string(LevelError)).Msg(msg)
	f.push(LevelError, msg)
}

func (f *Feed) Warning(msg string) {
	f.log.Warn().Str("toast", string(LevelWarning)).Msg(msg)
	f.push(LevelWarning, msg)
}

func (f *Feed) Success(msg string) {
	f.log.Info().Str("toast", string(LevelSuccess)).Msg(msg)
	f.push(LevelSuccess, msg)
}

// Recent returns a copy of the retained toasts, oldest first.
func (f *Feed) Recent() []Toast {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Toast, len(f.items))
	copy(out, f.items)
	return out
}

func (f *Feed) push(level Level, msg string) {
	observability.ObserveNotification(string(level))
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, Toast{Level: level, Message: msg, At: time.Now().UTC()})
	if n := len(f.items) - f.max; n > 0 {
		f.items = append(f.items[:0:0], f.items[n:]...)
	}
}
