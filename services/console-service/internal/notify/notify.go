package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Event is one toast shown to the operator. Delivery is fire-and-forget;
// no caller waits on it or reacts to delivery failure.
type Event struct {
	ID      string    `json:"id"`
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

func newEvent(level Level, message string) Event {
	return Event{
		ID:      uuid.NewString(),
		Level:   level,
		Message: message,
		At:      time.Now().UTC(),
	}
}

type Notifier interface {
	Success(ctx context.Context, message string)
	Failure(ctx context.Context, message string)
}

// LogNotifier writes toasts to the service log.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Success(_ context.Context, message string) {
	n.logger.Info("notify", "level", LevelSuccess, "message", message)
}

func (n *LogNotifier) Failure(_ context.Context, message string) {
	n.logger.Warn("notify", "level", LevelError, "message", message)
}

// Multi fans one toast out to several sinks.
type Multi []Notifier

func (m Multi) Success(ctx context.Context, message string) {
	for _, n := range m {
		n.Success(ctx, message)
	}
}

func (m Multi) Failure(ctx context.Context, message string) {
	for _, n := range m {
		n.Failure(ctx, message)
	}
}

// Feed retains the most recent toasts in memory so a polling frontend can
// render them. Oldest entries fall off once the capacity is reached.
type Feed struct {
	mu     sync.Mutex
	events []Event
	cap    int
}

func NewFeed(capacity int) *Feed {
	if capacity <= 0 {
		capacity = 50
	}
	return &Feed{cap: capacity}
}

func (f *Feed) Success(_ context.Context, message string) {
	f.push(newEvent(LevelSuccess, message))
}

func (f *Feed) Failure(_ context.Context, message string) {
	f.push(newEvent(LevelError, message))
}

func (f *Feed) push(evt Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, evt)
	if len(f.events) > f.cap {
		f.events = f.events[len(f.events)-f.cap:]
	}
}

// Recent returns up to limit events, newest first.
func (f *Feed) Recent(limit int) []Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	if limit <= 0 || limit > len(f.events) {
		limit = len(f.events)
	}
	out := make([]Event, 0, limit)
	for i := len(f.events) - 1; i >= len(f.events)-limit; i-- {
		out = append(out, f.events[i])
	}
	return out
}
