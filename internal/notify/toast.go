// Package notify shows transient success messages.
//
// A message stays visible for a fixed delay and is then cleared. A new
// message arriving before the delay expires replaces the old one and restarts
// the timer.
package notify

import (
	"sync"
	"time"
)

// DefaultDelay is how long a message stays visible.
const DefaultDelay = 2 * time.Second

// SuccessMessage is the text every store mutation reports.
const SuccessMessage = "Success"

// Notifier receives messages from the store.
type Notifier interface {
	Notify(message string)
}

// Discard ignores every message.
type Discard struct{}

// Notify implements Notifier.
func (Discard) Notify(string) {}

// Toast holds at most one visible message.
//
// Thread-safety: Toast is safe for concurrent use. The clear timer fires on
// its own goroutine.
type Toast struct {
	mu       sync.Mutex
	delay    time.Duration
	message  string
	visible  bool
	timer    *time.Timer
	gen      uint64
	onChange func(message string, visible bool)
}

// Option configures a Toast.
type Option func(*Toast)

// WithDelay overrides DefaultDelay.
func WithDelay(d time.Duration) Option {
	return func(t *Toast) { t.delay = d }
}

// WithOnChange registers a callback for show and clear transitions.
// The callback runs without the Toast lock held.
func WithOnChange(fn func(message string, visible bool)) Option {
	return func(t *Toast) { t.onChange = fn }
}

// NewToast creates an empty Toast.
func NewToast(opts ...Option) *Toast {
	t := &Toast{delay: DefaultDelay}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Notify shows message and (re)starts the clear timer.
func (t *Toast) Notify(message string) {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
	}
	t.gen++
	gen := t.gen
	t.message = message
	t.visible = true
	t.timer = time.AfterFunc(t.delay, func() { t.expire(gen) })
	onChange := t.onChange
	t.mu.Unlock()

	if onChange != nil {
		onChange(message, true)
	}
}

// expire clears the message shown by generation gen.
// A timer from an older generation that lost the race with Stop is ignored.
func (t *Toast) expire(gen uint64) {
	t.mu.Lock()
	if gen != t.gen || !t.visible {
		t.mu.Unlock()
		return
	}
	message := t.message
	t.message = ""
	t.visible = false
	t.timer = nil
	onChange := t.onChange
	t.mu.Unlock()

	if onChange != nil {
		onChange(message, false)
	}
}

// Current returns the visible message, if any.
func (t *Toast) Current() (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.message, t.visible
}

// Stop cancels a pending clear without clearing the message.
func (t *Toast) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.gen++
}
