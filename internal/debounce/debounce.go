// Package debounce defers an action until input has been quiet for a fixed
// delay. Each Schedule supersedes every earlier one; only the latest token is
// ever accepted.
package debounce

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultDelay is the search debounce window.
const DefaultDelay = 300 * time.Millisecond

// FiredMsg is delivered when a scheduled delay elapses.
type FiredMsg struct {
	Token   uint64
	Payload string
}

// Debouncer hands out tokens; a fired message counts only if its token is
// still the latest.
type Debouncer struct {
	delay time.Duration

	mu     sync.Mutex
	latest uint64
}

// New creates a debouncer. A non-positive delay uses DefaultDelay.
func New(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer{delay: delay}
}

// Delay returns the configured window.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Schedule cancels any pending evaluation and returns a command that fires
// after the delay.
func (d *Debouncer) Schedule(payload string) tea.Cmd {
	token := d.next()
	return tea.Tick(d.delay, func(time.Time) tea.Msg {
		return FiredMsg{Token: token, Payload: payload}
	})
}

// Cancel invalidates the pending evaluation, if any.
func (d *Debouncer) Cancel() {
	d.next()
}

// Accept reports whether msg belongs to the latest schedule.
func (d *Debouncer) Accept(msg FiredMsg) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return msg.Token == d.latest
}

func (d *Debouncer) next() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.latest++
	return d.latest
}
