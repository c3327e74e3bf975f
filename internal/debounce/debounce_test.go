package debounce

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fire(t *testing.T, d *Debouncer, payload string) FiredMsg {
	t.Helper()
	cmd := d.Schedule(payload)
	require.NotNil(t, cmd)
	msg, ok := cmd().(FiredMsg)
	require.True(t, ok)
	return msg
}

func TestDebouncer_OnlyLatestAccepted(t *testing.T) {
	d := New(time.Millisecond)

	first := d.Schedule("p")
	second := d.Schedule("pi")
	last := d.Schedule("piz")

	for _, cmd := range []tea.Cmd{first, second} {
		msg := cmd().(FiredMsg)
		assert.False(t, d.Accept(msg), "stale %q accepted", msg.Payload)
	}

	msg := last().(FiredMsg)
	assert.True(t, d.Accept(msg))
	assert.Equal(t, "piz", msg.Payload)
}

func TestDebouncer_Cancel(t *testing.T) {
	d := New(time.Millisecond)

	msg := fire(t, d, "sushi")
	assert.True(t, d.Accept(msg))

	d.Cancel()
	assert.False(t, d.Accept(msg))
}

func TestDebouncer_WaitsForDelay(t *testing.T) {
	d := New(20 * time.Millisecond)

	start := time.Now()
	fire(t, d, "x")
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestNew_DefaultDelay(t *testing.T) {
	assert.Equal(t, DefaultDelay, New(0).Delay())
	assert.Equal(t, 300*time.Millisecond, DefaultDelay)
}
