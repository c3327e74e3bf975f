package ui

import (
	"strings"
	"time"

	"foodwagen/internal/model"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	toastLifetime  = 3 * time.Second
	maxToasts      = 3
	notifierBuffer = 32
)

// ChannelNotifier forwards store notifications into the Bubble Tea loop.
// Notify never blocks; when the buffer is full the notification is dropped.
type ChannelNotifier struct {
	ch chan model.Notification
}

// NewChannelNotifier creates a notifier with the given buffer size.
func NewChannelNotifier(buffer int) *ChannelNotifier {
	if buffer <= 0 {
		buffer = notifierBuffer
	}
	return &ChannelNotifier{ch: make(chan model.Notification, buffer)}
}

// Notify implements store.Notifier.
func (n *ChannelNotifier) Notify(note model.Notification) {
	select {
	case n.ch <- note:
	default:
	}
}

// Wait returns a command that delivers the next notification.
func (n *ChannelNotifier) Wait() tea.Cmd {
	return func() tea.Msg {
		return model.NotificationMsg{Notification: <-n.ch}
	}
}

type toast struct {
	id   int
	note model.Notification
}

// toastExpiredMsg removes a toast once its lifetime is over.
type toastExpiredMsg struct {
	id int
}

// toastStack holds the visible toasts, newest last.
type toastStack struct {
	nextID int
	items  []toast
}

// push adds a toast and returns the command that will expire it.
func (s *toastStack) push(note model.Notification) tea.Cmd {
	s.nextID++
	id := s.nextID
	s.items = append(s.items, toast{id: id, note: note})
	if len(s.items) > maxToasts {
		s.items = s.items[len(s.items)-maxToasts:]
	}
	return tea.Tick(toastLifetime, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

func (s *toastStack) expire(id int) {
	for i, t := range s.items {
		if t.id == id {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			return
		}
	}
}

func (s *toastStack) texts() []string {
	out := make([]string, 0, len(s.items))
	for _, t := range s.items {
		out = append(out, t.note.Text)
	}
	return out
}

func (s *toastStack) View(width int) string {
	if len(s.items) == 0 {
		return ""
	}
	lines := make([]string, 0, len(s.items))
	for _, t := range s.items {
		style := ToastSuccessStyle
		if t.note.Kind == model.NotifyError {
			style = ToastErrorStyle
		}
		lines = append(lines, style.Render(t.note.Text))
	}
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Right).
		Render(strings.Join(lines, "\n"))
}
