// Package ui renders short-lived notifications on the last line of a view.
package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// NotificationTimeout is how long a notification stays visible.
const NotificationTimeout = 3 * time.Second

// Model holds the notification currently shown.
type Model struct {
	notification string
	notifiedAt   time.Time
}

// NotificationMsg shows Text until it times out or is replaced.
type NotificationMsg struct {
	Text string
}

// ClearNotificationMsg hides the notification posted at At, unless a newer one replaced it.
type ClearNotificationMsg struct {
	At time.Time
}

// Notify returns a command that shows text.
func Notify(text string) tea.Cmd {
	return func() tea.Msg {
		return NotificationMsg{Text: text}
	}
}

func clearAfter(at time.Time) tea.Cmd {
	return tea.Tick(NotificationTimeout, func(time.Time) tea.Msg {
		return ClearNotificationMsg{At: at}
	})
}

// Update handles notification messages and ignores everything else.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case NotificationMsg:
		m.notification = msg.Text
		m.notifiedAt = time.Now()
		return clearAfter(m.notifiedAt)
	case ClearNotificationMsg:
		if msg.At.Equal(m.notifiedAt) {
			m.notification = ""
		}
	}
	return nil
}

// Current returns the visible notification, empty when none.
func (m *Model) Current() string {
	return m.notification
}

// View appends the notification to the last line of content.
func (m *Model) View(content string) string {
	if m.notification == "" {
		return content
	}

	lines := strings.Split(content, "\n")
	lines[len(lines)-1] += "  " + "\033[90m" + m.notification + "\033[0m"
	return strings.Join(lines, "\n")
}
