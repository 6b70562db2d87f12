package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/plantrack/internal/cli/formatter"
	"github.com/alexanderramin/plantrack/internal/domain"
	"github.com/alexanderramin/plantrack/internal/service"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type notificationMsg struct {
	n *domain.Notification
}

type subscriptionClosedMsg struct{}

// watchModel is the live notification feed. It stays open until the user
// quits or the subscription expires.
type watchModel struct {
	userName string
	sub      *service.Subscription
	spin     spinner.Model
	lines    []string
	closed   bool
	quitKeys key.Binding
}

func newWatchModel(userName string, sub *service.Subscription) watchModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = formatter.StyleYellow
	return watchModel{
		userName: userName,
		sub:      sub,
		spin:     s,
		quitKeys: key.NewBinding(key.WithKeys("q", "esc", "ctrl+c")),
	}
}

func waitForNotification(sub *service.Subscription) tea.Cmd {
	return func() tea.Msg {
		n, ok := <-sub.C
		if !ok {
			return subscriptionClosedMsg{}
		}
		return notificationMsg{n: n}
	}
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, waitForNotification(m.sub))
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.quitKeys) {
			m.sub.Close()
			return m, tea.Quit
		}
		return m, nil

	case notificationMsg:
		m.lines = append(m.lines, formatter.FormatNotificationLine(msg.n))
		return m, waitForNotification(m.sub)

	case subscriptionClosedMsg:
		m.closed = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m watchModel) View() string {
	var b strings.Builder
	b.WriteString(formatter.Header("Watching notifications for "+m.userName) + "\n\n")
	if len(m.lines) == 0 {
		b.WriteString(formatter.Dim("No notifications yet.") + "\n")
	} else {
		b.WriteString(strings.Join(m.lines, "\n") + "\n")
	}
	b.WriteString("\n")
	if m.closed {
		b.WriteString(formatter.Dim("Subscription expired.") + "\n")
	} else {
		b.WriteString(fmt.Sprintf("%s %s\n", m.spin.View(), formatter.Dim("listening (q to quit)")))
	}
	return b.String()
}
