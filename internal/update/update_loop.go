package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/timaru/internal/views"
)

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{dayChangeCmd(m.planner.Now())}
	if m.scheduler != nil {
		cmds = append(cmds, waitForReminderCmd(m.scheduler.C()))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(typed.Width, typed.Height)
		return m, nil
	case tea.KeyMsg:
		if m.Palette.Active {
			return m.handlePaletteKey(typed)
		}

		switch typed.String() {
		case ":", "/":
			return m.openPalette("")
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			return m, nil
		case "ctrl+c", m.Keys.Quit:
			m.Quitting = true
			return m, tea.Quit
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.outputViewport, cmd = m.outputViewport.Update(typed)
			return m, cmd
		}
		if m.Focus.Active {
			return m.handleFocusKey(typed)
		}
		return m.handleAgendaKey(typed)
	case SwitchModeMsg:
		m.setMode(typed.Mode)
		return m, nil
	case ReloadMsg:
		m.reload()
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		if typed.Err != nil {
			m.fail(typed.Err)
		}
		return m, nil
	case FocusTickMsg:
		return m.onFocusTick()
	case ReminderDueMsg:
		m.applyReminder(typed.Event)
		if m.scheduler != nil {
			return m, waitForReminderCmd(m.scheduler.C())
		}
		return m, nil
	case DayChangedMsg:
		m.afterChange()
		return m, dayChangeCmd(m.planner.Now())
	}

	return m, nil
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	status := ""
	if m.Status.Text != "" {
		status = fmt.Sprintf("status: %s", m.Status.Text)
	}

	leftPane := m.agendaPanel()
	if m.Focus.Active {
		leftPane = m.focusPanel()
	}

	var right []string
	if m.MarkdownVisible && !m.Focus.Active {
		right = append(right, views.RenderMarkdown(views.ScheduleMarkdown(m.Schedules), m.outputViewport.Width))
	}
	if p := m.palettePanel(); p != "" {
		right = append(right, p)
	}
	if h := m.renderHelpIfVisible(); h != "" {
		right = append(right, h)
	}

	return views.RenderApp(views.AppData{
		Header:       fmt.Sprintf("timaru | %s | %s", m.Mode, m.periodLabel()),
		LeftPane:     leftPane,
		RightPane:    strings.Join(right, "\n\n"),
		StatusLine:   status,
		StatusError:  m.Status.IsError,
		Notification: m.reminderView(),
		Footer:       fmt.Sprintf("keys: %s/%s/%s mode | h/l period | space done | %s add | %s focus | : cmd | %s help | %s quit", m.Keys.Day, m.Keys.Week, m.Keys.Month, m.Keys.Add, m.Keys.Focus, m.Keys.Help, m.Keys.Quit),
		Width:        m.Width,
	})
}
