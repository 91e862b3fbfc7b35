package update

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/timaru/internal/format"
	"github.com/sandeepkv93/timaru/internal/model"
	"github.com/sandeepkv93/timaru/internal/scheduler"
	"github.com/sandeepkv93/timaru/internal/views"
)

const reminderLogSize = 20

func waitForReminderCmd(ch <-chan scheduler.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return ReminderDueMsg{Event: ev}
	}
}

// dayChangeCmd fires once the local date rolls over.
func dayChangeCmd(now time.Time) tea.Cmd {
	next := model.DateOf(now).AddDate(0, 0, 1)
	return tea.Tick(next.Sub(now), func(time.Time) tea.Msg { return DayChangedMsg{} })
}

// armReminders queues a reminder for every upcoming task of today,
// replacing what was queued for today before.
func (m *Model) armReminders() {
	if m.scheduler == nil {
		return
	}
	today := m.planner.Today()
	s, err := m.planner.Day(today)
	if err != nil {
		m.fail(err)
		return
	}
	events := scheduler.EventsFor(s, m.planner.Now(), m.reminderLead)
	if err := m.scheduler.ReplaceDay(today, events); err != nil {
		m.logger.Warn("reminders not armed", "err", err)
		return
	}
	m.logger.Debug("reminders armed", "day", format.FormatDate(today), "count", len(events))
}

func (m *Model) applyReminder(ev scheduler.Event) {
	m.Reminders = append(m.Reminders, ev)
	if len(m.Reminders) > reminderLogSize {
		m.Reminders = m.Reminders[len(m.Reminders)-reminderLogSize:]
	}
	m.Status = StatusBar{Text: "reminder: " + ev.Description}
}

func (m Model) reminderView() string {
	if len(m.Reminders) == 0 {
		return ""
	}
	last := m.Reminders[len(m.Reminders)-1]
	return views.RenderReminder(last.Starts.Format("15:04"), format.FormatDate(last.Date), last.Index, last.Description)
}
