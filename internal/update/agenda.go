package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/timaru/internal/format"
	"github.com/sandeepkv93/timaru/internal/model"
	"github.com/sandeepkv93/timaru/internal/planner"
	"github.com/sandeepkv93/timaru/internal/views"
)

func (m Model) handleAgendaKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case m.Keys.Day:
		m.setMode(ModeDay)
	case m.Keys.Week:
		m.setMode(ModeWeek)
	case m.Keys.Month:
		m.setMode(ModeMonth)
	case m.Keys.Today:
		m.Anchor = m.planner.Today()
		m.reload()
	case "h", "left":
		m.shift(-1)
	case "l", "right":
		m.shift(1)
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Rows)-1 {
			m.Cursor++
		}
	case m.Keys.Toggle, "enter":
		m.toggleSelected()
	case m.Keys.Delete:
		m.deleteSelected()
	case m.Keys.Add:
		return m.openPalette(fmt.Sprintf("add -d %s ", format.FormatDate(m.Anchor)))
	case m.Keys.Focus:
		m.enterFocus()
	case m.Keys.Markdown:
		m.MarkdownVisible = !m.MarkdownVisible
	}
	return m, nil
}

func (m *Model) setMode(mode Mode) {
	if !mode.IsValid() {
		return
	}
	m.Mode = mode
	m.Cursor = 0
	m.reload()
	m.Status = StatusBar{Text: fmt.Sprintf("mode: %s", mode)}
}

func (m *Model) shift(delta int) {
	switch m.Mode {
	case ModeWeek:
		m.Anchor = m.Anchor.AddDate(0, 0, 7*delta)
	case ModeMonth:
		m.Anchor = m.Anchor.AddDate(0, delta, 0)
	default:
		m.Anchor = m.Anchor.AddDate(0, 0, delta)
	}
	m.Cursor = 0
	m.reload()
}

// periodDays is the number of days shown from Anchor in the current mode.
func (m Model) periodDays() int {
	switch m.Mode {
	case ModeWeek:
		return 7
	case ModeMonth:
		return planner.MonthDays(m.Anchor)
	default:
		return 1
	}
}

func (m Model) periodLabel() string {
	days := m.periodDays()
	if days <= 1 {
		return fmt.Sprintf("%s (%s)", format.FormatDate(m.Anchor), m.Anchor.Weekday())
	}
	last := m.Anchor.AddDate(0, 0, days-1)
	return fmt.Sprintf("%s .. %s", format.FormatDate(m.Anchor), format.FormatDate(last))
}

// reload reads the period starting at Anchor. Days without a file show up
// empty; nothing is created on disk.
func (m *Model) reload() {
	var (
		schedules []*model.Schedule
		err       error
	)
	switch m.Mode {
	case ModeWeek:
		schedules, err = m.planner.Week(m.Anchor)
	case ModeMonth:
		schedules, err = m.planner.Month(m.Anchor)
	default:
		var s *model.Schedule
		s, err = m.planner.Day(m.Anchor)
		schedules = []*model.Schedule{s}
	}
	if err != nil {
		m.fail(err)
		return
	}

	m.Schedules = schedules
	rows := make([]Row, 0)
	for _, s := range schedules {
		for _, e := range s.Chronological() {
			rows = append(rows, Row{Date: s.Date, Index: e.Index, Task: e.Task})
		}
	}
	m.Rows = rows
	if m.Cursor >= len(m.Rows) {
		m.Cursor = len(m.Rows) - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
}

func (m Model) selected() (Row, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.Rows) {
		return Row{}, false
	}
	return m.Rows[m.Cursor], true
}

func (m *Model) toggleSelected() {
	row, ok := m.selected()
	if !ok {
		return
	}
	task, err := m.planner.ToggleFinished(row.Date, row.Index)
	if err != nil {
		m.fail(err)
		return
	}
	state := "pending"
	if task.Finished {
		state = "done"
	}
	m.Status = StatusBar{Text: fmt.Sprintf("task %d marked %s", row.Index, state)}
	m.afterChange()
}

func (m *Model) deleteSelected() {
	row, ok := m.selected()
	if !ok {
		return
	}
	task, err := m.planner.Remove(row.Date, row.Index)
	if err != nil {
		m.fail(err)
		return
	}
	m.Status = StatusBar{Text: fmt.Sprintf("removed task %d: %s", row.Index, task.Description)}
	m.afterChange()
}

func (m *Model) afterChange() {
	m.reload()
	m.armReminders()
}

func (m *Model) fail(err error) {
	m.LastError = err
	m.Status = StatusBar{Text: err.Error(), IsError: true}
	m.logger.Error("tui action failed", "err", err)
}

func (m Model) agendaPanel() string {
	rows := make([]views.AgendaRow, 0, len(m.Rows))
	for _, r := range m.Rows {
		pomodoro := ""
		if p := r.Task.Pomodoro; p != nil {
			pomodoro = fmt.Sprintf("(%d, %d)", p.Planned, p.Done)
		}
		rows = append(rows, views.AgendaRow{
			Date:     format.FormatDate(r.Date),
			Index:    r.Index,
			Time:     format.FormatTaskTime(r.Task.Time),
			Pomodoro: pomodoro,
			Title:    r.Task.Description,
			Finished: r.Task.Finished,
		})
	}
	return views.RenderAgendaPanel(views.AgendaPanelData{
		Mode:   string(m.Mode),
		Period: m.periodLabel(),
		Rows:   rows,
		Cursor: m.Cursor,
	})
}
