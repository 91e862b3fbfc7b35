package update

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/timaru/internal/planner"
	"github.com/sandeepkv93/timaru/internal/views"
)

func (m Model) handleFocusKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case " ":
		if m.Focus.Running {
			m.Focus.Running = false
			m.Status = StatusBar{Text: "focus paused"}
			return m, nil
		}
		if m.Focus.RemainingSec <= 0 {
			m.Focus.RemainingSec = m.currentFocusTotal()
		}
		m.Focus.Running = true
		m.Status = StatusBar{Text: "focus running"}
		return m, focusTickCmd()
	case "r":
		m.Focus.Running = false
		m.Focus.RemainingSec = m.currentFocusTotal()
		m.Status = StatusBar{Text: "focus reset"}
		return m, nil
	case "n":
		m.completeFocusPhase()
		return m, nil
	case "esc", m.Keys.Focus:
		m.Focus.Active = false
		m.Focus.Running = false
		m.Status = StatusBar{Text: "focus closed"}
		return m, nil
	}
	return m, nil
}

func (m Model) onFocusTick() (tea.Model, tea.Cmd) {
	if !m.Focus.Running {
		return m, nil
	}
	if m.Focus.RemainingSec > 0 {
		m.Focus.RemainingSec--
	}
	if m.Focus.RemainingSec == 0 {
		m.completeFocusPhase()
		return m, nil
	}
	return m, focusTickCmd()
}

// enterFocus binds the focus timer to the selected task. Switching to another
// task resets the timer.
func (m *Model) enterFocus() {
	row, ok := m.selected()
	if !ok {
		m.Status = StatusBar{Text: "select a task to focus on", IsError: true}
		return
	}
	ref := planner.Ref{Date: row.Date, Index: row.Index}
	if m.Focus.Task == nil || *m.Focus.Task != ref {
		m.Focus.Task = &ref
		m.Focus.Phase = FocusPhaseWork
		m.Focus.RemainingSec = m.Focus.WorkDurationSec
		m.Focus.Running = false
		m.Focus.CompletedPomodoros = 0
	}
	m.Focus.TaskTitle = row.Task.Description
	m.Focus.Active = true
	m.Status = StatusBar{Text: fmt.Sprintf("focus on task %d", row.Index)}
}

// completeFocusPhase ends the current phase. Ending a work phase records a
// finished pomodoro on the task.
func (m *Model) completeFocusPhase() {
	if m.Focus.Phase == FocusPhaseWork {
		m.Focus.CompletedPomodoros++
		if m.Focus.Task != nil {
			task, err := m.planner.CompletePomodoro(m.Focus.Task.Date, m.Focus.Task.Index)
			if err != nil {
				m.fail(fmt.Errorf("record pomodoro: %w", err))
				m.Focus.Running = false
				return
			}
			m.reload()
			m.Status = StatusBar{Text: fmt.Sprintf("pomodoro recorded (%d, %d); break ready", task.Pomodoro.Planned, task.Pomodoro.Done)}
		} else {
			m.Status = StatusBar{Text: "break ready"}
		}
		m.Focus.Phase = FocusPhaseBreak
		m.Focus.RemainingSec = m.Focus.BreakDurationSec
		m.Focus.Running = false
		return
	}
	m.Focus.Phase = FocusPhaseWork
	m.Focus.RemainingSec = m.Focus.WorkDurationSec
	m.Focus.Running = false
	m.Status = StatusBar{Text: "focus block ready"}
}

func (m Model) currentFocusTotal() int {
	if m.Focus.Phase == FocusPhaseBreak {
		return m.Focus.BreakDurationSec
	}
	return m.Focus.WorkDurationSec
}

func (m Model) focusPanel() string {
	total := m.currentFocusTotal()
	pct := 0.0
	if total > 0 {
		pct = float64(total-m.Focus.RemainingSec) / float64(total)
	}
	pomodoro := ""
	if m.Focus.Task != nil {
		for _, r := range m.Rows {
			if r.Date.Equal(m.Focus.Task.Date) && r.Index == m.Focus.Task.Index && r.Task.Pomodoro != nil {
				pomodoro = fmt.Sprintf("%d done of %d planned", r.Task.Pomodoro.Done, r.Task.Pomodoro.Planned)
			}
		}
	}
	if pomodoro == "" && m.Focus.CompletedPomodoros > 0 {
		pomodoro = fmt.Sprintf("%d this session", m.Focus.CompletedPomodoros)
	}
	return views.RenderFocusPanel(views.FocusPanelData{
		TaskTitle:    m.Focus.TaskTitle,
		Phase:        string(m.Focus.Phase),
		Timer:        formatDuration(m.Focus.RemainingSec),
		ProgressView: m.focusProgress.ViewAs(pct),
		Pomodoro:     pomodoro,
		Running:      m.Focus.Running,
	})
}

func focusTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return FocusTickMsg{} })
}

func formatDuration(totalSec int) string {
	if totalSec < 0 {
		totalSec = 0
	}
	return fmt.Sprintf("%02d:%02d", totalSec/60, totalSec%60)
}
