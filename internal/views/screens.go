package views

import (
	"fmt"
	"strings"

	"github.com/sandeepkv93/timaru/internal/format"
	"github.com/sandeepkv93/timaru/internal/model"
)

type AgendaRow struct {
	Date     string
	Index    int
	Time     string
	Pomodoro string
	Title    string
	Finished bool
}

type AgendaPanelData struct {
	Mode   string
	Period string
	Rows   []AgendaRow
	Cursor int
}

type FocusPanelData struct {
	TaskTitle    string
	Phase        string
	Timer        string
	ProgressView string
	Pomodoro     string
	Running      bool
}

type PalettePanelData struct {
	Active    bool
	InputView string
	Output    string
}

func RenderAgendaPanel(data AgendaPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s: %s\n", data.Mode, data.Period))
	if len(data.Rows) == 0 {
		b.WriteString("(no tasks)")
		return b.String()
	}

	lastDate := ""
	for i, row := range data.Rows {
		if row.Date != lastDate {
			b.WriteString(fmt.Sprintf("\n%s\n", row.Date))
			lastDate = row.Date
		}
		mark := "[ ]"
		if row.Finished {
			mark = "[X]"
		}
		line := fmt.Sprintf("%3d %s %s", row.Index, mark, row.Time)
		if row.Pomodoro != "" {
			line += " " + row.Pomodoro
		}
		line += " " + row.Title
		if row.Finished {
			line = doneStyle.Render(line)
		}
		if i == data.Cursor {
			b.WriteString(cursorStyle.Render(">") + line + "\n")
		} else {
			b.WriteString(" " + line + "\n")
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderFocusPanel(data FocusPanelData) string {
	var b strings.Builder
	b.WriteString("focus:\n")
	if data.TaskTitle != "" {
		b.WriteString(fmt.Sprintf("task: %s\n", data.TaskTitle))
	} else {
		b.WriteString("task: (none selected)\n")
	}
	b.WriteString(fmt.Sprintf("phase: %s\n", strings.ToUpper(data.Phase)))
	state := "paused"
	if data.Running {
		state = "running"
	}
	b.WriteString(fmt.Sprintf("timer: %s (%s)\n", data.Timer, state))
	b.WriteString(data.ProgressView + "\n")
	if data.Pomodoro != "" {
		b.WriteString(fmt.Sprintf("pomodoros: %s\n", data.Pomodoro))
	}
	b.WriteString("actions: [space]start/pause [r]reset [n]next-phase [esc]leave")
	return b.String()
}

func RenderPalettePanel(data PalettePanelData) string {
	var parts []string
	if data.Active {
		parts = append(parts, data.InputView)
	}
	if strings.TrimSpace(data.Output) != "" {
		parts = append(parts, data.Output)
	}
	return strings.Join(parts, "\n")
}

func RenderReminder(at string, date string, index int, title string) string {
	return fmt.Sprintf("reminder: %s starts at %s (%s #%d)", title, at, date, index)
}

// ScheduleMarkdown lays schedules out as a markdown task list, one heading
// per day that has tasks.
func ScheduleMarkdown(schedules []*model.Schedule) string {
	var b strings.Builder
	for _, s := range schedules {
		if s.Len() == 0 {
			continue
		}
		fmt.Fprintf(&b, "## %s %s\n\n", s.Date.Weekday(), format.FormatDate(s.Date))
		for _, e := range s.Chronological() {
			mark := " "
			if e.Task.Finished {
				mark = "x"
			}
			fmt.Fprintf(&b, "- [%s] **%s** %s", mark, format.FormatTaskTime(e.Task.Time), e.Task.Description)
			if p := e.Task.Pomodoro; p != nil {
				fmt.Fprintf(&b, " _(%d/%d)_", p.Done, p.Planned)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}
