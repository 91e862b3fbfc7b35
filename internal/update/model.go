package update

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/log"
	"github.com/sandeepkv93/timaru/internal/commands"
	"github.com/sandeepkv93/timaru/internal/config"
	"github.com/sandeepkv93/timaru/internal/model"
	"github.com/sandeepkv93/timaru/internal/planner"
	"github.com/sandeepkv93/timaru/internal/scheduler"
)

type Mode string

const (
	ModeDay   Mode = "day"
	ModeWeek  Mode = "week"
	ModeMonth Mode = "month"
)

func (m Mode) IsValid() bool {
	switch m {
	case ModeDay, ModeWeek, ModeMonth:
		return true
	default:
		return false
	}
}

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Day      string
	Week     string
	Month    string
	Today    string
	Toggle   string
	Delete   string
	Add      string
	Focus    string
	Markdown string
	Help     string
	Quit     string
}

// Row is one task of the loaded period, in display order.
type Row struct {
	Date  time.Time
	Index int
	Task  model.Task
}

type FocusPhase string

const (
	FocusPhaseWork  FocusPhase = "work"
	FocusPhaseBreak FocusPhase = "break"
)

type FocusState struct {
	Active             bool
	Task               *planner.Ref
	TaskTitle          string
	WorkDurationSec    int
	BreakDurationSec   int
	RemainingSec       int
	Running            bool
	Phase              FocusPhase
	CompletedPomodoros int
}

type CommandPaletteState struct {
	Active bool
	Input  string
	Output string
}

type Options struct {
	Scheduler    *scheduler.Engine
	Logger       *log.Logger
	FocusWork    time.Duration
	FocusBreak   time.Duration
	ReminderLead time.Duration
}

// OptionsFromConfig carries the timer and reminder settings of cfg.
func OptionsFromConfig(cfg config.RuntimeConfig) Options {
	return Options{
		FocusWork:    time.Duration(cfg.FocusWorkMinutes) * time.Minute,
		FocusBreak:   time.Duration(cfg.FocusBreakMinutes) * time.Minute,
		ReminderLead: time.Duration(cfg.ReminderLead) * time.Minute,
	}
}

type Model struct {
	Mode      Mode
	Anchor    time.Time
	Schedules []*model.Schedule
	Rows      []Row
	Cursor    int

	Focus           FocusState
	Palette         CommandPaletteState
	Reminders       []scheduler.Event
	HelpVisible     bool
	MarkdownVisible bool
	Status          StatusBar
	Keys            GlobalKeyMap
	Quitting        bool
	LastError       error
	Width           int
	Height          int

	planner      *planner.Planner
	service      *commands.Service
	serviceOut   *bytes.Buffer
	scheduler    *scheduler.Engine
	logger       *log.Logger
	reminderLead time.Duration

	commandInput   textinput.Model
	focusProgress  progress.Model
	helpModel      help.Model
	outputViewport viewport.Model
}

type SwitchModeMsg struct {
	Mode Mode
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

// ReloadMsg asks the model to reread the period from disk.
type ReloadMsg struct{}

type FocusTickMsg struct{}

type ReminderDueMsg struct {
	Event scheduler.Event
}

// DayChangedMsg is sent when the local date rolls over.
type DayChangedMsg struct{}

func NewModel(p *planner.Planner, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	out := &bytes.Buffer{}
	m := Model{
		Mode:   ModeDay,
		Anchor: p.Today(),
		Focus: FocusState{
			WorkDurationSec:  25 * 60,
			BreakDurationSec: 5 * 60,
			Phase:            FocusPhaseWork,
		},
		Keys: GlobalKeyMap{
			Day:      "d",
			Week:     "w",
			Month:    "m",
			Today:    "t",
			Toggle:   " ",
			Delete:   "x",
			Add:      "a",
			Focus:    "f",
			Markdown: "v",
			Help:     "?",
			Quit:     "q",
		},
		planner:      p,
		service:      commands.NewService(context.Background(), p, out),
		serviceOut:   out,
		scheduler:    opts.Scheduler,
		logger:       logger,
		reminderLead: opts.ReminderLead,
	}
	if opts.FocusWork > 0 {
		m.Focus.WorkDurationSec = int(opts.FocusWork / time.Second)
	}
	if opts.FocusBreak > 0 {
		m.Focus.BreakDurationSec = int(opts.FocusBreak / time.Second)
	}
	m.Focus.RemainingSec = m.Focus.WorkDurationSec

	m.initBubbleComponents()
	m.reload()
	m.armReminders()
	return m
}

func (m *Model) initBubbleComponents() {
	m.commandInput = textinput.New()
	m.commandInput.Prompt = ":"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48
	m.commandInput.Placeholder = "add -t 9:30 standup"

	m.focusProgress = progress.New(progress.WithDefaultGradient(), progress.WithWidth(40))

	m.helpModel = help.New()

	m.outputViewport = viewport.New(56, 10)
}

// resize keeps the bubbles in step with the terminal size.
func (m *Model) resize(width, height int) {
	m.Width = width
	m.Height = height
	pane := width/2 - 8
	if pane < 24 {
		pane = 24
	}
	m.commandInput.Width = pane
	m.focusProgress.Width = pane
	m.helpModel.Width = width
	m.outputViewport.Width = pane
	if height > 12 {
		m.outputViewport.Height = height / 3
	}
}
