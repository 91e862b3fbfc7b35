package update

import (
	"github.com/charmbracelet/bubbles/key"
)

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return "help:\n" + m.renderHelpView()
}

func (m Model) renderHelpView() string {
	global := toBindings(m.globalBindings())
	contextual := toBindings(m.viewBindings())
	h := m.helpModel
	h.ShowAll = true
	return h.View(helpKeyMap{
		short: append(append([]key.Binding{}, global...), contextual...),
		full:  [][]key.Binding{global, contextual},
	})
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: ":", Action: "command palette"},
		{Key: m.Keys.Help, Action: "toggle help"},
		{Key: m.Keys.Quit, Action: "quit"},
	}
}

func (m Model) viewBindings() []KeyBinding {
	if m.Palette.Active {
		return []KeyBinding{
			{Key: "enter", Action: "run command"},
			{Key: "esc", Action: "close palette"},
		}
	}
	if m.Focus.Active {
		return []KeyBinding{
			{Key: "space", Action: "start/pause timer"},
			{Key: "r", Action: "reset timer"},
			{Key: "n", Action: "next phase"},
			{Key: "esc", Action: "back to agenda"},
		}
	}
	return []KeyBinding{
		{Key: m.Keys.Day + "/" + m.Keys.Week + "/" + m.Keys.Month, Action: "day/week/month"},
		{Key: "h/l", Action: "previous/next period"},
		{Key: m.Keys.Today, Action: "jump to today"},
		{Key: "j/k", Action: "move cursor"},
		{Key: "space", Action: "toggle done"},
		{Key: m.Keys.Delete, Action: "remove task"},
		{Key: m.Keys.Add, Action: "add task"},
		{Key: m.Keys.Focus, Action: "focus on task"},
		{Key: m.Keys.Markdown, Action: "toggle preview"},
	}
}

func toBindings(kbs []KeyBinding) []key.Binding {
	out := make([]key.Binding, 0, len(kbs))
	for _, kb := range kbs {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}
