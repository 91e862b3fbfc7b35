package update

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/timaru/internal/views"
)

func (m Model) openPalette(prefill string) (Model, tea.Cmd) {
	m.Palette.Active = true
	m.Palette.Input = prefill
	m.commandInput.SetValue(prefill)
	m.commandInput.CursorEnd()
	m.Status = StatusBar{Text: "command palette active"}
	return m, m.commandInput.Focus()
}

func (m *Model) closePalette() {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
}

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closePalette()
		m.Status = StatusBar{Text: "command palette closed"}
		return m, nil
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand(), nil
	}
	if msg.Type == tea.KeyRunes {
		m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
		m.Palette.Input = m.commandInput.Value()
		return m, nil
	}
	var cmd tea.Cmd
	m.commandInput, cmd = m.commandInput.Update(msg)
	m.Palette.Input = m.commandInput.Value()
	return m, cmd
}

// executePaletteCommand runs the palette input as a command line. Anything
// the command prints goes to the output pane.
func (m Model) executePaletteCommand() Model {
	raw := strings.TrimSpace(m.Palette.Input)
	m.serviceOut.Reset()
	res, err := m.service.Run(raw)
	m.closePalette()
	if err != nil {
		m.fail(err)
		return m
	}

	output := strings.TrimRight(m.serviceOut.String()+res.Message, "\n")
	m.Palette.Output = output
	m.outputViewport.SetContent(output)
	m.outputViewport.GotoTop()

	status := firstLine(res.Message)
	if status == "" {
		status = "ok: " + raw
	}
	m.Status = StatusBar{Text: status}
	m.afterChange()
	return m
}

func (m Model) palettePanel() string {
	output := ""
	if m.Palette.Output != "" {
		output = m.outputViewport.View()
	}
	return views.RenderPalettePanel(views.PalettePanelData{
		Active:    m.Palette.Active,
		InputView: m.commandInput.View(),
		Output:    output,
	})
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
