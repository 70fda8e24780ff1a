package tui

import (
	"agesync/internal/tui/theme"
	"agesync/internal/updater"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

type keyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

var keys = keyMap{
	Confirm: key.NewBinding(
		key.WithKeys("y", "enter"),
		key.WithHelp("y/enter", "write files"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("n", "esc", "q", "ctrl+c"),
		key.WithHelp("n/esc", "cancel"),
	),
}

// PreviewModel shows a plan and asks whether to apply it
type PreviewModel struct {
	viewport  viewport.Model
	content   string
	ready     bool
	Confirmed bool
	Done      bool
}

// NewPreviewModel creates a preview for plan
func NewPreviewModel(plan *updater.Plan) PreviewModel {
	return PreviewModel{content: Summary(plan)}
}

func (m PreviewModel) Init() tea.Cmd {
	return nil
}

func (m PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		width := max(msg.Width-theme.PreviewBox.GetHorizontalFrameSize(), 1)
		height := max(msg.Height-2-theme.PreviewBox.GetVerticalFrameSize(), 1)
		if !m.ready {
			m.viewport = viewport.New(width, height)
			m.viewport.SetContent(m.content)
			m.ready = true
		} else {
			m.viewport.Width = width
			m.viewport.Height = height
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Confirm):
			m.Confirmed = true
			m.Done = true
			return m, tea.Quit
		case key.Matches(msg, keys.Cancel):
			m.Done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m PreviewModel) View() string {
	if !m.ready {
		return m.content
	}
	help := theme.Ok.Render("["+keys.Confirm.Help().Key+"]") + " " + keys.Confirm.Help().Desc + "  " +
		theme.Error.Render("["+keys.Cancel.Help().Key+"]") + " " + keys.Cancel.Help().Desc
	return theme.PreviewBox.Render(m.viewport.View()) + "\n" + theme.StatusBar.Render(help)
}

// Confirm runs the preview and reports whether the user accepted it
func Confirm(plan *updater.Plan, opts ...tea.ProgramOption) (bool, error) {
	final, err := tea.NewProgram(NewPreviewModel(plan), opts...).Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(PreviewModel)
	return ok && m.Confirmed, nil
}
