package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/skao-tools/arraymodel/pkg/errors"
	"github.com/skao-tools/arraymodel/pkg/telescope"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// stageDescriptions gives the picker a one-line summary per configuration.
var stageDescriptions = map[telescope.Telescope]string{
	telescope.AA0_5:  "4 stations, early verification",
	telescope.AA1:    "18 stations",
	telescope.AA2:    "64 stations",
	telescope.AAStar: "307 stations, science-ready",
	telescope.AA4:    "512 stations, full array",
}

// TelescopeListModel is the bubbletea model for interactive telescope
// configuration selection, used when generate is run without an argument.
type TelescopeListModel struct {
	Telescopes []telescope.Telescope
	Cursor     int
	Selected   *telescope.Telescope
}

// NewTelescopeListModel creates a picker over all configurations.
func NewTelescopeListModel() TelescopeListModel {
	return TelescopeListModel{Telescopes: telescope.All()}
}

func (m TelescopeListModel) Init() tea.Cmd {
	return nil
}

func (m TelescopeListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Telescopes)-1 {
				m.Cursor++
			}
		case "enter":
			m.Selected = &m.Telescopes[m.Cursor]
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m TelescopeListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Telescope Configuration"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	for i, t := range m.Telescopes {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		line := fmt.Sprintf("%s%-8s %s", cursor, t, listDimStyle.Render(stageDescriptions[t]))
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// pickTelescope runs the interactive picker and returns the chosen
// configuration. Quitting without a selection is an INVALID_INPUT error so
// the command aborts cleanly.
func pickTelescope() (telescope.Telescope, error) {
	final, err := tea.NewProgram(NewTelescopeListModel()).Run()
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInternal, err, "telescope picker")
	}
	m, ok := final.(TelescopeListModel)
	if !ok || m.Selected == nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "no telescope selected")
	}
	return *m.Selected, nil
}
