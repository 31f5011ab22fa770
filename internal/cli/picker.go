package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/jorgebotas/gocyto/pkg/cyrest"
	"github.com/jorgebotas/gocyto/pkg/errors"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// NetworkListModel - Interactive network selection
// =============================================================================

// NetworkListModel is the bubbletea model for choosing a network of the
// current Cytoscape session.
type NetworkListModel struct {
	Networks []cyrest.NetworkName
	Cursor   int
	Selected *cyrest.NetworkName
	Height   int
	Offset   int
}

// NewNetworkListModel creates a network list model.
func NewNetworkListModel(networks []cyrest.NetworkName) NetworkListModel {
	return NetworkListModel{Networks: networks, Height: 15}
}

func (m NetworkListModel) Init() tea.Cmd {
	return nil
}

func (m NetworkListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Networks)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Networks) == 0 {
				return m, tea.Quit
			}
			n := m.Networks[m.Cursor]
			m.Selected = &n
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 3)
	}
	return m, nil
}

func (m NetworkListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Network"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Networks))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		n := m.Networks[i]
		rows = append(rows, []string{cursor, strconv.FormatInt(n.SUID, 10), n.Name})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "SUID", "Name").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styleTableHeader
			case m.Offset+row == m.Cursor:
				return listSelectedStyle
			case col == 1:
				return listDimStyle
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Networks))))

	return b.String()
}

// =============================================================================
// Network resolution
// =============================================================================

// networkFinder is the part of the client used to resolve --network.
type networkFinder interface {
	Networks(ctx context.Context) ([]cyrest.NetworkName, error)
	FindNetwork(ctx context.Context, ref string) (int64, error)
}

// pickNetwork runs the interactive picker. It is a variable so tests can
// replace the terminal program.
var pickNetwork = func(networks []cyrest.NetworkName) (*cyrest.NetworkName, error) {
	final, err := tea.NewProgram(NewNetworkListModel(networks)).Run()
	if err != nil {
		return nil, err
	}
	fm, ok := final.(NetworkListModel)
	if !ok {
		return nil, nil
	}
	return fm.Selected, nil
}

// resolveNetwork returns the SUID for ref (a name or SUID). With no ref the
// only network of the session is used, or the user picks one when stdin is
// a terminal.
func resolveNetwork(ctx context.Context, api networkFinder, ref string) (int64, error) {
	if ref != "" {
		return api.FindNetwork(ctx, ref)
	}

	networks, err := api.Networks(ctx)
	if err != nil {
		return 0, err
	}
	switch {
	case len(networks) == 0:
		return 0, errors.New(errors.ErrCodeNotFound, "the Cytoscape session has no networks")
	case len(networks) == 1:
		printInfo("Using %s (SUID %d)", StyleHighlight.Render(networks[0].Name), networks[0].SUID)
		return networks[0].SUID, nil
	case !isTerminal():
		return 0, errors.New(errors.ErrCodeInvalidInput, "the session has %d networks; choose one with --network", len(networks))
	}

	selected, err := pickNetwork(networks)
	if err != nil {
		return 0, err
	}
	if selected == nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "no network selected")
	}
	return selected.SUID, nil
}
