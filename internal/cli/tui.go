package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/fiducial/pkg/elements"
	"github.com/matzehuels/fiducial/pkg/marker"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
	previewStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)
)

// =============================================================================
// ElementListModel - Interactive key selection with grid preview
// =============================================================================

// ElementSelection holds the result of the key selection.
type ElementSelection struct {
	Element elements.Element
	Mode    marker.Mode
	Shape   marker.Shape
}

// ElementListModel is the bubbletea model for interactive key selection.
type ElementListModel struct {
	Elements []elements.Element
	Cursor   int
	Offset   int
	Height   int
	Mode     marker.Mode
	Shape    marker.Shape
	Selected *ElementSelection
}

// NewElementListModel creates a list model starting in the given mode and
// shape.
func NewElementListModel(list []elements.Element, mode marker.Mode, shape marker.Shape) ElementListModel {
	return ElementListModel{
		Elements: list,
		Height:   15,
		Mode:     mode,
		Shape:    shape,
	}
}

func (m ElementListModel) Init() tea.Cmd {
	return nil
}

func (m ElementListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "pgup":
			m.move(-m.Height)
		case "pgdown":
			m.move(m.Height)
		case "home", "g":
			m.move(-len(m.Elements))
		case "end", "G":
			m.move(len(m.Elements))
		case "m":
			if m.Mode == marker.ModeSimple {
				m.Mode = marker.ModeDense
			} else {
				m.Mode = marker.ModeSimple
			}
		case "s":
			if m.Shape == marker.ShapeSquares {
				m.Shape = marker.ShapeMixed
			} else {
				m.Shape = marker.ShapeSquares
			}
		case "enter":
			if len(m.Elements) == 0 {
				return m, nil
			}
			m.Selected = &ElementSelection{Element: m.Elements[m.Cursor], Mode: m.Mode, Shape: m.Shape}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
		m.move(0)
	}
	return m, nil
}

// move shifts the cursor by delta, clamped, keeping it inside the window.
func (m *ElementListModel) move(delta int) {
	if len(m.Elements) == 0 {
		return
	}
	m.Cursor = min(max(m.Cursor+delta, 0), len(m.Elements)-1)
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m ElementListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Key"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  m mode  s shape  ⏎ generate  q quit"))
	b.WriteString("\n\n")

	if len(m.Elements) == 0 {
		b.WriteString(listDimStyle.Render("no keys"))
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Elements))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		e := m.Elements[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, fmt.Sprintf("%3d", e.Number), e.Symbol, e.Name, e.Category.String()})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "#", "Sym", "Name", "Category").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			if col == 4 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, t.Render(), "  ", m.preview()))
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Elements))))

	return b.String()
}

// preview renders the selected key's grid as text.
func (m ElementListModel) preview() string {
	e := m.Elements[m.Cursor]
	g, err := marker.Generate(e.Number, marker.Options{Mode: m.Mode, Shape: m.Shape})
	if err != nil {
		return previewStyle.Render(StyleWarning.Render(err.Error()))
	}

	var b strings.Builder
	b.WriteString(StyleHighlight.Render(fmt.Sprintf("%s  %s", e.Symbol, e.Name)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("%s · %s · hash %s", g.Mode, g.Shape, g.Hash)))
	b.WriteString("\n\n")
	for _, row := range g.Rows() {
		// Double each glyph so cells come out roughly square.
		var line strings.Builder
		for _, r := range row {
			switch r {
			case '.':
				line.WriteString("  ")
			case '#':
				line.WriteString("██")
			default:
				line.WriteRune(r)
				line.WriteRune(' ')
			}
		}
		b.WriteString(line.String())
		b.WriteString("\n")
	}
	return previewStyle.Render(strings.TrimRight(b.String(), "\n"))
}
