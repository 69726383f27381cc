package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// DocListModel - Interactive example document selection
// =============================================================================

// docEntry describes one selectable example document.
type docEntry struct {
	Name     string // file name without extension
	Title    string // document title
	Elements int
	Source   string
}

// DocListModel is the bubbletea model for interactive example selection.
type DocListModel struct {
	Docs     []docEntry
	Cursor   int
	Selected *docEntry
	Height   int
	Offset   int
}

// NewDocListModel creates a new document list model.
func NewDocListModel(docs []docEntry) DocListModel {
	return DocListModel{
		Docs:   docs,
		Cursor: 0,
		Height: 15,
		Offset: 0,
	}
}

func (m DocListModel) Init() tea.Cmd {
	return nil
}

func (m DocListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Docs)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			doc := m.Docs[m.Cursor]
			m.Selected = &doc
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m DocListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Example"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Docs) {
		end = len(m.Docs)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		doc := m.Docs[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		rows = append(rows, []string{cursor, doc.Name, doc.Title, fmt.Sprintf("%d", doc.Elements)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Example", "Title", "Elements").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			actualIdx := m.Offset + row
			if actualIdx >= len(m.Docs) {
				return lipgloss.NewStyle()
			}

			base := lipgloss.NewStyle()
			isCurrent := actualIdx == m.Cursor
			if isCurrent {
				base = base.Bold(true)
			}
			if col == 3 {
				if isCurrent {
					return base.Foreground(colorGray)
				}
				return base.Foreground(colorDim)
			}
			if isCurrent {
				return base.Foreground(colorCyan)
			}
			return base.Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Docs))))

	return b.String()
}
