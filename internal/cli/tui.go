package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/procflow/pkg/layout"
)

// =============================================================================
// EdgeTableModel - Interactive edge browser
// =============================================================================

// EdgeTableModel is the bubbletea model of the inspect command: a scrolling
// table of a diagram's edges with their routing details.
type EdgeTableModel struct {
	Diagram *layout.Diagram
	Cursor  int
	Height  int
	Offset  int

	// UnroutedOnly hides edges that were routed.
	UnroutedOnly bool
}

// NewEdgeTableModel creates a new edge table model.
func NewEdgeTableModel(d *layout.Diagram) EdgeTableModel {
	return EdgeTableModel{Diagram: d, Height: 15}
}

// edges returns the rows currently shown.
func (m EdgeTableModel) edges() []layout.Edge {
	if !m.UnroutedOnly {
		return m.Diagram.Edges
	}
	var out []layout.Edge
	for _, e := range m.Diagram.Edges {
		if e.Absent {
			out = append(out, e)
		}
	}
	return out
}

func (m EdgeTableModel) Init() tea.Cmd {
	return nil
}

func (m EdgeTableModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		n := len(m.edges())
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
			if m.Cursor < n-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "u":
			m.UnroutedOnly = !m.UnroutedOnly
			m.Cursor, m.Offset = 0, 0
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m EdgeTableModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("%s diagram", m.Diagram.Mode)))
	b.WriteString(" ")
	b.WriteString(StyleDim.Render(fmt.Sprintf("%d nodes · %d edges · %d unrouted",
		len(m.Diagram.Nodes), len(m.Diagram.Edges), m.Diagram.Unrouted)))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ navigate  u unrouted only  q quit"))
	b.WriteString("\n\n")

	edges := m.edges()
	end := m.Offset + m.Height
	if end > len(edges) {
		end = len(edges)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, append([]string{cursor}, edgeRow(edges[i])...))
	}

	t := edgeTable(rows).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return lipgloss.NewStyle().Foreground(colorGray).Bold(true)
			}
			idx := m.Offset + row
			if idx >= len(edges) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			if edges[idx].Absent {
				base = base.Foreground(colorRed)
			}
			if idx == m.Cursor {
				return base.Bold(true).Foreground(colorCyan)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	if len(edges) > 0 && m.Cursor < len(edges) {
		if e := edges[m.Cursor]; e.Absent {
			b.WriteString(StyleWarning.Render("  " + e.Reason))
			b.WriteString("\n")
		}
	}
	b.WriteString(StyleDim.Render(fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(edges)), len(edges))))

	return b.String()
}

// =============================================================================
// Table Helpers
// =============================================================================

func edgeTable(rows [][]string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Edge", "Kind", "Strategy", "Sides", "Quadrant", "Direction").
		Rows(rows...)
}

// edgeRow formats e for the edge table, without the cursor column.
func edgeRow(e layout.Edge) []string {
	if e.Absent {
		return []string{e.ID, string(e.Kind), "-", "-", "-", "unrouted"}
	}
	sides := "-"
	if e.StartSide.String() != "" || e.EndSide.String() != "" {
		sides = dash(e.StartSide.String()) + "→" + dash(e.EndSide.String())
	}
	return []string{
		e.ID,
		string(e.Kind),
		dash(string(e.Strategy)),
		sides,
		dash(e.Quadrant.String()),
		dash(string(e.Direction)),
	}
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// =============================================================================
// Command
// =============================================================================

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "inspect [layout.json]",
		Short: "Browse the edges of a layout",
		Long: `Browse the edges of a layout interactively.

Each row shows the routing strategy, attachment sides, quadrant and
direction of an edge. Unrouted edges are highlighted with the reason.
Use --plain to print the table without the interactive view.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := layout.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("load layout %s: %w", args[0], err)
			}
			if plain {
				rows := make([][]string, 0, len(d.Edges))
				for _, e := range d.Edges {
					rows = append(rows, append([]string{""}, edgeRow(e)...))
				}
				fmt.Fprintln(cmd.OutOrStdout(), edgeTable(rows).Render())
				return nil
			}
			_, err = tea.NewProgram(NewEdgeTableModel(d), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print the table and exit")
	return cmd
}
