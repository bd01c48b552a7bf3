package report

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).MarginTop(1)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	emptyStyle  = lipgloss.NewStyle().Faint(true)
)

// Render draws t as a bordered terminal table under its title.
func Render(t *Table) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(t.Title))
	b.WriteString("\n")

	if len(t.Rows) == 0 {
		b.WriteString(emptyStyle.Render("(no rows)"))
		b.WriteString("\n")
		return b.String()
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(t.Columns...).
		Rows(t.Strings()...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	b.WriteString(tbl.Render())
	b.WriteString("\n")
	return b.String()
}
