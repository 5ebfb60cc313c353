package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/jeanpaul/proyectos/internal/project"
)

const statusColumn = 4

// RenderTable renders projects as a bordered table followed by the total.
func RenderTable(projects []project.Project) string {
	if len(projects) == 0 {
		return WarnStyle.Render("📋 No hay proyectos registrados.")
	}

	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{
			strconv.Itoa(p.ID),
			p.Title,
			p.Investigator,
			p.StartDate.Display(),
			p.Status.String(),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(TableBorderStyle).
		Headers("ID", "Título", "Investigador principal", "Inicio", "Estado").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return HeaderCellStyle
			}
			if col == statusColumn && row >= 0 && row < len(rows) {
				if s, ok := statusStyles[rows[row][col]]; ok {
					return s
				}
			}
			return CellStyle
		})

	var b strings.Builder
	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(HelpStyle.Render(fmt.Sprintf("Total de proyectos: %d", len(projects))))
	return b.String()
}

func header(title string) string {
	rule := SeparatorStyle.Render(strings.Repeat("=", ruleWidth))
	return "\n" + rule + "\n" + TitleStyle.Render(title) + "\n" + rule
}

func statusMenu() string {
	var b strings.Builder
	b.WriteString("\nEstados disponibles:\n")
	for i, s := range project.Statuses {
		b.WriteString(MenuItemStyle.Render(fmt.Sprintf("%d. %s", i+1, s)))
		b.WriteString("\n")
	}
	return b.String()
}
