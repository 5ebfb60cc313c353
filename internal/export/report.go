package export

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/jeanpaul/proyectos/internal/project"
)

// Markdown builds a status summary followed by a table of all projects.
func Markdown(projects []project.Project) string {
	var b strings.Builder

	b.WriteString("# Proyectos de investigación\n\n")
	b.WriteString("## Resumen por estado\n\n")
	b.WriteString("| Estado | Proyectos |\n|---|---|\n")

	counts := make(map[project.Status]int, len(project.Statuses))
	for _, p := range projects {
		counts[p.Status]++
	}
	for _, s := range project.Statuses {
		fmt.Fprintf(&b, "| %s | %d |\n", s, counts[s])
	}
	fmt.Fprintf(&b, "| **Total** | **%d** |\n\n", len(projects))

	b.WriteString("## Detalle\n\n")
	if len(projects) == 0 {
		b.WriteString("_No hay proyectos registrados._\n")
		return b.String()
	}
	b.WriteString("| ID | Título | Investigador principal | Inicio | Estado |\n|---|---|---|---|---|\n")
	for _, p := range projects {
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s |\n",
			p.ID, escapeCell(p.Title), escapeCell(p.Investigator), p.StartDate.Display(), p.Status)
	}
	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// RenderReport renders the markdown report for a terminal of the given width.
func RenderReport(projects []project.Project, width int, opts ...glamour.TermRendererOption) (string, error) {
	if width <= 0 {
		width = 80
	}
	if len(opts) == 0 {
		opts = []glamour.TermRendererOption{glamour.WithAutoStyle()}
	}
	opts = append(opts, glamour.WithWordWrap(width))

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("create renderer: %w", err)
	}
	return r.Render(Markdown(projects))
}
