package cli

import "github.com/charmbracelet/lipgloss"

var (
	// Core palette
	Green     = lipgloss.Color("#00FF41")
	MedGreen  = lipgloss.Color("#00C832")
	DarkGreen = lipgloss.Color("#008F11")
	DimGreen  = lipgloss.Color("#003B00")
	Cyan      = lipgloss.Color("#00D4AA")
	Gold      = lipgloss.Color("#FFD700")
	Red       = lipgloss.Color("#FF4136")
	MidGray   = lipgloss.Color("#3a3a4e")
	White     = lipgloss.Color("#e0e0e0")

	// Section headers
	TitleStyle = lipgloss.NewStyle().
			Foreground(Green).
			Bold(true)

	SeparatorStyle = lipgloss.NewStyle().
			Foreground(DarkGreen)

	// Menu
	MenuItemStyle = lipgloss.NewStyle().
			Foreground(White).
			PaddingLeft(1)

	PromptStyle = lipgloss.NewStyle().
			Foreground(Cyan).
			Bold(true)

	// Feedback
	SuccessStyle = lipgloss.NewStyle().
			Foreground(MedGreen).
			Bold(true)

	WarnStyle = lipgloss.NewStyle().
			Foreground(Gold)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red).
			Bold(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(DimGreen)

	// Table
	HeaderCellStyle = lipgloss.NewStyle().
			Foreground(Green).
			Bold(true).
			Padding(0, 1)

	CellStyle = lipgloss.NewStyle().
			Foreground(White).
			Padding(0, 1)

	TableBorderStyle = lipgloss.NewStyle().
				Foreground(MidGray)
)

// statusStyles colours the Estado column.
var statusStyles = map[string]lipgloss.Style{
	"En planificación": CellStyle.Foreground(Cyan),
	"En curso":         CellStyle.Foreground(Gold),
	"Completado":       CellStyle.Foreground(MedGreen),
	"Cancelado":        CellStyle.Foreground(Red),
}

const ruleWidth = 80
