package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jeanpaul/proyectos/internal/project"
)

// SheetName is the worksheet the projects are written to.
const SheetName = "Proyectos"

var columns = []string{"ID", "Título", "Investigador principal", "Fecha de inicio", "Estado"}

// WriteXLSX saves projects as a one-sheet workbook with a bold header row.
func WriteXLSX(path string, projects []project.Project) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A1", "E1", bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, p := range projects {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{p.ID, p.Title, p.Investigator, p.StartDate.Display(), p.Status.String()}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", p.ID, err)
		}
	}

	if err := f.SetColWidth(SheetName, "B", "C", 40); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
