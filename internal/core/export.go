package core

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	exportSheet      = "Registros"
	exportDateLayout = "2006-01-02 15:04:05"
	headerFillColor  = "4472C4"
)

var exportHeaders = []any{"ID", "Nombres", "Apellidos", "Email", "Estudio", "Fecha de Registro"}

var exportColumnWidths = map[string]float64{
	"A": 10, "B": 20, "C": 20, "D": 30, "E": 25, "F": 20,
}

// Export renders the registros of estudio (all when empty) as an xlsx
// workbook. It returns ErrNoRecords when nothing matches.
func (s *Service) Export(ctx context.Context, estudio string) ([]byte, error) {
	regs, err := s.store.AllRegistros(ctx, estudio)
	if err != nil {
		return nil, err
	}
	if len(regs) == 0 {
		return nil, ErrNoRecords
	}
	return ExportWorkbook(regs)
}

// ExportFileName is the download name of an export created at t.
func ExportFileName(t time.Time) string {
	return "registros_export_" + t.Format("20060102_150405") + ".xlsx"
}

// ExportWorkbook writes regs to a single-sheet workbook with a styled header row.
func ExportWorkbook(regs []Registro) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	if err := writeHeaderRow(f, exportSheet, exportHeaders); err != nil {
		return nil, err
	}

	for i, r := range regs {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []any{r.ID, r.Nombres, r.Apellidos, r.Email, r.Estudio, r.FechaRegistro.Format(exportDateLayout)}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	for col, width := range exportColumnWidths {
		if err := f.SetColWidth(exportSheet, col, col, width); err != nil {
			return nil, fmt.Errorf("set column width: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// writeHeaderRow writes headers on row 1 in bold white on blue.
func writeHeaderRow(f *excelize.File, sheet string, headers []any) error {
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	style, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerFillColor}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, style)
}
