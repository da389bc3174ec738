package core

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	templateSheet  = "Plantilla Registros"
	estudiosSheet  = "Estudios Disponibles"
	TemplateFile   = "plantilla_registros.xlsx"
	templateColumn = 25
)

var templateExamples = [][]any{
	{"Juan", "Pérez", "juan.perez@example.com", "Desarrollo Web"},
	{"María", "González", "maria.gonzalez@example.com", "Bases de Datos"},
	{"Carlos", "Rodríguez", "carlos.rodriguez@example.com", "Sistemas"},
}

// Template returns the import template workbook.
func (s *Service) Template() ([]byte, error) {
	return TemplateWorkbook()
}

// TemplateWorkbook builds the import template: a sheet with the canonical
// headers and example rows, and a sheet listing the valid programs.
func TemplateWorkbook() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", templateSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headers := make([]any, len(CanonicalFields))
	for i, field := range CanonicalFields {
		headers[i] = string(field)
	}
	if err := writeHeaderRow(f, templateSheet, headers); err != nil {
		return nil, err
	}

	for i, example := range templateExamples {
		row := example
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(templateSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write example row: %w", err)
		}
	}
	if err := f.SetColWidth(templateSheet, "A", "D", templateColumn); err != nil {
		return nil, fmt.Errorf("set column width: %w", err)
	}

	if _, err := f.NewSheet(estudiosSheet); err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	if err := writeHeaderRow(f, estudiosSheet, []any{"Estudios Válidos"}); err != nil {
		return nil, err
	}
	for i, estudio := range Estudios {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(estudiosSheet, cell, estudio); err != nil {
			return nil, fmt.Errorf("write estudio: %w", err)
		}
	}
	if err := f.SetColWidth(estudiosSheet, "A", "A", 30); err != nil {
		return nil, fmt.Errorf("set column width: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
