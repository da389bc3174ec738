package coretest

import (
	"testing"

	"github.com/xuri/excelize/v2"
)

// Sheet is one sheet of a workbook built by WorkbookBytes. The first row is
// the header.
type Sheet struct {
	Name string
	Rows [][]string
}

// WorkbookBytes builds an xlsx file holding sheets, in order.
func WorkbookBytes(t testing.TB, sheets ...Sheet) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				t.Fatalf("rename sheet: %v", err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			t.Fatalf("new sheet: %v", err)
		}

		for r, row := range sheet.Rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				t.Fatal(err)
			}
			values := make([]any, len(row))
			for c, v := range row {
				values[c] = v
			}
			if err := f.SetSheetRow(sheet.Name, cell, &values); err != nil {
				t.Fatalf("write row: %v", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

// Header is the canonical header row.
var Header = []string{"nombres", "apellidos", "email", "estudio"}
