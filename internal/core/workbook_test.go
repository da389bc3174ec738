package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"
)

// writeXLSX saves a workbook whose sheets hold the given rows, in order.
func writeXLSX(t *testing.T, path string, sheets []string, rows map[string][][]string) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, name := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				t.Fatal(err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			t.Fatal(err)
		}
		for r, row := range rows[name] {
			cell, _ := excelize.CoordinatesToCellName(1, r+1)
			values := make([]any, len(row))
			for c, v := range row {
				values[c] = v
			}
			if err := f.SetSheetRow(name, cell, &values); err != nil {
				t.Fatal(err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
}

func TestOpenWorkbook_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registros.xlsx")
	writeXLSX(t, path, []string{"Cohort1", "Cohort2"}, map[string][][]string{
		"Cohort1": {
			{"nombres", "apellidos", "email", "estudio"},
			{"Ana", "Soto", "ana@example.com", "Sistemas"},
		},
		"Cohort2": {
			{"Nombre", "Apellido", "Correo", "Programa"},
		},
	})

	wb, err := OpenWorkbook(path)
	if err != nil {
		t.Fatalf("OpenWorkbook() error = %v", err)
	}
	defer wb.Close()

	if diff := cmp.Diff([]string{"Cohort1", "Cohort2"}, wb.SheetNames()); diff != "" {
		t.Errorf("SheetNames() mismatch (-want +got):\n%s", diff)
	}

	sheet, err := wb.ReadSheet("Cohort1")
	if err != nil {
		t.Fatalf("ReadSheet() error = %v", err)
	}
	want := SheetData{
		Name:   "Cohort1",
		Header: []string{"nombres", "apellidos", "email", "estudio"},
		Rows:   [][]string{{"Ana", "Soto", "ana@example.com", "Sistemas"}},
	}
	if diff := cmp.Diff(want, sheet); diff != "" {
		t.Errorf("ReadSheet() mismatch (-want +got):\n%s", diff)
	}

	header, err := wb.ReadSheet("Cohort2")
	if err != nil {
		t.Fatalf("ReadSheet(Cohort2) error = %v", err)
	}
	if len(header.Rows) != 0 {
		t.Errorf("header-only sheet rows = %v", header.Rows)
	}

	if _, err := wb.ReadSheet("Cohort3"); !errors.Is(err, ErrSheetNotFound) {
		t.Errorf("ReadSheet(absent) error = %v, want ErrSheetNotFound", err)
	}
}

func TestOpenWorkbook_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "upload_1234_cohorte.csv")
	data := append([]byte{0xEF, 0xBB, 0xBF}, "nombres,apellidos,email,estudio\r\nJos\xe9,Soto,jose@example.com,Sistemas\r\n,,,\r\n"...)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	wb, err := OpenNamedWorkbook(path, "Cohorte.csv")
	if err != nil {
		t.Fatalf("OpenNamedWorkbook() error = %v", err)
	}
	defer wb.Close()

	if diff := cmp.Diff([]string{"Cohorte"}, wb.SheetNames()); diff != "" {
		t.Errorf("SheetNames() mismatch (-want +got):\n%s", diff)
	}

	sheet, err := wb.ReadSheet("Cohorte")
	if err != nil {
		t.Fatalf("ReadSheet() error = %v", err)
	}
	want := SheetData{
		Name:   "Cohorte",
		Header: []string{"nombres", "apellidos", "email", "estudio"},
		Rows:   [][]string{{"Jos?", "Soto", "jose@example.com", "Sistemas"}},
	}
	if diff := cmp.Diff(want, sheet); diff != "" {
		t.Errorf("ReadSheet() mismatch (-want +got):\n%s", diff)
	}

	if _, err := wb.ReadSheet("Sheet1"); !errors.Is(err, ErrSheetNotFound) {
		t.Errorf("ReadSheet(Sheet1) error = %v, want ErrSheetNotFound", err)
	}
}

// A line longer than the csv reader's buffer puts split runes at every
// possible offset of a read.
func TestOpenWorkbook_CSVLongLine(t *testing.T) {
	for _, pad := range []int{4090, 4091, 4092, 4093, 5000} {
		t.Run(fmt.Sprintf("pad %d", pad), func(t *testing.T) {
			nombre := "Jos" + strings.Repeat("e", pad) + "é"
			path := filepath.Join(t.TempDir(), "largo.csv")
			data := "nombres,apellidos,email,estudio\n" + nombre + ",Pérez,jose@example.com,Sistemas\n"
			if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
				t.Fatal(err)
			}

			wb, err := OpenWorkbook(path)
			if err != nil {
				t.Fatalf("OpenWorkbook() error = %v", err)
			}
			defer wb.Close()

			sheet, err := wb.ReadSheet("largo")
			if err != nil {
				t.Fatalf("ReadSheet() error = %v", err)
			}
			want := [][]string{{nombre, "Pérez", "jose@example.com", "Sistemas"}}
			if diff := cmp.Diff(want, sheet.Rows); diff != "" {
				t.Errorf("rows mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestOpenWorkbook_XLS(t *testing.T) {
	wb, err := OpenWorkbook(filepath.Join("testdata", "registros.xls"))
	if err != nil {
		t.Fatalf("OpenWorkbook() error = %v", err)
	}
	defer wb.Close()

	if diff := cmp.Diff([]string{"Cohort1", "Cohort2"}, wb.SheetNames()); diff != "" {
		t.Errorf("SheetNames() mismatch (-want +got):\n%s", diff)
	}

	sheet, err := wb.ReadSheet("Cohort1")
	if err != nil {
		t.Fatalf("ReadSheet() error = %v", err)
	}
	want := SheetData{
		Name:   "Cohort1",
		Header: []string{"Nombre", "Apellido", "Correo", "Carrera"},
		Rows: [][]string{
			{"José", "Pérez", "JOSE@Example.com", "Sistemas"},
			nil, // no cells on this row
			{"Luis", "Gómez", "luis@example.com", "Medicina"},
		},
	}
	if diff := cmp.Diff(want, sheet); diff != "" {
		t.Errorf("ReadSheet() mismatch (-want +got):\n%s", diff)
	}

	if _, err := wb.ReadSheet("Sheet1"); !errors.Is(err, ErrSheetNotFound) {
		t.Errorf("ReadSheet(Sheet1) error = %v, want ErrSheetNotFound", err)
	}
}

func TestOpenWorkbook_UnreadableXLS(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roto.xls")
	if err := os.WriteFile(path, []byte("not a compound document"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := OpenWorkbook(path); !errors.Is(err, ErrUnreadableFile) {
		t.Errorf("OpenWorkbook() error = %v, want ErrUnreadableFile", err)
	}
}

func TestOpenWorkbook_Unreadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.xlsx")
	if err := os.WriteFile(path, []byte("this is not a zip archive"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := OpenWorkbook(path); !errors.Is(err, ErrUnreadableFile) {
		t.Errorf("OpenWorkbook() error = %v, want ErrUnreadableFile", err)
	}
}
