package core

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// Workbook gives read access to the sheets of an uploaded file.
type Workbook interface {
	// SheetNames lists the sheets in file order.
	SheetNames() []string
	// ReadSheet loads a whole sheet. An absent sheet yields ErrSheetNotFound.
	ReadSheet(name string) (SheetData, error)
	Close() error
}

// OpenWorkbook opens the file at path, choosing the reader by extension.
func OpenWorkbook(path string) (Workbook, error) {
	return OpenNamedWorkbook(path, filepath.Base(path))
}

// OpenNamedWorkbook is OpenWorkbook for a file stored under a different name
// than the one it was uploaded with. A delimited-text file becomes a single
// sheet named after the stem of fileName.
func OpenNamedWorkbook(path, fileName string) (Workbook, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		stem := strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))
		return openCSVWorkbook(path, stem)
	case ".xls":
		return openXLSWorkbook(path)
	default:
		return openExcelWorkbook(path)
	}
}

type excelWorkbook struct {
	file *excelize.File
}

func openExcelWorkbook(path string) (*excelWorkbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	return &excelWorkbook{file: f}, nil
}

func (w *excelWorkbook) SheetNames() []string {
	return w.file.GetSheetList()
}

func (w *excelWorkbook) ReadSheet(name string) (SheetData, error) {
	if !slices.Contains(w.file.GetSheetList(), name) {
		return SheetData{}, fmt.Errorf("%w: %s", ErrSheetNotFound, name)
	}

	rows, err := w.file.GetRows(name)
	if err != nil {
		return SheetData{}, fmt.Errorf("read sheet %s: %w", name, err)
	}

	return splitHeader(name, rows), nil
}

func (w *excelWorkbook) Close() error {
	return w.file.Close()
}

// xlsWorkbook reads the legacy binary (BIFF8) format. Every sheet is parsed
// when the file is opened.
type xlsWorkbook struct {
	file   *os.File
	names  []string
	sheets []*xls.WorkSheet
}

// openXLSWorkbook opens an .xls file. The parser panics on some malformed
// input; that is reported as ErrUnreadableFile.
func openXLSWorkbook(path string) (wb *xlsWorkbook, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrUnreadableFile, r)
		}
		if err != nil {
			f.Close()
			wb = nil
		}
	}()

	book, err := xls.OpenReader(f, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	if book == nil {
		return nil, fmt.Errorf("%w: no workbook stream", ErrUnreadableFile)
	}

	wb = &xlsWorkbook{file: f}
	for i := 0; i < book.NumSheets(); i++ {
		sheet := book.GetSheet(i)
		wb.names = append(wb.names, sheet.Name)
		wb.sheets = append(wb.sheets, sheet)
	}
	return wb, nil
}

func (w *xlsWorkbook) SheetNames() []string {
	return slices.Clone(w.names)
}

func (w *xlsWorkbook) ReadSheet(name string) (data SheetData, err error) {
	i := slices.Index(w.names, name)
	if i < 0 {
		return SheetData{}, fmt.Errorf("%w: %s", ErrSheetNotFound, name)
	}
	defer func() {
		if r := recover(); r != nil {
			data, err = SheetData{}, fmt.Errorf("read sheet %s: %v", name, r)
		}
	}()

	sheet := w.sheets[i]
	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for n := 0; n <= int(sheet.MaxRow); n++ {
		rows = append(rows, xlsRowValues(sheet, n))
	}
	return splitHeader(name, rows), nil
}

func (w *xlsWorkbook) Close() error {
	return w.file.Close()
}

// xlsRowValues returns the cells of row n, nil for a row without cells.
func xlsRowValues(sheet *xls.WorkSheet, n int) []string {
	row := xlsRow(sheet, n)
	if row == nil || row.LastCol() <= 0 {
		return nil
	}
	values := make([]string, row.LastCol())
	for c := row.FirstCol(); c < row.LastCol(); c++ {
		values[c] = row.Col(c)
	}
	return values
}

// xlsRow returns row n or nil. WorkSheet.Row dereferences a missing row.
func xlsRow(sheet *xls.WorkSheet, n int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(n)
}

// csvWorkbook holds a delimited-text file parsed as one sheet.
type csvWorkbook struct {
	sheet SheetData
}

func openCSVWorkbook(path, sheetName string) (*csvWorkbook, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	defer f.Close()

	r := csv.NewReader(newUTF8Sanitizer(skipBOM(f)))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}

	return &csvWorkbook{sheet: splitHeader(sheetName, records)}, nil
}

func (w *csvWorkbook) SheetNames() []string {
	return []string{w.sheet.Name}
}

func (w *csvWorkbook) ReadSheet(name string) (SheetData, error) {
	if name != w.sheet.Name {
		return SheetData{}, fmt.Errorf("%w: %s", ErrSheetNotFound, name)
	}
	return w.sheet, nil
}

func (w *csvWorkbook) Close() error { return nil }

// splitHeader treats the first row as the header and drops trailing rows
// with no content at all.
func splitHeader(name string, rows [][]string) SheetData {
	for len(rows) > 0 && isEmptyRow(rows[len(rows)-1]) {
		rows = rows[:len(rows)-1]
	}
	if len(rows) == 0 {
		return SheetData{Name: name}
	}
	return SheetData{Name: name, Header: rows[0], Rows: rows[1:]}
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
