package core

import (
	"errors"
	"fmt"
)

// firstDataRow is the display number of the first row below the header.
const firstDataRow = 2

// ImportSheet resolves the header of sheet and validates every data row.
//
// Each row yields exactly one of: a Candidate, an error string, or a silent
// drop when a required cell is blank. A failing row never stops the rows
// after it. If the header does not resolve, the outcome carries a single
// error and no records.
func ImportSheet(sheet SheetData) SheetOutcome {
	out := SheetOutcome{
		Sheet:     sheet.Name,
		TotalRows: len(sheet.Rows),
	}

	cols, err := ResolveColumns(sheet.Header)
	if err != nil {
		out.Errors = []string{err.Error()}
		return out
	}

	for i, row := range sheet.Rows {
		c, err := importRow(i+firstDataRow, row, cols)
		switch {
		case errors.Is(err, errBlankField):
			out.Blank++
		case err != nil:
			out.Errors = append(out.Errors, err.Error())
		default:
			out.Records = append(out.Records, c)
		}
	}

	return out
}

// importRow turns one data row into a Candidate. Panics are recovered into an
// UnexpectedRowError so the sheet keeps going.
func importRow(n int, row []string, cols ColumnMap) (c Candidate, err error) {
	defer func() {
		if r := recover(); r != nil {
			c = Candidate{}
			err = &RowError{Row: n, Kind: UnexpectedRowError, Err: fmt.Errorf("%v", r)}
		}
	}()

	var raw [4]string
	for i, field := range CanonicalFields {
		v, err := parseRequired(cols.Cell(row, field))
		if err != nil {
			return Candidate{}, err
		}
		raw[i] = v
	}

	estudio, err := parseEstudio(raw[3])
	if err != nil {
		return Candidate{}, &RowError{Row: n, Kind: InvalidStudyProgram, Value: estudio, Err: err}
	}

	email, err := parseEmail(raw[2])
	if err != nil {
		return Candidate{}, &RowError{Row: n, Kind: InvalidEmailFormat, Value: raw[2], Err: err}
	}

	return Candidate{
		Row: n,
		RegistroInput: RegistroInput{
			Nombres:   raw[0],
			Apellidos: raw[1],
			Email:     email,
			Estudio:   estudio,
		},
	}, nil
}

// ImportWorkbook imports the requested sheets of wb, in the order given, or
// every sheet in file order when sheets is empty. A name requested twice is
// imported once. Sheet-level problems (absent, unreadable, missing columns)
// only affect that sheet's outcome.
func ImportWorkbook(wb Workbook, sheets []string) []SheetOutcome {
	names := sheets
	if len(names) == 0 {
		names = wb.SheetNames()
	}

	outcomes := make([]SheetOutcome, 0, len(names))
	seen := make(map[string]bool, len(names))

	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true

		data, err := wb.ReadSheet(name)
		switch {
		case errors.Is(err, ErrSheetNotFound):
			outcomes = append(outcomes, sheetFailure(name, fmt.Sprintf("Sheet '%s' does not exist in the file", name)))
		case err != nil:
			outcomes = append(outcomes, sheetFailure(name, fmt.Sprintf("Sheet '%s' could not be read: %v", name, err)))
		default:
			outcomes = append(outcomes, ImportSheet(data))
		}
	}

	return outcomes
}

func sheetFailure(name, msg string) SheetOutcome {
	return SheetOutcome{Sheet: name, Errors: []string{msg}}
}
