package core

import (
	"time"
)

// Registro is a persisted enrollment record. Email is unique across all registros.
type Registro struct {
	ID            int64     `json:"id"`
	Nombres       string    `json:"nombres"`
	Apellidos     string    `json:"apellidos"`
	Email         string    `json:"email"`
	Estudio       string    `json:"estudio"`
	FechaRegistro time.Time `json:"fecha_registro"`
}

// RegistroInput carries the writable fields of a registro.
type RegistroInput struct {
	Nombres   string `json:"nombres" validate:"required,max=100"`
	Apellidos string `json:"apellidos" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email,max=100"`
	Estudio   string `json:"estudio" validate:"required,max=100"`
}

// Candidate is a spreadsheet row that passed validation but has not been
// reconciled against the store yet.
type Candidate struct {
	Row int `json:"row"` // 1-based spreadsheet row, header included
	RegistroInput
}

// SheetData is one sheet loaded in memory: the header row and the data rows below it.
type SheetData struct {
	Name   string
	Header []string
	Rows   [][]string
}

// SheetOutcome is the result of importing one sheet.
//
// When the header resolves, len(Records) + len(Errors) + Blank == TotalRows.
// A sheet-level failure leaves Records empty and Errors with a single entry.
type SheetOutcome struct {
	Sheet     string      `json:"sheet"`
	Records   []Candidate `json:"records"`
	Errors    []string    `json:"errors"`
	Blank     int         `json:"blank_rows"` // rows dropped because a required cell was empty
	TotalRows int         `json:"total_rows"`
}

// SheetResult is the reconciled outcome of one sheet.
type SheetResult struct {
	Sheet          string     `json:"sheet"`
	TotalRows      int        `json:"total_rows"`
	Valid          int        `json:"valid_rows"`
	Blank          int        `json:"blank_rows"`
	Created        []Registro `json:"created"`
	Duplicates     []string   `json:"duplicates"`
	Errors         []string   `json:"errors"`
	CreatedCount   int        `json:"created_count"`
	DuplicateCount int        `json:"duplicate_count"`
	ErrorCount     int        `json:"error_count"`
}

// ImportTotals aggregates the counts of every sheet of an import.
type ImportTotals struct {
	Processed  int `json:"processed"` // valid candidates handed to reconciliation
	Created    int `json:"created"`
	Duplicates int `json:"duplicates"`
	Errors     int `json:"errors"`
	Blank      int `json:"blank_rows"`
}

// ImportResult is the aggregated outcome of one import, sheets in processing order.
type ImportResult struct {
	ImportID   string        `json:"import_id"`
	FileName   string        `json:"file_name"`
	Success    bool          `json:"success"`
	Message    string        `json:"message"`
	Sheets     []SheetResult `json:"sheets"`
	Totals     ImportTotals  `json:"totals"`
	Duration   time.Duration `json:"-"`
	DurationMs int64         `json:"duration_ms"`
}

// Sheet returns the result for the named sheet.
func (r *ImportResult) Sheet(name string) (SheetResult, bool) {
	for _, s := range r.Sheets {
		if s.Sheet == name {
			return s, true
		}
	}
	return SheetResult{}, false
}

// ImportRecord is an entry of the import history.
type ImportRecord struct {
	ID         string    `json:"id"`
	FileName   string    `json:"file_name"`
	Sheets     []string  `json:"sheets"`
	Created    int       `json:"created"`
	Duplicates int       `json:"duplicates"`
	Errors     int       `json:"errors"`
	DurationMs int64     `json:"duration_ms"`
	IPAddress  string    `json:"ip_address,omitempty"`
	ImportedAt time.Time `json:"imported_at"`
}

// ListFilter selects a page of registros.
type ListFilter struct {
	Estudio string // empty matches every program
	Offset  int
	Limit   int
}

// RegistroPage is one page of registros plus the total matching the filter.
type RegistroPage struct {
	Registros []Registro `json:"registros"`
	Total     int64      `json:"total"`
	Skip      int        `json:"skip"`
	Limit     int        `json:"limit"`
}
