package core

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingColumns is returned when a header row lacks one or more canonical fields.
	ErrMissingColumns = errors.New("missing required columns")

	// ErrSheetNotFound is returned by Workbook.ReadSheet for an absent sheet.
	ErrSheetNotFound = errors.New("sheet not found")

	ErrInvalidEstudio = errors.New("invalid estudio")
	ErrInvalidEmail   = errors.New("invalid email")

	// ErrEmailTaken is returned when a write would break email uniqueness.
	ErrEmailTaken = errors.New("email already registered")

	ErrNotFound = errors.New("registro not found")

	// ErrUnreadableFile aborts a whole import: the file could not be opened as a workbook.
	ErrUnreadableFile = errors.New("unreadable file")

	ErrUnsupportedFile = errors.New("unsupported file type")
	ErrFileTooLarge    = errors.New("file too large")
	ErrNoFile          = errors.New("no file provided")

	// ErrNoRecords is returned by Export when nothing matches the filter.
	ErrNoRecords = errors.New("no records to export")

	// ErrTooManyImports is returned when all import slots are occupied and the
	// wait timeout expires. Clients should retry after a short delay.
	ErrTooManyImports = errors.New("too many concurrent imports, please try again later")
)

// RowErrorKind classifies a rejected spreadsheet row.
type RowErrorKind int

const (
	InvalidStudyProgram RowErrorKind = iota + 1
	InvalidEmailFormat
	UnexpectedRowError
)

// RowError describes why a single spreadsheet row was rejected.
// Its message is the one reported to the user.
type RowError struct {
	Row   int
	Kind  RowErrorKind
	Value string
	Err   error
}

func (e *RowError) Error() string {
	switch e.Kind {
	case InvalidStudyProgram:
		return fmt.Sprintf("Row %d: Estudio '%s' is not valid. Must be one of: %s",
			e.Row, e.Value, strings.Join(Estudios, ", "))
	case InvalidEmailFormat:
		return fmt.Sprintf("Row %d: Email '%s' is not valid", e.Row, e.Value)
	default:
		return fmt.Sprintf("Row %d: Error processing row - %v", e.Row, e.Err)
	}
}

func (e *RowError) Unwrap() error { return e.Err }

// MissingColumnsError lists the canonical fields no header resolved to.
type MissingColumnsError struct {
	Fields []Field
}

func (e *MissingColumnsError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = string(f)
	}
	return "Missing required columns: " + strings.Join(names, ", ")
}

func (e *MissingColumnsError) Is(target error) bool {
	return target == ErrMissingColumns
}

// FieldProblem is a single invalid field of a CRUD payload.
type FieldProblem struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned when a CRUD payload fails validation.
type ValidationError struct {
	Problems []FieldProblem
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		parts[i] = p.Field + " " + p.Message
	}
	return "invalid registro: " + strings.Join(parts, "; ")
}
