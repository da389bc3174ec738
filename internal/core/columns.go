package core

import "strings"

// Field is one of the four canonical registro fields a sheet must supply.
type Field string

const (
	FieldNombres   Field = "nombres"
	FieldApellidos Field = "apellidos"
	FieldEmail     Field = "email"
	FieldEstudio   Field = "estudio"
)

// CanonicalFields is the resolution order. When a header could serve two
// fields, the earlier field claims it.
var CanonicalFields = []Field{FieldNombres, FieldApellidos, FieldEmail, FieldEstudio}

// columnSynonyms lists the accepted header names per field, normalized
// (trimmed, lower-case).
var columnSynonyms = map[Field][]string{
	FieldNombres:   {"nombres", "nombre", "first_name", "firstname"},
	FieldApellidos: {"apellidos", "apellido", "last_name", "lastname"},
	FieldEmail:     {"email", "correo", "e-mail", "mail"},
	FieldEstudio:   {"estudio", "estudios", "carrera", "programa", "course"},
}

// Column is the header cell that supplies a field and its position in the row.
type Column struct {
	Header string
	Index  int
}

// ColumnMap maps every canonical field to the column supplying it.
type ColumnMap map[Field]Column

// ResolveColumns maps a raw header row onto the canonical fields. Headers are
// compared trimmed and lower-cased; extra columns are ignored. If any field
// has no matching header the result is a *MissingColumnsError listing all of them.
func ResolveColumns(header []string) (ColumnMap, error) {
	normalized := make([]string, len(header))
	for i, h := range header {
		normalized[i] = normalizeHeader(h)
	}

	cols := make(ColumnMap, len(CanonicalFields))
	claimed := make(map[int]bool, len(CanonicalFields))
	var missing []Field

	for _, field := range CanonicalFields {
		idx := matchHeader(normalized, columnSynonyms[field], claimed)
		if idx < 0 {
			missing = append(missing, field)
			continue
		}
		claimed[idx] = true
		cols[field] = Column{Header: header[idx], Index: idx}
	}

	if len(missing) > 0 {
		return nil, &MissingColumnsError{Fields: missing}
	}
	return cols, nil
}

// matchHeader returns the position of the first unclaimed header that is one
// of synonyms, or -1.
func matchHeader(headers, synonyms []string, claimed map[int]bool) int {
	for i, h := range headers {
		if claimed[i] {
			continue
		}
		for _, s := range synonyms {
			if h == s {
				return i
			}
		}
	}
	return -1
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
}

// Cell returns the raw value of field in row, or "" when the row is shorter
// than the header.
func (m ColumnMap) Cell(row []string, field Field) string {
	col, ok := m[field]
	if !ok || col.Index >= len(row) {
		return ""
	}
	return row[col.Index]
}
