package core

// convert.go provides conversions between raw spreadsheet cells, database
// rows and core types.
//
// Cells coming from spreadsheets carry artifacts that users never typed:
//   - Surrounding whitespace
//   - Excel's text formula wrapper (="value"), used to keep leading zeros
//     and written by many CSV exports
//
// Database conversions return pgtype values with Valid=false for empty input,
// allowing the database to handle NULLs appropriately.

import (
	"strings"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/registros/internal/database"
)

// cleanCell trims s and unwraps an Excel text formula (="value").
// Any other formula is left untouched.
func cleanCell(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 3 && strings.HasPrefix(s, `="`) && strings.HasSuffix(s, `"`) {
		s = strings.TrimSpace(s[2 : len(s)-1])
	}
	return s
}

// toPgText converts a string to pgtype.Text.
// Returns invalid if the string is empty or only whitespace.
func toPgText(s string) pgtype.Text {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}

func createParams(in RegistroInput) database.CreateRegistroParams {
	return database.CreateRegistroParams{
		Nombres:   in.Nombres,
		Apellidos: in.Apellidos,
		Email:     in.Email,
		Estudio:   in.Estudio,
	}
}

func registroFromRow(r database.Registro) Registro {
	return Registro{
		ID:            r.ID,
		Nombres:       r.Nombres,
		Apellidos:     r.Apellidos,
		Email:         r.Email,
		Estudio:       r.Estudio,
		FechaRegistro: r.FechaRegistro.Time,
	}
}

func registrosFromRows(rows []database.Registro) []Registro {
	out := make([]Registro, 0, len(rows))
	for _, r := range rows {
		out = append(out, registroFromRow(r))
	}
	return out
}
