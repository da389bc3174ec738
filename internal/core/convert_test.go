package core

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/registros/internal/database"
)

func TestCleanCell(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "simple string unchanged",
			input: "Ana",
			want:  "Ana",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "surrounded by whitespace",
			input: "  Ana  ",
			want:  "Ana",
		},
		{
			name:  "Excel text formula",
			input: `="ana@example.com"`,
			want:  "ana@example.com",
		},
		{
			name:  "Excel text formula with padding",
			input: ` =" Sistemas " `,
			want:  "Sistemas",
		},
		{
			name:  "empty Excel text formula",
			input: `=""`,
			want:  "",
		},
		{
			name:  "other formula untouched",
			input: "=A1&B1",
			want:  "=A1&B1",
		},
		{
			name:  "apostrophe kept",
			input: "O'Brien",
			want:  "O'Brien",
		},
		{
			name:  "lone quote after equals",
			input: `="`,
			want:  `="`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanCell(tt.input); got != tt.want {
				t.Errorf("cleanCell(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestToPgText(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantValid bool
		wantStr   string
	}{
		{"normal string", "Sistemas", true, "Sistemas"},
		{"trimmed", "  Sistemas  ", true, "Sistemas"},
		{"empty", "", false, ""},
		{"whitespace only", " \t\n", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := toPgText(tt.input)
			if got.Valid != tt.wantValid || got.String != tt.wantStr {
				t.Errorf("toPgText(%q) = %+v, want valid=%v %q", tt.input, got, tt.wantValid, tt.wantStr)
			}
		})
	}
}

func TestRegistroFromRow(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	row := database.Registro{
		ID:            7,
		Nombres:       "Ana",
		Apellidos:     "Pérez",
		Email:         "ana@example.com",
		Estudio:       "Sistemas",
		FechaRegistro: pgtype.Timestamptz{Time: at, Valid: true},
	}

	got := registroFromRow(row)
	if got.ID != 7 || got.Email != "ana@example.com" || !got.FechaRegistro.Equal(at) {
		t.Errorf("registroFromRow() = %+v", got)
	}

	if regs := registrosFromRows(nil); regs == nil || len(regs) != 0 {
		t.Errorf("registrosFromRows(nil) = %#v, want empty non-nil slice", regs)
	}
}
