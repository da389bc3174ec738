package database

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Registro struct {
	ID            int64
	Nombres       string
	Apellidos     string
	Email         string
	Estudio       string
	FechaRegistro pgtype.Timestamptz
}

type Import struct {
	ID         pgtype.UUID
	FileName   string
	Sheets     []string
	Created    int32
	Duplicates int32
	Errors     int32
	DurationMs int32
	IpAddress  pgtype.Text
	ImportedAt pgtype.Timestamptz
}
