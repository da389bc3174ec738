package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const insertImport = `-- name: InsertImport :exec
INSERT INTO imports (id, file_name, sheets, created, duplicates, errors, duration_ms, ip_address)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

type InsertImportParams struct {
	ID         pgtype.UUID
	FileName   string
	Sheets     []string
	Created    int32
	Duplicates int32
	Errors     int32
	DurationMs int32
	IpAddress  pgtype.Text
}

func (q *Queries) InsertImport(ctx context.Context, arg InsertImportParams) error {
	_, err := q.db.Exec(ctx, insertImport,
		arg.ID,
		arg.FileName,
		arg.Sheets,
		arg.Created,
		arg.Duplicates,
		arg.Errors,
		arg.DurationMs,
		arg.IpAddress,
	)
	return err
}

const listImports = `-- name: ListImports :many
SELECT id, file_name, sheets, created, duplicates, errors, duration_ms, ip_address, imported_at
FROM imports
ORDER BY imported_at DESC
LIMIT $1
`

func (q *Queries) ListImports(ctx context.Context, limit int32) ([]Import, error) {
	rows, err := q.db.Query(ctx, listImports, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Import
	for rows.Next() {
		var i Import
		if err := rows.Scan(
			&i.ID,
			&i.FileName,
			&i.Sheets,
			&i.Created,
			&i.Duplicates,
			&i.Errors,
			&i.DurationMs,
			&i.IpAddress,
			&i.ImportedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
