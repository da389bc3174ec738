package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const getRegistro = `-- name: GetRegistro :one
SELECT id, nombres, apellidos, email, estudio, fecha_registro FROM registros
WHERE id = $1
`

func (q *Queries) GetRegistro(ctx context.Context, id int64) (Registro, error) {
	row := q.db.QueryRow(ctx, getRegistro, id)
	var i Registro
	err := row.Scan(
		&i.ID,
		&i.Nombres,
		&i.Apellidos,
		&i.Email,
		&i.Estudio,
		&i.FechaRegistro,
	)
	return i, err
}

const getRegistroByEmail = `-- name: GetRegistroByEmail :one
SELECT id, nombres, apellidos, email, estudio, fecha_registro FROM registros
WHERE email = $1
LIMIT 1
`

func (q *Queries) GetRegistroByEmail(ctx context.Context, email string) (Registro, error) {
	row := q.db.QueryRow(ctx, getRegistroByEmail, email)
	var i Registro
	err := row.Scan(
		&i.ID,
		&i.Nombres,
		&i.Apellidos,
		&i.Email,
		&i.Estudio,
		&i.FechaRegistro,
	)
	return i, err
}

const createRegistro = `-- name: CreateRegistro :one
INSERT INTO registros (nombres, apellidos, email, estudio)
VALUES ($1, $2, $3, $4)
RETURNING id, nombres, apellidos, email, estudio, fecha_registro
`

type CreateRegistroParams struct {
	Nombres   string
	Apellidos string
	Email     string
	Estudio   string
}

func (q *Queries) CreateRegistro(ctx context.Context, arg CreateRegistroParams) (Registro, error) {
	row := q.db.QueryRow(ctx, createRegistro,
		arg.Nombres,
		arg.Apellidos,
		arg.Email,
		arg.Estudio,
	)
	var i Registro
	err := row.Scan(
		&i.ID,
		&i.Nombres,
		&i.Apellidos,
		&i.Email,
		&i.Estudio,
		&i.FechaRegistro,
	)
	return i, err
}

const updateRegistro = `-- name: UpdateRegistro :one
UPDATE registros
SET nombres = $2, apellidos = $3, email = $4, estudio = $5
WHERE id = $1
RETURNING id, nombres, apellidos, email, estudio, fecha_registro
`

type UpdateRegistroParams struct {
	ID        int64
	Nombres   string
	Apellidos string
	Email     string
	Estudio   string
}

func (q *Queries) UpdateRegistro(ctx context.Context, arg UpdateRegistroParams) (Registro, error) {
	row := q.db.QueryRow(ctx, updateRegistro,
		arg.ID,
		arg.Nombres,
		arg.Apellidos,
		arg.Email,
		arg.Estudio,
	)
	var i Registro
	err := row.Scan(
		&i.ID,
		&i.Nombres,
		&i.Apellidos,
		&i.Email,
		&i.Estudio,
		&i.FechaRegistro,
	)
	return i, err
}

const deleteRegistro = `-- name: DeleteRegistro :execrows
DELETE FROM registros
WHERE id = $1
`

func (q *Queries) DeleteRegistro(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.Exec(ctx, deleteRegistro, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const listRegistros = `-- name: ListRegistros :many
SELECT id, nombres, apellidos, email, estudio, fecha_registro FROM registros
WHERE ($1::text IS NULL OR estudio = $1)
ORDER BY id
LIMIT $2 OFFSET $3
`

type ListRegistrosParams struct {
	Estudio pgtype.Text
	Limit   int32
	Offset  int32
}

func (q *Queries) ListRegistros(ctx context.Context, arg ListRegistrosParams) ([]Registro, error) {
	rows, err := q.db.Query(ctx, listRegistros, arg.Estudio, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Registro
	for rows.Next() {
		var i Registro
		if err := rows.Scan(
			&i.ID,
			&i.Nombres,
			&i.Apellidos,
			&i.Email,
			&i.Estudio,
			&i.FechaRegistro,
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

const listAllRegistros = `-- name: ListAllRegistros :many
SELECT id, nombres, apellidos, email, estudio, fecha_registro FROM registros
WHERE ($1::text IS NULL OR estudio = $1)
ORDER BY id
`

func (q *Queries) ListAllRegistros(ctx context.Context, estudio pgtype.Text) ([]Registro, error) {
	rows, err := q.db.Query(ctx, listAllRegistros, estudio)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Registro
	for rows.Next() {
		var i Registro
		if err := rows.Scan(
			&i.ID,
			&i.Nombres,
			&i.Apellidos,
			&i.Email,
			&i.Estudio,
			&i.FechaRegistro,
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

const countRegistros = `-- name: CountRegistros :one
SELECT COUNT(*) FROM registros
WHERE ($1::text IS NULL OR estudio = $1)
`

func (q *Queries) CountRegistros(ctx context.Context, estudio pgtype.Text) (int64, error) {
	row := q.db.QueryRow(ctx, countRegistros, estudio)
	var count int64
	err := row.Scan(&count)
	return count, err
}
