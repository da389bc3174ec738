package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/registros/internal/database"
)

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// PostgresStore implements Store on a pgx connection pool.
type PostgresStore struct {
	pool    *pgxpool.Pool
	queries *database.Queries
}

// NewPostgresStore creates a store backed by pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{
		pool:    pool,
		queries: database.New(pool),
	}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) BeginBatch(ctx context.Context) (Batch, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return &pgBatch{tx: tx, queries: s.queries.WithTx(tx)}, nil
}

func (s *PostgresStore) GetRegistro(ctx context.Context, id int64) (Registro, error) {
	row, err := s.queries.GetRegistro(ctx, id)
	if err != nil {
		return Registro{}, translateError(err)
	}
	return registroFromRow(row), nil
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (Registro, bool, error) {
	return findByEmail(ctx, s.queries, email)
}

func (s *PostgresStore) CreateRegistro(ctx context.Context, in RegistroInput) (Registro, error) {
	row, err := s.queries.CreateRegistro(ctx, createParams(in))
	if err != nil {
		return Registro{}, translateError(err)
	}
	return registroFromRow(row), nil
}

func (s *PostgresStore) UpdateRegistro(ctx context.Context, id int64, in RegistroInput) (Registro, error) {
	row, err := s.queries.UpdateRegistro(ctx, database.UpdateRegistroParams{
		ID:        id,
		Nombres:   in.Nombres,
		Apellidos: in.Apellidos,
		Email:     in.Email,
		Estudio:   in.Estudio,
	})
	if err != nil {
		return Registro{}, translateError(err)
	}
	return registroFromRow(row), nil
}

func (s *PostgresStore) DeleteRegistro(ctx context.Context, id int64) error {
	n, err := s.queries.DeleteRegistro(ctx, id)
	if err != nil {
		return translateError(err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListRegistros(ctx context.Context, f ListFilter) ([]Registro, int64, error) {
	estudio := toPgText(f.Estudio)

	total, err := s.queries.CountRegistros(ctx, estudio)
	if err != nil {
		return nil, 0, fmt.Errorf("count registros: %w", err)
	}

	rows, err := s.queries.ListRegistros(ctx, database.ListRegistrosParams{
		Estudio: estudio,
		Limit:   int32(f.Limit),
		Offset:  int32(f.Offset),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list registros: %w", err)
	}

	return registrosFromRows(rows), total, nil
}

func (s *PostgresStore) AllRegistros(ctx context.Context, estudio string) ([]Registro, error) {
	rows, err := s.queries.ListAllRegistros(ctx, toPgText(estudio))
	if err != nil {
		return nil, fmt.Errorf("list registros: %w", err)
	}
	return registrosFromRows(rows), nil
}

func (s *PostgresStore) RecordImport(ctx context.Context, rec ImportRecord) error {
	id, err := uuid.Parse(rec.ID)
	if err != nil {
		return fmt.Errorf("import id: %w", err)
	}

	// sheets is NOT NULL; a nil slice would be sent as NULL.
	sheets := rec.Sheets
	if sheets == nil {
		sheets = []string{}
	}

	return s.queries.InsertImport(ctx, database.InsertImportParams{
		ID:         pgtype.UUID{Bytes: id, Valid: true},
		FileName:   rec.FileName,
		Sheets:     sheets,
		Created:    int32(rec.Created),
		Duplicates: int32(rec.Duplicates),
		Errors:     int32(rec.Errors),
		DurationMs: int32(rec.DurationMs),
		IpAddress:  toPgText(rec.IPAddress),
	})
}

func (s *PostgresStore) ListImports(ctx context.Context, limit int) ([]ImportRecord, error) {
	rows, err := s.queries.ListImports(ctx, int32(limit))
	if err != nil {
		return nil, fmt.Errorf("list imports: %w", err)
	}

	out := make([]ImportRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, ImportRecord{
			ID:         uuid.UUID(r.ID.Bytes).String(),
			FileName:   r.FileName,
			Sheets:     r.Sheets,
			Created:    int(r.Created),
			Duplicates: int(r.Duplicates),
			Errors:     int(r.Errors),
			DurationMs: int64(r.DurationMs),
			IPAddress:  r.IpAddress.String,
			ImportedAt: r.ImportedAt.Time,
		})
	}
	return out, nil
}

// pgBatch is a transaction; every Create runs under its own savepoint so a
// failed insert does not abort the transaction.
type pgBatch struct {
	tx      pgx.Tx
	queries *database.Queries
	seq     int
}

func (b *pgBatch) FindByEmail(ctx context.Context, email string) (Registro, bool, error) {
	return findByEmail(ctx, b.queries, email)
}

func (b *pgBatch) Create(ctx context.Context, in RegistroInput) (Registro, error) {
	b.seq++
	savepoint := fmt.Sprintf("sp_%d", b.seq)

	if _, err := b.tx.Exec(ctx, "SAVEPOINT "+savepoint); err != nil {
		return Registro{}, fmt.Errorf("create savepoint: %w", err)
	}

	row, err := b.queries.CreateRegistro(ctx, createParams(in))
	if err != nil {
		_, _ = b.tx.Exec(ctx, "ROLLBACK TO SAVEPOINT "+savepoint)
		return Registro{}, translateError(err)
	}

	_, _ = b.tx.Exec(ctx, "RELEASE SAVEPOINT "+savepoint)
	return registroFromRow(row), nil
}

func (b *pgBatch) Commit(ctx context.Context) error {
	return b.tx.Commit(ctx)
}

func (b *pgBatch) Rollback(ctx context.Context) error {
	err := b.tx.Rollback(ctx)
	if errors.Is(err, pgx.ErrTxClosed) {
		return nil
	}
	return err
}

func findByEmail(ctx context.Context, q *database.Queries, email string) (Registro, bool, error) {
	row, err := q.GetRegistroByEmail(ctx, email)
	if errors.Is(err, pgx.ErrNoRows) {
		return Registro{}, false, nil
	}
	if err != nil {
		return Registro{}, false, fmt.Errorf("find registro by email: %w", err)
	}
	return registroFromRow(row), true, nil
}

// translateError maps driver errors onto the store's sentinel errors.
func translateError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("%w (%s)", ErrEmailTaken, pgErr.ConstraintName)
	}
	return err
}
