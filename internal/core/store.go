package core

import "context"

// Store is the persistence collaborator of the service. Implementations must
// keep email unique and report violations as ErrEmailTaken, and report
// missing registros as ErrNotFound.
type Store interface {
	// BeginBatch opens the unit of work an import reconciles into.
	BeginBatch(ctx context.Context) (Batch, error)

	GetRegistro(ctx context.Context, id int64) (Registro, error)
	// FindByEmail reports whether a registro with email exists.
	FindByEmail(ctx context.Context, email string) (Registro, bool, error)
	CreateRegistro(ctx context.Context, in RegistroInput) (Registro, error)
	UpdateRegistro(ctx context.Context, id int64, in RegistroInput) (Registro, error)
	DeleteRegistro(ctx context.Context, id int64) error
	// ListRegistros returns one page ordered by id and the total matching the filter.
	ListRegistros(ctx context.Context, f ListFilter) ([]Registro, int64, error)
	// AllRegistros returns every registro of estudio, or every registro when estudio is empty.
	AllRegistros(ctx context.Context, estudio string) ([]Registro, error)

	RecordImport(ctx context.Context, rec ImportRecord) error
	ListImports(ctx context.Context, limit int) ([]ImportRecord, error)

	Ping(ctx context.Context) error
}

// Batch is a unit of work. Reads through a batch see the registros created
// earlier in the same batch. A failed Create leaves the batch usable.
// Rollback after Commit is a no-op.
type Batch interface {
	FindByEmail(ctx context.Context, email string) (Registro, bool, error)
	Create(ctx context.Context, in RegistroInput) (Registro, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
