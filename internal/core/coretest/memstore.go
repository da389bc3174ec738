// Package coretest provides an in-memory core.Store for tests.
package coretest

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/JonMunkholm/registros/internal/core"
)

// MemStore is a core.Store kept in memory. Batches write through immediately
// and undo their creates on Rollback.
type MemStore struct {
	mu      sync.Mutex
	nextID  int64
	byID    map[int64]core.Registro
	imports []core.ImportRecord

	// CreateErr, when set, is consulted before every create. A non-nil
	// result fails that create.
	CreateErr func(in core.RegistroInput) error
	// CommitErr fails every batch commit.
	CommitErr error
	// PingErr is returned by Ping.
	PingErr error

	Commits   int
	Rollbacks int
}

// NewMemStore returns an empty store.
func NewMemStore() *MemStore {
	return &MemStore{byID: make(map[int64]core.Registro)}
}

// Seed stores registros directly, bypassing validation.
func (s *MemStore) Seed(inputs ...core.RegistroInput) []core.Registro {
	out := make([]core.Registro, 0, len(inputs))
	for _, in := range inputs {
		rec, err := s.CreateRegistro(context.Background(), in)
		if err != nil {
			panic(fmt.Sprintf("seed %s: %v", in.Email, err))
		}
		out = append(out, rec)
	}
	return out
}

// Registros returns every stored registro ordered by id.
func (s *MemStore) Registros() []core.Registro {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedLocked("")
}

// Imports returns the recorded imports in insertion order.
func (s *MemStore) Imports() []core.ImportRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.ImportRecord(nil), s.imports...)
}

func (s *MemStore) Ping(ctx context.Context) error { return s.PingErr }

func (s *MemStore) BeginBatch(ctx context.Context) (core.Batch, error) {
	return &memBatch{store: s}, nil
}

func (s *MemStore) GetRegistro(ctx context.Context, id int64) (core.Registro, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.byID[id]
	if !ok {
		return core.Registro{}, core.ErrNotFound
	}
	return rec, nil
}

func (s *MemStore) FindByEmail(ctx context.Context, email string) (core.Registro, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.findLocked(email)
	return rec, ok, nil
}

func (s *MemStore) CreateRegistro(ctx context.Context, in core.RegistroInput) (core.Registro, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createLocked(in)
}

func (s *MemStore) UpdateRegistro(ctx context.Context, id int64, in core.RegistroInput) (core.Registro, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.byID[id]
	if !ok {
		return core.Registro{}, core.ErrNotFound
	}
	if other, found := s.findLocked(in.Email); found && other.ID != id {
		return core.Registro{}, fmt.Errorf("%w (registros_email_key)", core.ErrEmailTaken)
	}

	rec.Nombres, rec.Apellidos, rec.Email, rec.Estudio = in.Nombres, in.Apellidos, in.Email, in.Estudio
	s.byID[id] = rec
	return rec, nil
}

func (s *MemStore) DeleteRegistro(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return core.ErrNotFound
	}
	delete(s.byID, id)
	return nil
}

func (s *MemStore) ListRegistros(ctx context.Context, f core.ListFilter) ([]core.Registro, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.sortedLocked(f.Estudio)
	total := int64(len(all))

	start := min(f.Offset, len(all))
	end := len(all)
	if f.Limit > 0 {
		end = min(start+f.Limit, len(all))
	}
	return all[start:end], total, nil
}

func (s *MemStore) AllRegistros(ctx context.Context, estudio string) ([]core.Registro, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedLocked(estudio), nil
}

func (s *MemStore) RecordImport(ctx context.Context, rec core.ImportRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.ImportedAt.IsZero() {
		rec.ImportedAt = time.Now()
	}
	s.imports = append(s.imports, rec)
	return nil
}

func (s *MemStore) ListImports(ctx context.Context, limit int) ([]core.ImportRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.ImportRecord, 0, len(s.imports))
	for i := len(s.imports) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.imports[i])
	}
	return out, nil
}

func (s *MemStore) createLocked(in core.RegistroInput) (core.Registro, error) {
	if s.CreateErr != nil {
		if err := s.CreateErr(in); err != nil {
			return core.Registro{}, err
		}
	}
	if _, found := s.findLocked(in.Email); found {
		return core.Registro{}, fmt.Errorf("%w (registros_email_key)", core.ErrEmailTaken)
	}

	s.nextID++
	rec := core.Registro{
		ID:            s.nextID,
		Nombres:       in.Nombres,
		Apellidos:     in.Apellidos,
		Email:         in.Email,
		Estudio:       in.Estudio,
		FechaRegistro: time.Now().UTC().Truncate(time.Second),
	}
	s.byID[rec.ID] = rec
	return rec, nil
}

func (s *MemStore) findLocked(email string) (core.Registro, bool) {
	for _, rec := range s.byID {
		if rec.Email == email {
			return rec, true
		}
	}
	return core.Registro{}, false
}

func (s *MemStore) sortedLocked(estudio string) []core.Registro {
	out := make([]core.Registro, 0, len(s.byID))
	for _, rec := range s.byID {
		if estudio == "" || rec.Estudio == estudio {
			out = append(out, rec)
		}
	}
	slices.SortFunc(out, func(a, b core.Registro) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

type memBatch struct {
	store   *MemStore
	created []int64
	done    bool
}

func (b *memBatch) FindByEmail(ctx context.Context, email string) (core.Registro, bool, error) {
	return b.store.FindByEmail(ctx, email)
}

func (b *memBatch) Create(ctx context.Context, in core.RegistroInput) (core.Registro, error) {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()

	rec, err := b.store.createLocked(in)
	if err != nil {
		return core.Registro{}, err
	}
	b.created = append(b.created, rec.ID)
	return rec, nil
}

func (b *memBatch) Commit(ctx context.Context) error {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()

	if b.store.CommitErr != nil {
		return b.store.CommitErr
	}
	b.done = true
	b.store.Commits++
	return nil
}

func (b *memBatch) Rollback(ctx context.Context) error {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()

	if b.done {
		return nil
	}
	b.done = true
	for _, id := range b.created {
		delete(b.store.byID, id)
	}
	b.store.Rollbacks++
	return nil
}
