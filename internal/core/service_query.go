package core

import (
	"context"
	"math"
	"strings"
)

const (
	DefaultPageSize = 100
	MaxPageSize     = 1000

	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 200

	// MaxSkip is the largest offset the store accepts.
	MaxSkip = math.MaxInt32
)

// GetRegistro returns registro id or ErrNotFound.
func (s *Service) GetRegistro(ctx context.Context, id int64) (Registro, error) {
	return s.store.GetRegistro(ctx, id)
}

// ListRegistros returns a page of registros ordered by id. A non-positive
// limit selects DefaultPageSize; limits above MaxPageSize are capped. skip is
// clamped to [0, MaxSkip].
func (s *Service) ListRegistros(ctx context.Context, skip, limit int, estudio string) (RegistroPage, error) {
	skip = min(max(skip, 0), MaxSkip)
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	regs, total, err := s.store.ListRegistros(ctx, ListFilter{
		Estudio: strings.TrimSpace(estudio),
		Offset:  skip,
		Limit:   limit,
	})
	if err != nil {
		return RegistroPage{}, err
	}

	return RegistroPage{Registros: regs, Total: total, Skip: skip, Limit: limit}, nil
}

// Estudios returns a copy of the recognized study programs.
func (s *Service) Estudios() []string {
	return append([]string(nil), Estudios...)
}

// ImportHistory returns the most recent imports, newest first.
func (s *Service) ImportHistory(ctx context.Context, limit int) ([]ImportRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	return s.store.ListImports(ctx, limit)
}
