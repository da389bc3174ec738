package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/JonMunkholm/registros/internal/logging"
)

// CreateRegistro validates in and stores it. The email must not belong to
// another registro.
func (s *Service) CreateRegistro(ctx context.Context, in RegistroInput) (Registro, error) {
	in, err := s.validateInput(in)
	if err != nil {
		return Registro{}, err
	}

	_, found, err := s.store.FindByEmail(ctx, in.Email)
	if err != nil {
		return Registro{}, err
	}
	if found {
		return Registro{}, fmt.Errorf("%w: %s", ErrEmailTaken, in.Email)
	}

	rec, err := s.store.CreateRegistro(ctx, in)
	if err != nil {
		return Registro{}, err
	}

	logging.FromContext(ctx).Info("registro created", "id", rec.ID, "estudio", rec.Estudio)
	return rec, nil
}

// UpdateRegistro replaces the fields of registro id. Keeping the registro's
// own email is allowed; taking another registro's is not.
func (s *Service) UpdateRegistro(ctx context.Context, id int64, in RegistroInput) (Registro, error) {
	in, err := s.validateInput(in)
	if err != nil {
		return Registro{}, err
	}

	existing, err := s.store.GetRegistro(ctx, id)
	if err != nil {
		return Registro{}, err
	}

	if in.Email != existing.Email {
		other, found, err := s.store.FindByEmail(ctx, in.Email)
		if err != nil {
			return Registro{}, err
		}
		if found && other.ID != id {
			return Registro{}, fmt.Errorf("%w: %s", ErrEmailTaken, in.Email)
		}
	}

	rec, err := s.store.UpdateRegistro(ctx, id, in)
	if err != nil {
		return Registro{}, err
	}

	logging.FromContext(ctx).Info("registro updated", "id", rec.ID)
	return rec, nil
}

// DeleteRegistro removes registro id.
func (s *Service) DeleteRegistro(ctx context.Context, id int64) error {
	if err := s.store.DeleteRegistro(ctx, id); err != nil {
		if !errors.Is(err, ErrNotFound) {
			return fmt.Errorf("delete registro %d: %w", id, err)
		}
		return err
	}

	logging.FromContext(ctx).Info("registro deleted", "id", id)
	return nil
}
