package core

// validation.go holds the per-field parse functions shared by the sheet
// importer and the CRUD operations.
//
// Spreadsheet rows go through parseRequired, parseEstudio and parseEmail, each
// returning the normalized value or a sentinel error. CRUD payloads are
// normalized the same way and then checked with go-playground/validator.

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// errBlankField marks a required cell that is empty or whitespace only.
var errBlankField = errors.New("blank required field")

// parseRequired cleans a cell and rejects it when nothing is left.
func parseRequired(raw string) (string, error) {
	v := cleanCell(raw)
	if v == "" {
		return "", errBlankField
	}
	return v, nil
}

// parseEstudio accepts only exact members of Estudios after trimming.
func parseEstudio(raw string) (string, error) {
	v := strings.TrimSpace(raw)
	if !IsValidEstudio(v) {
		return v, ErrInvalidEstudio
	}
	return v, nil
}

// parseEmail lower-cases and trims the address, which must contain an '@'
// and a '.' somewhere.
func parseEmail(raw string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if !strings.Contains(v, "@") || !strings.Contains(v, ".") {
		return v, ErrInvalidEmail
	}
	return v, nil
}

// normalizeInput trims every field and lower-cases the email.
func normalizeInput(in RegistroInput) RegistroInput {
	return RegistroInput{
		Nombres:   strings.TrimSpace(in.Nombres),
		Apellidos: strings.TrimSpace(in.Apellidos),
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Estudio:   strings.TrimSpace(in.Estudio),
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateInput normalizes a CRUD payload and checks it. Field problems come
// back as *ValidationError; an unknown program wraps ErrInvalidEstudio.
func (s *Service) validateInput(in RegistroInput) (RegistroInput, error) {
	in = normalizeInput(in)

	if err := s.validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return in, fmt.Errorf("validate registro: %w", err)
		}
		problems := make([]FieldProblem, 0, len(verrs))
		for _, fe := range verrs {
			problems = append(problems, FieldProblem{Field: fe.Field(), Message: problemMessage(fe)})
		}
		return in, &ValidationError{Problems: problems}
	}

	if _, err := parseEstudio(in.Estudio); err != nil {
		return in, fmt.Errorf("%w '%s'. Must be one of: %s", ErrInvalidEstudio, in.Estudio, strings.Join(Estudios, ", "))
	}
	return in, nil
}

func problemMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	default:
		return "is not valid"
	}
}
