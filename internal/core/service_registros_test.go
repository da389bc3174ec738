package core_test

import (
	"bytes"
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/registros/internal/core"
)

func validInput() core.RegistroInput {
	return core.RegistroInput{
		Nombres:   "  Ana ",
		Apellidos: "Soto",
		Email:     " Ana.Soto@Example.com",
		Estudio:   "Sistemas",
	}
}

func TestCreateRegistro_Normalizes(t *testing.T) {
	env := newTestEnv(t)

	rec, err := env.svc.CreateRegistro(context.Background(), validInput())
	if err != nil {
		t.Fatalf("CreateRegistro() error = %v", err)
	}
	if rec.ID == 0 || rec.FechaRegistro.IsZero() {
		t.Errorf("store did not assign id/timestamp: %+v", rec)
	}
	if rec.Nombres != "Ana" || rec.Email != "ana.soto@example.com" {
		t.Errorf("registro not normalized: %+v", rec)
	}
}

func TestCreateRegistro_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*core.RegistroInput)
		wantErr error
	}{
		{"invalid estudio", func(in *core.RegistroInput) { in.Estudio = "Medicina" }, core.ErrInvalidEstudio},
		{"email taken", func(in *core.RegistroInput) { in.Email = "TAKEN@example.com" }, core.ErrEmailTaken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.store.Seed(core.RegistroInput{Nombres: "X", Apellidos: "Y", Email: "taken@example.com", Estudio: "Sistemas"})

			in := validInput()
			tt.mutate(&in)
			if _, err := env.svc.CreateRegistro(context.Background(), in); !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateRegistro_ValidationProblems(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.CreateRegistro(context.Background(), core.RegistroInput{
		Nombres: "   ",
		Email:   "not-an-email",
		Estudio: "Sistemas",
	})

	var verr *core.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want *ValidationError", err)
	}
	want := []core.FieldProblem{
		{Field: "nombres", Message: "is required"},
		{Field: "apellidos", Message: "is required"},
		{Field: "email", Message: "must be a valid email address"},
	}
	if diff := cmp.Diff(want, verr.Problems); diff != "" {
		t.Errorf("problems mismatch (-want +got):\n%s", diff)
	}
}

func TestUpdateRegistro(t *testing.T) {
	env := newTestEnv(t)
	seeded := env.store.Seed(
		core.RegistroInput{Nombres: "Ana", Apellidos: "Soto", Email: "ana@example.com", Estudio: "Sistemas"},
		core.RegistroInput{Nombres: "Luis", Apellidos: "Mora", Email: "luis@example.com", Estudio: "Sistemas"},
	)
	ctx := context.Background()

	t.Run("keeps own email", func(t *testing.T) {
		rec, err := env.svc.UpdateRegistro(ctx, seeded[0].ID, core.RegistroInput{
			Nombres: "Ana María", Apellidos: "Soto", Email: "ANA@example.com", Estudio: "Contabilidad",
		})
		if err != nil {
			t.Fatalf("UpdateRegistro() error = %v", err)
		}
		if rec.Nombres != "Ana María" || rec.Estudio != "Contabilidad" {
			t.Errorf("registro = %+v", rec)
		}
	})

	t.Run("cannot take another email", func(t *testing.T) {
		_, err := env.svc.UpdateRegistro(ctx, seeded[0].ID, core.RegistroInput{
			Nombres: "Ana", Apellidos: "Soto", Email: "luis@example.com", Estudio: "Sistemas",
		})
		if !errors.Is(err, core.ErrEmailTaken) {
			t.Errorf("error = %v, want ErrEmailTaken", err)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := env.svc.UpdateRegistro(ctx, 999, validInput())
		if !errors.Is(err, core.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})
}

func TestDeleteRegistro(t *testing.T) {
	env := newTestEnv(t)
	seeded := env.store.Seed(core.RegistroInput{Nombres: "Ana", Apellidos: "Soto", Email: "ana@example.com", Estudio: "Sistemas"})
	ctx := context.Background()

	if err := env.svc.DeleteRegistro(ctx, seeded[0].ID); err != nil {
		t.Fatalf("DeleteRegistro() error = %v", err)
	}
	if _, err := env.svc.GetRegistro(ctx, seeded[0].ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("GetRegistro after delete error = %v, want ErrNotFound", err)
	}
	if err := env.svc.DeleteRegistro(ctx, seeded[0].ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("second DeleteRegistro error = %v, want ErrNotFound", err)
	}
}

func TestListRegistros(t *testing.T) {
	env := newTestEnv(t)
	env.store.Seed(
		core.RegistroInput{Nombres: "A", Apellidos: "A", Email: "a@example.com", Estudio: "Sistemas"},
		core.RegistroInput{Nombres: "B", Apellidos: "B", Email: "b@example.com", Estudio: "Contabilidad"},
		core.RegistroInput{Nombres: "C", Apellidos: "C", Email: "c@example.com", Estudio: "Sistemas"},
	)
	ctx := context.Background()

	tests := []struct {
		name       string
		skip       int
		limit      int
		estudio    string
		wantEmails []string
		wantTotal  int64
		wantLimit  int
	}{
		{"default page", 0, 0, "", []string{"a@example.com", "b@example.com", "c@example.com"}, 3, core.DefaultPageSize},
		{"skip and limit", 1, 1, "", []string{"b@example.com"}, 3, 1},
		{"estudio filter", 0, 10, "Sistemas", []string{"a@example.com", "c@example.com"}, 2, 10},
		{"limit capped", -5, 5000, "", []string{"a@example.com", "b@example.com", "c@example.com"}, 3, core.MaxPageSize},
		{"skip past the end", 10, 10, "", nil, 3, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := env.svc.ListRegistros(ctx, tt.skip, tt.limit, tt.estudio)
			if err != nil {
				t.Fatalf("ListRegistros() error = %v", err)
			}
			var emails []string
			for _, r := range page.Registros {
				emails = append(emails, r.Email)
			}
			if diff := cmp.Diff(tt.wantEmails, emails); diff != "" {
				t.Errorf("emails mismatch (-want +got):\n%s", diff)
			}
			if page.Total != tt.wantTotal || page.Limit != tt.wantLimit {
				t.Errorf("Total = %d, Limit = %d", page.Total, page.Limit)
			}
		})
	}
}

func TestListRegistros_SkipClamped(t *testing.T) {
	env := newTestEnv(t)
	env.store.Seed(core.RegistroInput{Nombres: "A", Apellidos: "A", Email: "a@example.com", Estudio: "Sistemas"})

	for _, skip := range []int{core.MaxSkip + 1, math.MaxInt} {
		page, err := env.svc.ListRegistros(context.Background(), skip, 10, "")
		if err != nil {
			t.Fatalf("ListRegistros(%d) error = %v", skip, err)
		}
		if page.Skip != core.MaxSkip || len(page.Registros) != 0 {
			t.Errorf("ListRegistros(%d) = skip %d, %d registros; want skip %d and none", skip, page.Skip, len(page.Registros), core.MaxSkip)
		}
	}
}

func TestExport(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.svc.Export(ctx, ""); !errors.Is(err, core.ErrNoRecords) {
		t.Fatalf("Export(empty store) error = %v, want ErrNoRecords", err)
	}

	env.store.Seed(
		core.RegistroInput{Nombres: "Ana", Apellidos: "Soto", Email: "ana@example.com", Estudio: "Sistemas"},
		core.RegistroInput{Nombres: "Luis", Apellidos: "Mora", Email: "luis@example.com", Estudio: "Contabilidad"},
	)

	data, err := env.svc.Export(ctx, "Contabilidad")
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("export is not a workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Registros")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %v, want header + 1", rows)
	}
	if diff := cmp.Diff([]string{"ID", "Nombres", "Apellidos", "Email", "Estudio", "Fecha de Registro"}, rows[0]); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}
	if rows[1][3] != "luis@example.com" {
		t.Errorf("data row = %v", rows[1])
	}

	if _, err := env.svc.Export(ctx, "Electricidad"); !errors.Is(err, core.ErrNoRecords) {
		t.Errorf("Export(no match) error = %v, want ErrNoRecords", err)
	}
}

func TestTemplateRoundTrip(t *testing.T) {
	env := newTestEnv(t)

	data, err := env.svc.Template()
	if err != nil {
		t.Fatalf("Template() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"Plantilla Registros", "Estudios Disponibles"}, f.GetSheetList()); diff != "" {
		t.Errorf("sheets mismatch (-want +got):\n%s", diff)
	}
	f.Close()

	// The template's own example rows import cleanly.
	result, err := env.svc.ImportUpload(context.Background(), "plantilla.xlsx", bytes.NewReader(data), []string{"Plantilla Registros"})
	if err != nil {
		t.Fatalf("ImportUpload(template) error = %v", err)
	}
	if result.Totals.Created != 3 || result.Totals.Errors != 0 {
		t.Errorf("template import totals = %+v", result.Totals)
	}
}
