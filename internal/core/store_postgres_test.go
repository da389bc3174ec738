package core_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/registros/internal/config"
	"github.com/JonMunkholm/registros/internal/core"
	"github.com/JonMunkholm/registros/internal/core/coretest"
	"github.com/JonMunkholm/registros/internal/database"
)

// testPool connects to TEST_DATABASE_URL and empties both tables. Tests using
// it are skipped when the variable is unset.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := database.Connect(ctx, config.DatabaseConfig{
		URL:             url,
		MaxConns:        4,
		MinConns:        1,
		MaxConnLifetime: time.Hour,
		MaxConnIdleTime: time.Minute,
	})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := database.Migrate(ctx, pool); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if _, err := pool.Exec(ctx, "TRUNCATE registros, imports RESTART IDENTITY"); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return pool
}

func TestPostgresStore_CRUD(t *testing.T) {
	ctx := context.Background()
	store := core.NewPostgresStore(testPool(t))

	in := core.RegistroInput{Nombres: "Ana", Apellidos: "Pérez", Email: "ana@example.com", Estudio: "Sistemas"}
	rec, err := store.CreateRegistro(ctx, in)
	if err != nil {
		t.Fatalf("CreateRegistro() error = %v", err)
	}
	if rec.ID == 0 || rec.FechaRegistro.IsZero() {
		t.Errorf("created = %+v", rec)
	}

	if _, err := store.CreateRegistro(ctx, in); !errors.Is(err, core.ErrEmailTaken) {
		t.Errorf("duplicate create error = %v, want ErrEmailTaken", err)
	}

	got, found, err := store.FindByEmail(ctx, "ana@example.com")
	if err != nil || !found || got.ID != rec.ID {
		t.Errorf("FindByEmail() = %+v, %v, %v", got, found, err)
	}
	if _, found, _ := store.FindByEmail(ctx, "nadie@example.com"); found {
		t.Error("FindByEmail() found an absent email")
	}

	in.Estudio = "Contabilidad"
	updated, err := store.UpdateRegistro(ctx, rec.ID, in)
	if err != nil || updated.Estudio != "Contabilidad" {
		t.Errorf("UpdateRegistro() = %+v, %v", updated, err)
	}
	if _, err := store.UpdateRegistro(ctx, rec.ID+100, in); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("update missing error = %v, want ErrNotFound", err)
	}

	regs, total, err := store.ListRegistros(ctx, core.ListFilter{Estudio: "Contabilidad", Limit: 10})
	if err != nil || total != 1 || len(regs) != 1 {
		t.Errorf("ListRegistros() = %d regs, total %d, err %v", len(regs), total, err)
	}

	if err := store.DeleteRegistro(ctx, rec.ID); err != nil {
		t.Fatalf("DeleteRegistro() error = %v", err)
	}
	if err := store.DeleteRegistro(ctx, rec.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("second delete error = %v, want ErrNotFound", err)
	}
	if _, err := store.GetRegistro(ctx, rec.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("GetRegistro() error = %v, want ErrNotFound", err)
	}
}

func TestPostgresStore_BatchSurvivesFailedInsert(t *testing.T) {
	ctx := context.Background()
	store := core.NewPostgresStore(testPool(t))

	batch, err := store.BeginBatch(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer batch.Rollback(ctx)

	first := core.RegistroInput{Nombres: "Ana", Apellidos: "P", Email: "ana@example.com", Estudio: "Sistemas"}
	if _, err := batch.Create(ctx, first); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := batch.Create(ctx, first); !errors.Is(err, core.ErrEmailTaken) {
		t.Fatalf("duplicate create error = %v, want ErrEmailTaken", err)
	}

	second := core.RegistroInput{Nombres: "Luis", Apellidos: "G", Email: "luis@example.com", Estudio: "Sistemas"}
	if _, err := batch.Create(ctx, second); err != nil {
		t.Fatalf("create after failed insert: %v", err)
	}
	if _, found, _ := batch.FindByEmail(ctx, "luis@example.com"); !found {
		t.Error("batch does not see its own insert")
	}

	if err := batch.Commit(ctx); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	if err := batch.Rollback(ctx); err != nil {
		t.Errorf("Rollback() after Commit = %v, want nil", err)
	}

	all, err := store.AllRegistros(ctx, "")
	if err != nil || len(all) != 2 {
		t.Errorf("AllRegistros() = %d, %v, want 2", len(all), err)
	}
}

func TestPostgresStore_RollbackDiscards(t *testing.T) {
	ctx := context.Background()
	store := core.NewPostgresStore(testPool(t))

	batch, err := store.BeginBatch(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := batch.Create(ctx, core.RegistroInput{Nombres: "A", Apellidos: "B", Email: "a@example.com", Estudio: "Sistemas"}); err != nil {
		t.Fatal(err)
	}
	if err := batch.Rollback(ctx); err != nil {
		t.Fatal(err)
	}

	if _, found, _ := store.FindByEmail(ctx, "a@example.com"); found {
		t.Error("rolled back registro is visible")
	}
}

func TestPostgresStore_ImportHistory(t *testing.T) {
	ctx := context.Background()
	store := core.NewPostgresStore(testPool(t))

	older := core.ImportRecord{ID: uuid.NewString(), FileName: "a.xlsx", Created: 1}
	newer := core.ImportRecord{ID: uuid.NewString(), FileName: "b.csv", Sheets: []string{"b"}, Errors: 2, IPAddress: "192.0.2.1"}
	for _, rec := range []core.ImportRecord{older, newer} {
		if err := store.RecordImport(ctx, rec); err != nil {
			t.Fatalf("RecordImport() error = %v", err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	got, err := store.ListImports(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ID != newer.ID || got[0].IPAddress != "192.0.2.1" {
		t.Fatalf("ListImports() = %+v", got)
	}
	if len(got[1].Sheets) != 0 {
		t.Errorf("sheets = %#v, want none", got[1].Sheets)
	}
}

func TestService_ImportAgainstPostgres(t *testing.T) {
	ctx := context.Background()
	store := core.NewPostgresStore(testPool(t))

	dir := t.TempDir()
	svc, err := core.NewService(store, &config.Config{
		Upload: config.UploadConfig{
			MaxFileSize:       1 << 20,
			AllowedExtensions: []string{".xlsx"},
			MaxConcurrent:     1,
			MaxWaitTime:       time.Second,
			Timeout:           time.Minute,
		},
		Storage: config.StorageConfig{
			UploadsDir: filepath.Join(dir, "uploads"),
			ExportsDir: filepath.Join(dir, "exports"),
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(dir, "registros.xlsx")
	data := coretest.WorkbookBytes(t, coretest.Sheet{Name: "Cohort1", Rows: [][]string{
		coretest.Header,
		{"Ana", "Pérez", "ana@example.com", "Sistemas"},
		{"Ana", "Pérez", "ANA@example.com", "Sistemas"},
		{"Luis", "Gómez", "luis@example.com", "Electricidad"},
	}})
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := svc.ImportFile(ctx, path, "registros.xlsx", nil)
	if err != nil {
		t.Fatalf("ImportFile() error = %v", err)
	}
	if result.Totals.Created != 2 || result.Totals.Duplicates != 1 {
		t.Errorf("totals = %+v", result.Totals)
	}

	again, err := svc.ImportFile(ctx, path, "registros.xlsx", nil)
	if err != nil {
		t.Fatal(err)
	}
	if again.Totals.Created != 0 || again.Totals.Duplicates != 3 || again.Success {
		t.Errorf("re-import totals = %+v, success %v", again.Totals, again.Success)
	}

	history, err := svc.ImportHistory(ctx, 5)
	if err != nil || len(history) != 2 {
		t.Errorf("ImportHistory() = %d, %v", len(history), err)
	}
}
