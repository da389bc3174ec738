package core

// service_import.go implements the spreadsheet import entry points.
//
// An upload is spooled to the uploads directory, opened as a Workbook and run
// through ImportWorkbook. The candidates of every sheet are then reconciled
// in one batch. The spooled file is removed on every exit path.

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/registros/internal/logging"
)

// ImportUpload imports an uploaded spreadsheet read from r. fileName is the
// client's file name; its extension selects the reader. sheets restricts the
// import to the named sheets, in that order; empty means every sheet.
func (s *Service) ImportUpload(ctx context.Context, fileName string, r io.Reader, sheets []string) (*ImportResult, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	if !slices.Contains(s.allowedExtensions, ext) {
		return nil, fmt.Errorf("%w %q, allowed: %s", ErrUnsupportedFile, ext, strings.Join(s.allowedExtensions, ", "))
	}

	path, err := s.spool(fileName, r)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			logging.FromContext(ctx).Warn("failed to remove upload", "path", path, "error", err)
		}
	}()

	return s.ImportFile(ctx, path, fileName, sheets)
}

// spool writes r to a uniquely named file in the uploads directory. The file
// is removed again if anything goes wrong while writing it.
func (s *Service) spool(fileName string, r io.Reader) (_ string, err error) {
	path := filepath.Join(s.uploadsDir, fmt.Sprintf("upload_%s_%s", uuid.NewString(), filepath.Base(fileName)))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close upload file: %w", cerr)
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	if _, err = io.Copy(f, &sizeLimitedReader{reader: r, limit: s.maxFileSize}); err != nil {
		if errors.Is(err, ErrFileTooLarge) {
			return "", fmt.Errorf("%w: maximum is %d MB", ErrFileTooLarge, s.maxFileSize/(1024*1024))
		}
		return "", fmt.Errorf("write upload file: %w", err)
	}

	return path, nil
}

// ImportFile imports the spreadsheet stored at path. fileName is the name
// reported in results and history; it also selects the reader.
//
// Row and sheet problems are reported inside the result. An error is returned
// only when the file cannot be read at all, no import slot is free, or the
// batch cannot be committed.
func (s *Service) ImportFile(ctx context.Context, path, fileName string, sheets []string) (*ImportResult, error) {
	if !s.limiter.TryAcquire() {
		logging.FromContext(ctx).Info("import queued", "file", fileName, "active", s.limiter.ActiveCount())
		if err := s.limiter.Acquire(ctx); err != nil {
			return nil, err
		}
	}
	defer s.limiter.Release()

	ctx, cancel := context.WithTimeout(ctx, s.importTimeout)
	defer cancel()

	start := time.Now()
	importID := uuid.NewString()
	logger := logging.WithFields(ctx, "import_id", importID, "file", fileName)
	logger.Info("import started", "sheets", sheets)

	wb, err := OpenNamedWorkbook(path, fileName)
	if err != nil {
		logger.Warn("import failed", "error", err)
		return nil, err
	}
	defer wb.Close()

	outcomes := ImportWorkbook(wb, cleanSheetNames(sheets))

	result, err := s.reconcile(ctx, outcomes)
	if err != nil {
		logger.Error("import failed", "error", err)
		return nil, err
	}

	result.ImportID = importID
	result.FileName = fileName
	result.Duration = time.Since(start)
	result.DurationMs = result.Duration.Milliseconds()
	result.summarize()

	s.recordImport(ctx, result)

	logger.Info("import finished",
		"created", result.Totals.Created,
		"duplicates", result.Totals.Duplicates,
		"errors", result.Totals.Errors,
		"duration", result.Duration,
	)
	return result, nil
}

// cleanSheetNames drops whitespace-only names. The rest are kept verbatim
// since sheet names may carry commas or surrounding spaces.
func cleanSheetNames(sheets []string) []string {
	out := make([]string, 0, len(sheets))
	for _, name := range sheets {
		if strings.TrimSpace(name) != "" {
			out = append(out, name)
		}
	}
	return out
}

// summarize fills the per-sheet counts, the totals and the summary message.
func (r *ImportResult) summarize() {
	r.Totals = ImportTotals{}
	for i := range r.Sheets {
		sheet := &r.Sheets[i]
		sheet.CreatedCount = len(sheet.Created)
		sheet.DuplicateCount = len(sheet.Duplicates)
		sheet.ErrorCount = len(sheet.Errors)

		r.Totals.Processed += sheet.Valid
		r.Totals.Created += sheet.CreatedCount
		r.Totals.Duplicates += sheet.DuplicateCount
		r.Totals.Errors += sheet.ErrorCount
		r.Totals.Blank += sheet.Blank
	}

	r.Success = r.Totals.Created > 0
	r.Message = summaryMessage(r.Totals)
}

func summaryMessage(t ImportTotals) string {
	var parts []string
	if t.Created > 0 {
		parts = append(parts, fmt.Sprintf("%d record(s) imported successfully", t.Created))
	}
	if t.Duplicates > 0 {
		parts = append(parts, fmt.Sprintf("%d duplicate record(s)", t.Duplicates))
	}
	if t.Errors > 0 {
		parts = append(parts, fmt.Sprintf("%d error(s) found", t.Errors))
	}
	if len(parts) == 0 {
		return "No records were processed"
	}
	return strings.Join(parts, ". ")
}

// recordImport stores the import in the history. Failures are logged only.
func (s *Service) recordImport(ctx context.Context, r *ImportResult) {
	sheets := make([]string, len(r.Sheets))
	for i, sheet := range r.Sheets {
		sheets[i] = sheet.Sheet
	}

	err := s.store.RecordImport(ctx, ImportRecord{
		ID:         r.ImportID,
		FileName:   r.FileName,
		Sheets:     sheets,
		Created:    r.Totals.Created,
		Duplicates: r.Totals.Duplicates,
		Errors:     r.Totals.Errors,
		DurationMs: r.DurationMs,
		IPAddress:  GetIPAddressFromContext(ctx),
	})
	if err != nil {
		logging.WithFields(ctx, "import_id", r.ImportID).Warn("failed to record import", "error", err)
	}
}
