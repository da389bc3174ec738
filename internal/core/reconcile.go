package core

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/registros/internal/logging"
)

// reconcile creates or marks as duplicate every candidate of outcomes, in
// sheet order then row order, inside a single batch.
//
// An email counts as a duplicate when it was already handled in this batch or
// the batch finds it in the store. A failed create is reported on the sheet as
// "Error saving <email>: <detail>" and the batch carries on. The batch commits
// when at least one registro was created and is rolled back otherwise.
func (s *Service) reconcile(ctx context.Context, outcomes []SheetOutcome) (*ImportResult, error) {
	batch, err := s.store.BeginBatch(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin import batch: %w", err)
	}
	defer func() {
		if err := batch.Rollback(ctx); err != nil {
			logging.FromContext(ctx).Warn("import batch rollback failed", "error", err)
		}
	}()

	result := &ImportResult{Sheets: make([]SheetResult, 0, len(outcomes))}
	seen := make(map[string]bool)
	created := 0

	for _, out := range outcomes {
		sheet := SheetResult{
			Sheet:      out.Sheet,
			TotalRows:  out.TotalRows,
			Valid:      len(out.Records),
			Blank:      out.Blank,
			Created:    []Registro{},
			Duplicates: []string{},
			Errors:     append([]string{}, out.Errors...),
		}

		for _, c := range out.Records {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("import interrupted: %w", err)
			}

			if seen[c.Email] {
				sheet.Duplicates = append(sheet.Duplicates, c.Email)
				continue
			}

			_, found, err := batch.FindByEmail(ctx, c.Email)
			if err != nil {
				sheet.Errors = append(sheet.Errors, saveError(c.Email, err))
				continue
			}
			if found {
				seen[c.Email] = true
				sheet.Duplicates = append(sheet.Duplicates, c.Email)
				continue
			}

			rec, err := batch.Create(ctx, c.RegistroInput)
			if err != nil {
				sheet.Errors = append(sheet.Errors, saveError(c.Email, err))
				continue
			}

			seen[c.Email] = true
			sheet.Created = append(sheet.Created, rec)
			created++
		}

		result.Sheets = append(result.Sheets, sheet)
	}

	if created == 0 {
		return result, nil
	}

	if err := batch.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit import batch: %w", err)
	}
	return result, nil
}

func saveError(email string, err error) string {
	return fmt.Sprintf("Error saving %s: %v", email, err)
}
