package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/registros/internal/core"
)

func newImportCmd() *cobra.Command {
	var (
		sheets  []string
		asJSON  bool
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import registros from an xlsx, xlsm, xls or csv file",
		Long: `Import reads every sheet of FILE (or only those named with --sheet, in the
given order), validates each row and stores the new registros in one
transaction. Emails that already exist are reported as duplicates.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := openService(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			path := args[0]
			result, err := svc.ImportFile(cmd.Context(), path, filepath.Base(path), sheets)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, result)
			}
			printImportResult(out, result, verbose)
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&sheets, "sheet", "s", nil, "sheet to import (repeatable, default all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full result as JSON")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "list every error and duplicate")
	return cmd
}

func newCheckCmd() *cobra.Command {
	var (
		sheets []string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "check FILE",
		Short: "Validate a spreadsheet without touching the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := core.OpenWorkbook(args[0])
			if err != nil {
				return err
			}
			defer wb.Close()

			outcomes := core.ImportWorkbook(wb, sheets)

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, outcomes)
			}
			printOutcomes(out, outcomes)
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&sheets, "sheet", "s", nil, "sheet to check (repeatable, default all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the outcomes as JSON")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printImportResult(w io.Writer, r *core.ImportResult, verbose bool) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SHEET\tROWS\tVALID\tCREATED\tDUPLICATES\tERRORS")
	for _, s := range r.Sheets {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\n",
			s.Sheet, s.TotalRows, s.Valid, s.CreatedCount, s.DuplicateCount, s.ErrorCount)
	}
	tw.Flush()

	if verbose {
		for _, s := range r.Sheets {
			for _, email := range s.Duplicates {
				fmt.Fprintf(w, "%s: duplicate %s\n", s.Sheet, email)
			}
			for _, msg := range s.Errors {
				fmt.Fprintf(w, "%s: %s\n", s.Sheet, msg)
			}
		}
	}

	fmt.Fprintf(w, "\n%s (import %s, %dms)\n", r.Message, r.ImportID, r.DurationMs)
}

func printOutcomes(w io.Writer, outcomes []core.SheetOutcome) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SHEET\tROWS\tVALID\tBLANK\tERRORS")
	for _, o := range outcomes {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\n", o.Sheet, o.TotalRows, len(o.Records), o.Blank, len(o.Errors))
	}
	tw.Flush()

	for _, o := range outcomes {
		for _, msg := range o.Errors {
			fmt.Fprintf(w, "%s: %s\n", o.Sheet, msg)
		}
	}
}
