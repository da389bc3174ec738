package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/registros/internal/core"
)

func newExportCmd() *cobra.Command {
	var estudio, out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export registros to an xlsx file",
		Long: `Export writes every registro, or only those of --estudio, to an xlsx file.
Without --out the file is written to EXPORTS_DIR as
registros_export_<timestamp>.xlsx.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := openService(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			data, err := svc.Export(cmd.Context(), estudio)
			if err != nil {
				return err
			}

			path := out
			if path == "" {
				path = filepath.Join(svc.ExportsDir(), core.ExportFileName(time.Now()))
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&estudio, "estudio", "e", "", "only export this study program")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file")
	return cmd
}

func newTemplateCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write the import template workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := core.TemplateWorkbook()
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write template: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", core.TemplateFile, "output file")
	return cmd
}

func newHistoryCmd() *cobra.Command {
	var (
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent imports, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := openService(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			records, err := svc.ImportHistory(cmd.Context(), limit)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(w, records)
			}

			tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "IMPORTED AT\tFILE\tCREATED\tDUPLICATES\tERRORS\tIP")
			for _, r := range records {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%s\n",
					r.ImportedAt.Local().Format(time.DateTime), r.FileName, r.Created, r.Duplicates, r.Errors, r.IPAddress)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", core.DefaultHistoryLimit, "number of imports to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}
