package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"mall-site-backend/internal/services/importer"
)

type importStoresOptions struct {
	file  string
	apply bool
}

func newImportStoresCmd(open appOpener) *cobra.Command {
	var opts importStoresOptions

	cmd := &cobra.Command{
		Use:   "import-stores",
		Short: "Import stores from an .xlsx spreadsheet (dry-run unless --apply)",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()
			return runImportStores(cmd.Context(), cmd.OutOrStdout(), a, opts)
		},
	}
	cmd.Flags().StringVar(&opts.file, "file", "", "Spreadsheet to import (required)")
	cmd.Flags().BoolVar(&opts.apply, "apply", false, "Create the stores (default is dry-run)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runImportStores(ctx context.Context, out io.Writer, a *app, opts importStoresOptions) error {
	if err := importer.CheckFileName(opts.file); err != nil {
		return err
	}
	f, err := os.Open(opts.file)
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := importer.ParseFile(opts.file, f)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Fprintln(out, "no rows to import")
		return nil
	}

	if !opts.apply {
		rows, err = a.importer.Preview(ctx, rows)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "LINE\tNAME\tSLUG\tCATEGORY\tLINKED")
		for _, r := range rows {
			linked := "-"
			if r.CategoryID != nil {
				linked = fmt.Sprint(*r.CategoryID)
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", r.Line, r.Name, r.Slug, r.Category, linked)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(out, "\n%d rows; re-run with --apply to import\n", len(rows))
		return nil
	}

	result, err := a.importer.Commit(ctx, filepath.Base(opts.file), rows, func(ev importer.Event) {
		fmt.Fprintf(out, "[%d/%d] line %d %s: %s\n", ev.Index+1, len(ev.Rows), ev.Row.Line, ev.Row.Name, describe(ev.Row.Status.State.String(), ev.Row.Status.Message))
	})
	if err != nil {
		return err
	}
	p := result.Progress
	fmt.Fprintf(out, "run %s: %d processed, %d succeeded, %d failed\n", result.RunID, p.Processed, p.Succeeded, p.Failed)
	return nil
}

func describe(state, message string) string {
	if message == "" {
		return state
	}
	return state + " (" + message + ")"
}
