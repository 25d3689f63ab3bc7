package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"mall-site-backend/internal/services/logos"
	"mall-site-backend/internal/storage"
)

type matchLogosOptions struct {
	dir   string
	apply bool
}

func newMatchLogosCmd(open appOpener) *cobra.Command {
	var opts matchLogosOptions

	cmd := &cobra.Command{
		Use:   "match-logos",
		Short: "Match logo files in a directory to stores by file name (dry-run unless --apply)",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()
			return runMatchLogos(cmd.Context(), cmd.OutOrStdout(), a, opts)
		},
	}
	cmd.Flags().StringVar(&opts.dir, "dir", "", "Directory of logo images (required)")
	cmd.Flags().BoolVar(&opts.apply, "apply", false, "Upload the matched logos (default is dry-run)")
	_ = cmd.MarkFlagRequired("dir")
	return cmd
}

func runMatchLogos(ctx context.Context, out io.Writer, a *app, opts matchLogosOptions) error {
	entries, err := os.ReadDir(opts.dir)
	if err != nil {
		return err
	}
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() && storage.ContentTypeForKey(e.Name()) != "application/octet-stream" {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		fmt.Fprintln(out, "no image files found")
		return nil
	}

	items, err := a.logos.MatchAgainstStores(ctx, names)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tSTORE\tSCORE")
	unmatched := 0
	for _, it := range items {
		store := "-"
		if it.Resolved() {
			store = *it.StoreName
		} else {
			unmatched++
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\n", it.FileName, store, it.Score)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if !opts.apply {
		fmt.Fprintf(out, "\n%d files, %d unmatched; re-run with --apply to upload\n", len(items), unmatched)
		return nil
	}

	sources := make([]logos.Source, len(items))
	for i, it := range items {
		path := filepath.Join(opts.dir, it.FileName)
		sources[i] = logos.SourceFunc(func() (io.ReadCloser, error) { return os.Open(path) })
	}
	result, err := a.logos.Commit(ctx, items, sources, func(ev logos.Event) {
		fmt.Fprintf(out, "%s -> %s: %s\n", ev.Item.FileName, *ev.Item.StoreName, describe(ev.Item.Status.State.String(), ev.Item.Status.Message))
	})
	if err != nil {
		return err
	}
	p := result.Progress
	fmt.Fprintf(out, "run %s: %d uploaded, %d failed, %d unmatched\n", result.RunID, p.Succeeded, p.Failed, unmatched)
	return nil
}
