package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mall-site-backend/internal/services/importer"
)

func newTemplateCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write the store import template",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := importer.WriteTemplate(f); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "template written to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "magaza-sablonu.xlsx", "Output file")
	return cmd
}
