// Command mallctl runs the admin bulk operations from a terminal: spreadsheet store import,
// logo matching and upload, and the import template.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd(openApp).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd(open appOpener) *cobra.Command {
	root := &cobra.Command{
		Use:           "mallctl",
		Short:         "Mall site bulk admin tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newImportStoresCmd(open),
		newMatchLogosCmd(open),
		newTemplateCmd(),
	)
	return root
}
