package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pouchpalace/backend/internal/bootstrap"
	"github.com/pouchpalace/backend/internal/delivery/cli"
)

var rebuildApply bool

// manifestCmd groups manifest maintenance commands
var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Image manifest maintenance",
}

// manifestRebuildCmd reconstructs the manifest from catalog and directory
var manifestRebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the manifest main table from the catalog and image directory",
	Long: `Sets products[flavor][strength] for every catalog product that has a
conforming image on disk. The alternate image table is left as is.

Prints what would change; --apply writes the manifest.`,
	Args: cobra.NoArgs,
	RunE: runManifestRebuild,
}

func runManifestRebuild(cmd *cobra.Command, args []string) error {
	outFormat, err := cli.ParseFormat(format)
	if err != nil {
		return err
	}

	svc := bootstrap.NewReconcileService(cfg, logger)
	rebuild, err := svc.RebuildManifest(cmd.Context(), rebuildApply)
	if err != nil {
		return err
	}

	if outFormat != cli.FormatText {
		return cli.Encode(cmd.OutOrStdout(), rebuild, outFormat)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Manifest rebuild: %d added, %d changed, %d products without a conforming image\n",
		rebuild.Added, rebuild.Changed, len(rebuild.Unmatched))
	for _, key := range rebuild.Unmatched {
		fmt.Fprintf(out, "  no image: %s\n", key)
	}
	for _, w := range rebuild.Warnings {
		fmt.Fprintf(out, "  warning: %s\n", w)
	}
	if rebuild.Persisted {
		fmt.Fprintf(out, "Manifest written to %s\n", cfg.Manifest.Path)
	} else if rebuildApply {
		fmt.Fprintln(out, "Manifest already up to date")
	} else {
		fmt.Fprintln(out, "Dry run; pass --apply to write the manifest")
	}
	return nil
}

func init() {
	manifestRebuildCmd.Flags().BoolVar(&rebuildApply, "apply", false, "write the rebuilt manifest")
	manifestCmd.AddCommand(manifestRebuildCmd)
}
