package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pouchpalace/backend/internal/bootstrap"
	"github.com/pouchpalace/backend/internal/delivery/cli"
	"github.com/pouchpalace/backend/internal/usecase"
)

var (
	importCollection string
	importIDField    string
)

// importCmd pushes the catalog into the document store
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Upsert catalog products into the document store",
	Long: `Reads the catalog and upserts every product into the configured
document store (docstore.type: sqlite or firestore).

Documents are keyed by the product identity key (<flavor>-<strength>mg)
unless --id-field=id is given.

Example:
  pouchctl import --collection products --id-field key`,
	Args: cobra.NoArgs,
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	outFormat, err := cli.ParseFormat(format)
	if err != nil {
		return err
	}
	idFunc, err := usecase.IDFuncByName(importIDField)
	if err != nil {
		return err
	}

	collection := importCollection
	if collection == "" {
		collection = cfg.DocStore.Collection
	}

	svc, closeStore, err := bootstrap.NewImportService(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	result, err := svc.ImportCatalog(cmd.Context(), collection, idFunc)
	if err != nil {
		return err
	}

	if outFormat == cli.FormatText {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Imported into %q: %d written, %d skipped, %d failed\n",
			result.Collection, result.Written, result.Skipped, len(result.Failures))
		for _, f := range result.Failures {
			fmt.Fprintf(out, "  %s: %s\n", f.ID, f.Error)
		}
		return nil
	}
	return cli.Encode(cmd.OutOrStdout(), result, outFormat)
}

func init() {
	importCmd.Flags().StringVar(&importCollection, "collection", "", "target collection (default: docstore.collection)")
	importCmd.Flags().StringVar(&importIDField, "id-field", "key", "document id: key (flavor-strength) or id (record id)")
}
