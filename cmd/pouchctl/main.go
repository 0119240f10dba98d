// Command pouchctl reconciles product images against the catalog and
// manages the catalog's document store.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pouchpalace/backend/config"
	"github.com/pouchpalace/backend/internal/bootstrap"
	"github.com/pouchpalace/backend/internal/delivery/cli"
	"github.com/pouchpalace/backend/internal/domain"
	"github.com/pouchpalace/backend/internal/logging"
)

var (
	// Global flags
	configPath string
	verbose    bool
	format     string

	// Root flags
	apply bool

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd runs the image reconciler
var rootCmd = &cobra.Command{
	Use:   "pouchctl",
	Short: "Reconcile product images against the catalog",
	Long: `Classifies every product image as consistent, inconsistent, missing or
unmapped by comparing the image directory with the catalog and the image
manifest.

By default nothing is changed. With --apply, misnamed images are renamed to
<flavor>-<strength>mg.<ext> and the manifest is updated to match.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadFile(configPath)
		if err != nil {
			return err
		}

		level := cfg.Log.Level
		if verbose {
			level = "debug"
		}
		logger, err = logging.New(level, cfg.Server.Environment)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runReconcile,
}

func runReconcile(cmd *cobra.Command, args []string) error {
	outFormat, err := cli.ParseFormat(format)
	if err != nil {
		return err
	}

	mode := domain.ModeDryRun
	if apply {
		mode = domain.ModeApply
	}

	logger.Info("starting reconcile",
		zap.String("mode", string(mode)),
		zap.String("images", cfg.Images.Dir),
		zap.String("catalog", cfg.Catalog.Path),
		zap.String("manifest", cfg.Manifest.Path))

	svc := bootstrap.NewReconcileService(cfg, logger)
	report, err := svc.Run(cmd.Context(), mode)
	if err != nil {
		return err
	}

	return cli.RenderReport(cmd.OutOrStdout(), report, outFormat)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: ./config.yaml, ./config/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&format, "format", "text", "output format: text, json or yaml")

	rootCmd.Flags().BoolVar(&apply, "apply", false, "rename misnamed images and update the manifest")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(manifestCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "pouchctl: %v\n", err)
		os.Exit(1)
	}
}
