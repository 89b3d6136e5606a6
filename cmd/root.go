package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/krzysiekprzekwas/maklowicz-map/internal/config"
	"github.com/krzysiekprzekwas/maklowicz-map/internal/dataset"
	"github.com/krzysiekprzekwas/maklowicz-map/internal/logger"
	"github.com/krzysiekprzekwas/maklowicz-map/internal/model"
	"github.com/krzysiekprzekwas/maklowicz-map/internal/store"
)

var (
	dataDir     string
	datasetPath string
	verbose     bool
	configPath  string
	cfg         *config.Config
	log         *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "maklowicz-map",
	Short: "Map of the places visited in \"Robert Makłowicz w podróży\"",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		if !cmd.Flags().Changed("data-dir") {
			dataDir = cfg.Data.Dir
		}
		if !cmd.Flags().Changed("dataset") {
			datasetPath = cfg.Data.Dataset
		}

		log, err = logger.New(cfg.Server.Environment, verbose)
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			logger.Sync(log)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.toml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "data", "Directory for the DuckDB store")
	rootCmd.PersistentFlags().StringVar(&datasetPath, "dataset", "data/locations.json", "Path to the locations dataset")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func logVerbose(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}

// interruptContext is cancelled on Ctrl-C or SIGTERM.
func interruptContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func loadDataset() (*model.Dataset, error) {
	ds, err := dataset.Load(datasetPath, log)
	if err != nil {
		return nil, fmt.Errorf("loading dataset (run fetch-videos or import first): %w", err)
	}
	return ds, nil
}

func saveDataset(ds *model.Dataset) error {
	if err := dataset.Write(datasetPath, ds); err != nil {
		return fmt.Errorf("saving dataset: %w", err)
	}
	logVerbose("wrote %s", filepath.Clean(datasetPath))
	return nil
}

// openStore opens the DuckDB store in the data directory, logging through
// the command logger.
func openStore() (*store.Store, error) {
	s, err := store.New(dataDir)
	if err != nil {
		return nil, err
	}
	s.Logger = log
	return s, nil
}
