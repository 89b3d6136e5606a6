package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/krzysiekprzekwas/maklowicz-map/internal/dataset"
)

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Load a dataset file into the DuckDB store",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := datasetPath
		if len(args) == 1 {
			path = args[0]
		}

		ds, err := dataset.Load(path, log)
		if err != nil {
			return err
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.WriteDataset(ds, time.Now().UTC().Format(time.RFC3339)); err != nil {
			return fmt.Errorf("importing dataset: %w", err)
		}
		fmt.Printf("Imported %d videos, %d locations from %s\n", len(ds.Videos), ds.TotalLocations(), path)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write the dataset held in the DuckDB store to a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		ds, err := s.ReadDataset()
		if err != nil {
			return fmt.Errorf("reading dataset: %w", err)
		}
		if err := dataset.Write(args[0], ds); err != nil {
			return fmt.Errorf("writing %s: %w", args[0], err)
		}
		fmt.Printf("Exported %d videos, %d locations to %s\n", len(ds.Videos), ds.TotalLocations(), args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
}
