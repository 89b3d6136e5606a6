package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/krzysiekprzekwas/maklowicz-map/internal/dataset"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report dataset entries the map cannot show correctly",
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset()
		if err != nil {
			return err
		}

		issues := dataset.Check(ds)
		if len(issues) == 0 {
			fmt.Println("No issues found.")
			return nil
		}
		for _, issue := range issues {
			fmt.Printf("  %s\n", issue)
		}
		return fmt.Errorf("%d issues found", len(issues))
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
