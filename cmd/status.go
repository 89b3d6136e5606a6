package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/krzysiekprzekwas/maklowicz-map/internal/catalog"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show dataset and store progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("Dataset Status\n")
		fmt.Printf("==============\n")
		if ds, err := loadDataset(); err != nil {
			fmt.Printf("Dataset file:     %s (unavailable: %v)\n", datasetPath, err)
		} else {
			stats := catalog.Summarize(ds)
			described, withImage := 0, 0
			for _, loc := range ds.AllLocations() {
				if loc.Description != "" {
					described++
				}
				if loc.Image != "" {
					withImage++
				}
			}
			fmt.Printf("Dataset file:     %s\n", datasetPath)
			fmt.Printf("Videos:           %d (%d with locations)\n", len(ds.Videos), stats.VideoCount)
			fmt.Printf("Locations:        %d in %d countries\n", stats.TotalLocations, stats.CountryCount)
			fmt.Printf("Described:        %d / %d\n", described, stats.TotalLocations)
			fmt.Printf("With image:       %d / %d\n", withImage, stats.TotalLocations)
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		fmt.Printf("\nStore (%s)\n", dataDir)
		fmt.Printf("-----\n")
		if at := s.DatasetImportedAt(); at != "" {
			fmt.Printf("Imported at:      %s\n", at)
		}
		fmt.Printf("Videos:           %d\n", s.VideoCount())
		fmt.Printf("Locations:        %d\n", s.LocationCount())
		fmt.Printf("Descriptions:     %d\n", s.DescriptionCount())

		byType := s.LocationCountByType()
		if len(byType) > 0 {
			fmt.Printf("\nPer-Type Breakdown\n")
			fmt.Printf("------------------\n")
			for _, t := range sortedKeys(byType) {
				fmt.Printf("  %-12s %4d\n", t, byType[t])
			}
		}

		byCountry := s.CountryCounts()
		if len(byCountry) > 0 {
			fmt.Printf("\nPer-Country Breakdown\n")
			fmt.Printf("---------------------\n")
			countries := sortedKeys(byCountry)
			sort.SliceStable(countries, func(i, j int) bool {
				return catalog.CompareNames(countries[i], countries[j]) < 0
			})
			for _, c := range countries {
				fmt.Printf("  %-20s %4d\n", c, byCountry[c])
			}
		}

		return nil
	},
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
