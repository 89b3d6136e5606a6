package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/krzysiekprzekwas/maklowicz-map/internal/dataset"
	"github.com/krzysiekprzekwas/maklowicz-map/internal/describer"
	"github.com/krzysiekprzekwas/maklowicz-map/internal/model"
	"github.com/krzysiekprzekwas/maklowicz-map/internal/store"
)

var (
	describeProvider    string
	describeModel       string
	describeConcurrency int
	describeForce       bool
)

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Generate Polish descriptions for locations that have none",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("provider") {
			describeProvider = cfg.Describe.Provider
		}
		if !cmd.Flags().Changed("model") {
			describeModel = cfg.Describe.Model
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		ds, err := loadDataset()
		if err != nil {
			return err
		}

		ctx, cancel := interruptContext()
		defer cancel()

		descriptions := make(map[string]string)
		var reqs []describer.Request
		seen := make(map[string]bool)
		for _, v := range ds.Videos {
			for _, loc := range v.Locations {
				if seen[loc.ID] {
					continue
				}
				seen[loc.ID] = true
				if loc.Description != "" && !describeForce {
					continue
				}
				if !describeForce && s.DescriptionExists(loc.ID) {
					if d, err := s.ReadDescription(loc.ID); err == nil {
						descriptions[loc.ID] = d.Body
						continue
					}
				}
				reqs = append(reqs, describer.Request{Location: loc, Video: v})
			}
		}

		if len(reqs) > 0 {
			d, err := describer.New(ctx, describeProvider, describeModel, cfg.Describe.MaxTokens)
			if err != nil {
				return err
			}

			fmt.Printf("Describing %d locations using %s/%s...\n", len(reqs), d.Provider(), d.Model())

			var done, totalInput, totalOutput int
			err = describer.DescribeAll(ctx, d, reqs, int64(describeConcurrency), func(o describer.Outcome) {
				done++
				loc := o.Request.Location
				if o.Err != nil {
					fmt.Fprintf(os.Stderr, "  [%d/%d] %s ERROR: %v\n", done, len(reqs), loc.Name, o.Err)
					return
				}
				totalInput += o.Usage.InputTokens
				totalOutput += o.Usage.OutputTokens

				if err := s.WriteDescription(store.Description{
					LocationID:  loc.ID,
					Provider:    d.Provider(),
					Model:       d.Model(),
					Body:        o.Description,
					GeneratedAt: time.Now().UTC().Format(time.RFC3339),
				}); err != nil {
					fmt.Fprintf(os.Stderr, "  WARNING: caching description for %s: %v\n", loc.ID, err)
				}
				descriptions[loc.ID] = o.Description
				fmt.Printf("  [%d/%d] %s (%d+%d tokens)\n", done, len(reqs), loc.Name, o.Usage.InputTokens, o.Usage.OutputTokens)
			})
			if err != nil {
				fmt.Printf("\nInterrupted after %d/%d locations\n", done, len(reqs))
			}
			fmt.Printf("Total tokens: %d input, %d output\n", totalInput, totalOutput)
		}

		changed := dataset.UpdateLocations(ds, func(loc *model.Location) bool {
			text, ok := descriptions[loc.ID]
			if !ok || loc.Description == text {
				return false
			}
			if loc.Description != "" && !describeForce {
				return false
			}
			loc.Description = text
			return true
		})
		if changed == 0 {
			fmt.Println("No descriptions to update.")
			return nil
		}
		if err := saveDataset(ds); err != nil {
			return err
		}
		fmt.Printf("Updated %d locations in %s\n", changed, datasetPath)
		return nil
	},
}

func init() {
	describeCmd.Flags().StringVar(&describeProvider, "provider", "", "Model provider: anthropic or gemini (default from config)")
	describeCmd.Flags().StringVar(&describeModel, "model", "", "Model name (default from config)")
	describeCmd.Flags().IntVar(&describeConcurrency, "concurrency", 4, "Requests in flight")
	describeCmd.Flags().BoolVar(&describeForce, "force", false, "Regenerate descriptions that already exist")
	rootCmd.AddCommand(describeCmd)
}
