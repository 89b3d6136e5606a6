package cmd

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/krzysiekprzekwas/maklowicz-map/internal/dataset"
	"github.com/krzysiekprzekwas/maklowicz-map/internal/model"
	"github.com/krzysiekprzekwas/maklowicz-map/internal/ratelimit"
	"github.com/krzysiekprzekwas/maklowicz-map/internal/scraper"
)

var enrichImagesCmd = &cobra.Command{
	Use:   "enrich-images",
	Short: "Fill in location images from their websites' preview tags",
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset()
		if err != nil {
			return err
		}

		ctx, cancel := interruptContext()
		defer cancel()

		var todo []model.Location
		seen := make(map[string]bool)
		for _, loc := range ds.AllLocations() {
			if loc.Image != "" || loc.WebsiteURL == "" || seen[loc.ID] {
				continue
			}
			seen[loc.ID] = true
			todo = append(todo, loc)
		}

		if len(todo) == 0 {
			fmt.Println("All locations with a website already have an image.")
			return nil
		}

		fmt.Printf("Looking for preview images on %d websites...\n", len(todo))

		rl := ratelimit.New(cfg.Scrape.RateLimit)
		client := &http.Client{Timeout: 20 * time.Second}
		images := make(map[string]string)

		for i, loc := range todo {
			if ctx.Err() != nil {
				fmt.Printf("\nInterrupted after %d/%d locations\n", i, len(todo))
				break
			}

			logVerbose("  [%d/%d] %s", i+1, len(todo), loc.WebsiteURL)

			img, err := scraper.FetchPreviewImage(ctx, client, loc.WebsiteURL, rl)
			if errors.Is(err, scraper.ErrNoImage) {
				logVerbose("    no preview image")
				continue
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "  WARNING: %s: %v\n", loc.Name, err)
				continue
			}
			images[loc.ID] = img
			fmt.Printf("  [%d/%d] %s\n", i+1, len(todo), loc.Name)
		}

		changed := dataset.UpdateLocations(ds, func(loc *model.Location) bool {
			img, ok := images[loc.ID]
			if !ok || loc.Image != "" {
				return false
			}
			loc.Image = img
			return true
		})
		if changed == 0 {
			fmt.Println("No images found.")
			return nil
		}
		if err := saveDataset(ds); err != nil {
			return err
		}
		fmt.Printf("Added images to %d locations.\n", changed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(enrichImagesCmd)
}
