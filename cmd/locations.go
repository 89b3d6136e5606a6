package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/krzysiekprzekwas/maklowicz-map/internal/dataset"
	"github.com/krzysiekprzekwas/maklowicz-map/internal/model"
	"github.com/krzysiekprzekwas/maklowicz-map/internal/places"
)

var parseLocationVideo string

var parseLocationCmd = &cobra.Command{
	Use:   "parse-location <google-maps-url>",
	Short: "Resolve a Google Maps link into a location",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := interruptContext()
		defer cancel()

		r, err := places.NewResolver(places.Options{
			APIKey:    os.Getenv("GOOGLE_MAPS_API_KEY"),
			RateLimit: cfg.Maps.RateLimit,
		}, log)
		if err != nil {
			return err
		}

		loc, err := r.Resolve(ctx, args[0])
		if err != nil {
			return fmt.Errorf("resolving %s: %w", args[0], err)
		}

		if parseLocationVideo == "" {
			return printJSON(loc)
		}
		return attach(parseLocationVideo, loc)
	},
}

var attachVideo string

var attachLocationCmd = &cobra.Command{
	Use:   "attach-location --video <id> <file|->",
	Short: "Add a location JSON object to a video in the dataset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		loc, err := readLocation(args[0])
		if err != nil {
			return err
		}
		return attach(attachVideo, loc)
	},
}

func attach(videoID string, loc model.Location) error {
	ds, err := loadDataset()
	if err != nil {
		return err
	}
	if err := dataset.AttachLocation(ds, videoID, loc); err != nil {
		return err
	}
	if err := saveDataset(ds); err != nil {
		return err
	}
	fmt.Printf("Attached %q (%s, %s) to video %s\n", loc.Name, loc.ID, loc.Country, videoID)
	return nil
}

func init() {
	parseLocationCmd.Flags().StringVar(&parseLocationVideo, "video", "", "Attach the resolved location to this video id")
	attachLocationCmd.Flags().StringVar(&attachVideo, "video", "", "Video id to attach the location to")
	_ = attachLocationCmd.MarkFlagRequired("video")
	rootCmd.AddCommand(parseLocationCmd)
	rootCmd.AddCommand(attachLocationCmd)
}
