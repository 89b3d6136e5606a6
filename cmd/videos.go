package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/krzysiekprzekwas/maklowicz-map/internal/dataset"
	"github.com/krzysiekprzekwas/maklowicz-map/internal/model"
	"github.com/krzysiekprzekwas/maklowicz-map/internal/youtube"
)

var fetchQuery string

func newYouTube(ctx context.Context) (*youtube.Client, error) {
	return youtube.New(ctx, youtube.Options{
		APIKey:      os.Getenv("YOUTUBE_API_KEY"),
		Show:        cfg.YouTube.Show,
		RateLimit:   cfg.YouTube.RateLimit,
		Concurrency: cfg.YouTube.Concurrency,
	}, log)
}

var fetchVideosCmd = &cobra.Command{
	Use:   "fetch-videos",
	Short: "Fetch every playlist video of the channel and merge them into the dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("query") {
			fetchQuery = cfg.YouTube.ChannelQuery
		}

		ctx, cancel := interruptContext()
		defer cancel()

		yt, err := newYouTube(ctx)
		if err != nil {
			return err
		}

		existing, err := dataset.Load(datasetPath, log)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return err
			}
			existing = nil
		}

		fmt.Printf("Fetching videos for %q...\n", fetchQuery)
		fresh, err := yt.FetchAll(ctx, fetchQuery)
		if err != nil {
			return fmt.Errorf("fetching videos: %w", err)
		}

		merged, report := dataset.Merge(existing, fresh)
		if err := saveDataset(merged); err != nil {
			return err
		}

		fmt.Printf("Saved %d videos to %s (%d kept their locations)\n", report.Videos, datasetPath, report.Preserved)
		return nil
	},
}

var videoAdd bool

var videoCmd = &cobra.Command{
	Use:   "video <url>",
	Short: "Fetch one video's details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := interruptContext()
		defer cancel()

		yt, err := newYouTube(ctx)
		if err != nil {
			return err
		}

		v, err := yt.VideoDetails(ctx, args[0])
		if err != nil {
			return err
		}

		if !videoAdd {
			return printJSON(v)
		}

		ds, err := loadDataset()
		if err != nil {
			return err
		}
		if _, ok := ds.FindVideo(v.VideoID); ok {
			fmt.Printf("Video %s is already in the dataset.\n", v.VideoID)
			return nil
		}
		ds.Videos = append(ds.Videos, v)
		if err := saveDataset(ds); err != nil {
			return err
		}
		fmt.Printf("Added %q (%s)\n", v.DisplayTitle(), v.VideoID)
		return nil
	},
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// readLocation decodes a location from path, or stdin when path is "-".
func readLocation(path string) (model.Location, error) {
	var loc model.Location

	in := os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return loc, err
		}
		defer f.Close()
		in = f
	}

	if err := json.NewDecoder(in).Decode(&loc); err != nil {
		return loc, fmt.Errorf("decoding location: %w", err)
	}
	t, ok := model.NormalizeType(string(loc.Type))
	if !ok {
		fmt.Fprintf(os.Stderr, "  WARNING: unknown location type %q, using %q\n", loc.Type, t)
	}
	loc.Type = t
	if loc.ID == "" {
		return loc, fmt.Errorf("location has no id")
	}
	return loc, nil
}

func init() {
	fetchVideosCmd.Flags().StringVar(&fetchQuery, "query", "", "Channel search query or @handle (default from config)")
	videoCmd.Flags().BoolVar(&videoAdd, "add", false, "Append the video to the dataset instead of printing it")
	rootCmd.AddCommand(fetchVideosCmd)
	rootCmd.AddCommand(videoCmd)
}
