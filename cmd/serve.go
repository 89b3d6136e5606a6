package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/krzysiekprzekwas/maklowicz-map/internal/model"
	"github.com/krzysiekprzekwas/maklowicz-map/internal/selection"
	"github.com/krzysiekprzekwas/maklowicz-map/internal/store"
	"github.com/krzysiekprzekwas/maklowicz-map/internal/web"
)

var (
	serveHost      string
	servePort      int
	serveFromStore bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the map API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("host") {
			serveHost = cfg.Server.Host
		}
		if !cmd.Flags().Changed("port") {
			servePort = cfg.Server.Port
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		var ds *model.Dataset
		if serveFromStore {
			ds, err = s.ReadDataset()
			if err != nil {
				return fmt.Errorf("reading dataset from store (run import first): %w", err)
			}
		} else {
			ds, err = loadDataset()
			if err != nil {
				return err
			}
		}
		log.Info("dataset loaded",
			zap.Int("videos", len(ds.Videos)),
			zap.Int("locations", ds.TotalLocations()))

		sessions := selection.NewRegistry(func(profile string) selection.FavouriteStore {
			return s.Favourites(store.FavouritesKeyFor(profile))
		}, log)

		srv := web.New(ds, sessions, log)
		srv.Addr = fmt.Sprintf("%s:%d", serveHost, servePort)
		srv.AllowedOrigins = cfg.Server.AllowedOrigins
		srv.SessionIdle = cfg.Server.SessionIdle.Std()

		ctx, cancel := interruptContext()
		defer cancel()

		fmt.Printf("Serving at http://%s\n", srv.Addr)
		return srv.ListenAndServe(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "localhost", "Host to listen on")
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().BoolVar(&serveFromStore, "from-store", false, "Serve the dataset imported into the DuckDB store instead of the JSON file")
	rootCmd.AddCommand(serveCmd)
}
