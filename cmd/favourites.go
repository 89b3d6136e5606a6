package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/krzysiekprzekwas/maklowicz-map/internal/selection"
	"github.com/krzysiekprzekwas/maklowicz-map/internal/store"
)

var favouritesProfile string

var favouritesCmd = &cobra.Command{
	Use:     "favourites",
	Aliases: []string{"favorites"},
	Short:   "Inspect and edit the stored favourites list",
}

// withFavourites opens the store and runs fn against a session backed by
// the profile's favourites.
func withFavourites(fn func(s *selection.Session) error) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	sess := selection.NewSession("cli", st.Favourites(store.FavouritesKeyFor(favouritesProfile)), log)
	return fn(sess)
}

var favouritesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List favourite location ids",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withFavourites(func(s *selection.Session) error {
			ids := s.State().Favourites
			if len(ids) == 0 {
				fmt.Println("No favourites.")
				return nil
			}
			ds, err := loadDataset()
			for _, id := range ids {
				if err == nil {
					if loc, ok := ds.FindLocation(id); ok {
						fmt.Printf("  %-40s %s (%s)\n", id, loc.Name, loc.Country)
						continue
					}
				}
				fmt.Printf("  %s\n", id)
			}
			return nil
		})
	},
}

var favouritesAddCmd = &cobra.Command{
	Use:   "add <location-id>...",
	Short: "Add locations to the favourites",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withFavourites(func(s *selection.Session) error {
			for _, id := range args {
				if _, err := s.AddFavourite(id); err != nil {
					return fmt.Errorf("adding %s: %w", id, err)
				}
			}
			fmt.Printf("%d favourites.\n", len(s.State().Favourites))
			return nil
		})
	},
}

var favouritesRemoveCmd = &cobra.Command{
	Use:   "remove <location-id>...",
	Short: "Remove locations from the favourites",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withFavourites(func(s *selection.Session) error {
			for _, id := range args {
				if _, err := s.RemoveFavourite(id); err != nil {
					return fmt.Errorf("removing %s: %w", id, err)
				}
			}
			fmt.Printf("%d favourites.\n", len(s.State().Favourites))
			return nil
		})
	},
}

func init() {
	favouritesCmd.PersistentFlags().StringVar(&favouritesProfile, "profile", "", "Browser profile (default list when empty)")
	favouritesCmd.AddCommand(favouritesListCmd, favouritesAddCmd, favouritesRemoveCmd)
	rootCmd.AddCommand(favouritesCmd)
}
