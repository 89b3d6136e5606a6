package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/duckdb/duckdb-go/v2"
	"go.uber.org/zap"

	"github.com/krzysiekprzekwas/maklowicz-map/internal/model"
)

// Store manages working data via DuckDB: the imported dataset, generated
// descriptions and favourites.
type Store struct {
	DB      *sql.DB
	DataDir string

	// Logger receives non-fatal data warnings. New sets a no-op logger.
	Logger *zap.Logger
}

// New opens (or creates) a DuckDB database in the given data directory.
func New(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, "maklowicz-map.duckdb")
	db, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening duckdb: %w", err)
	}

	s := &Store{DB: db, DataDir: dataDir, Logger: zap.NewNop()}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.DB.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS videos (
			video_id TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			video_url TEXT NOT NULL,
			title TEXT NOT NULL,
			filter_title TEXT NOT NULL,
			playlist_id TEXT NOT NULL,
			playlist_title TEXT NOT NULL,
			date TEXT NOT NULL,
			show TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS locations (
			video_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			id TEXT NOT NULL,
			name TEXT NOT NULL,
			description TEXT NOT NULL,
			latitude DOUBLE NOT NULL,
			longitude DOUBLE NOT NULL,
			address TEXT NOT NULL,
			country TEXT NOT NULL,
			type TEXT NOT NULL,
			website_url TEXT,
			google_maps_link TEXT,
			image TEXT,
			PRIMARY KEY (video_id, position)
		)`,
		`CREATE TABLE IF NOT EXISTS descriptions (
			location_id TEXT PRIMARY KEY,
			provider TEXT NOT NULL,
			model TEXT NOT NULL,
			body TEXT NOT NULL,
			generated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}

	for _, stmt := range stmts {
		if _, err := s.DB.Exec(stmt); err != nil {
			return fmt.Errorf("executing migration %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// WriteDataset replaces the stored dataset.
func (s *Store) WriteDataset(ds *model.Dataset, importedAt string) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, tbl := range []string{"locations", "videos"} {
		if _, err := tx.Exec(fmt.Sprintf("DELETE FROM %s", tbl)); err != nil {
			return fmt.Errorf("clearing %s: %w", tbl, err)
		}
	}

	videoStmt, err := tx.Prepare(`INSERT INTO videos (video_id, position, video_url, title, filter_title, playlist_id, playlist_title, date, show)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer videoStmt.Close()

	locStmt, err := tx.Prepare(`INSERT INTO locations (video_id, position, id, name, description, latitude, longitude, address, country, type, website_url, google_maps_link, image)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer locStmt.Close()

	for vi, v := range ds.Videos {
		if _, err := videoStmt.Exec(v.VideoID, vi, v.VideoURL, v.Title, v.FilterTitle, v.PlaylistID, v.PlaylistTitle, v.Date, v.Show); err != nil {
			return fmt.Errorf("inserting video %s: %w", v.VideoID, err)
		}
		for li, loc := range v.Locations {
			if _, err := locStmt.Exec(v.VideoID, li, loc.ID, loc.Name, loc.Description, loc.Latitude, loc.Longitude,
				loc.Address, loc.Country, string(loc.Type), nullable(loc.WebsiteURL), nullable(loc.GoogleMapsLink), nullable(loc.Image)); err != nil {
				return fmt.Errorf("inserting location %s of %s: %w", loc.ID, v.VideoID, err)
			}
		}
	}

	if _, err := tx.Exec("INSERT OR REPLACE INTO meta (key, value) VALUES ('dataset_imported_at', ?)", importedAt); err != nil {
		return err
	}

	return tx.Commit()
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// ReadDataset loads the stored dataset in its original order.
func (s *Store) ReadDataset() (*model.Dataset, error) {
	rows, err := s.DB.Query("SELECT video_id, video_url, title, filter_title, playlist_id, playlist_title, date, show FROM videos ORDER BY position")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ds := &model.Dataset{Videos: []model.Video{}}
	index := make(map[string]int)
	for rows.Next() {
		v := model.Video{Locations: []model.Location{}}
		if err := rows.Scan(&v.VideoID, &v.VideoURL, &v.Title, &v.FilterTitle, &v.PlaylistID, &v.PlaylistTitle, &v.Date, &v.Show); err != nil {
			return nil, err
		}
		index[v.VideoID] = len(ds.Videos)
		ds.Videos = append(ds.Videos, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	locRows, err := s.DB.Query(`SELECT video_id, id, name, description, latitude, longitude, address, country, type, website_url, google_maps_link, image
		FROM locations ORDER BY video_id, position`)
	if err != nil {
		return nil, err
	}
	defer locRows.Close()
	for locRows.Next() {
		var videoID, typ string
		var loc model.Location
		var website, maps, image sql.NullString
		if err := locRows.Scan(&videoID, &loc.ID, &loc.Name, &loc.Description, &loc.Latitude, &loc.Longitude,
			&loc.Address, &loc.Country, &typ, &website, &maps, &image); err != nil {
			return nil, err
		}
		t, ok := model.NormalizeType(typ)
		if !ok {
			s.Logger.Warn("unknown location type, using other",
				zap.String("location", loc.ID),
				zap.String("type", typ))
		}
		loc.Type = t
		loc.WebsiteURL = website.String
		loc.GoogleMapsLink = maps.String
		loc.Image = image.String

		i, ok := index[videoID]
		if !ok {
			continue
		}
		ds.Videos[i].Locations = append(ds.Videos[i].Locations, loc)
	}

	return ds, locRows.Err()
}

// DatasetImportedAt returns when the dataset was last imported.
func (s *Store) DatasetImportedAt() string {
	var at sql.NullString
	s.DB.QueryRow("SELECT value FROM meta WHERE key = 'dataset_imported_at'").Scan(&at)
	return at.String
}

// Description is a generated location description.
type Description struct {
	LocationID  string
	Provider    string
	Model       string
	Body        string
	GeneratedAt string
}

// WriteDescription caches a generated description.
func (s *Store) WriteDescription(d Description) error {
	_, err := s.DB.Exec("INSERT OR REPLACE INTO descriptions (location_id, provider, model, body, generated_at) VALUES (?, ?, ?, ?, ?)",
		d.LocationID, d.Provider, d.Model, d.Body, d.GeneratedAt)
	return err
}

// ReadDescription loads a cached description.
func (s *Store) ReadDescription(locationID string) (Description, error) {
	d := Description{LocationID: locationID}
	err := s.DB.QueryRow("SELECT provider, model, body, generated_at FROM descriptions WHERE location_id = ?", locationID).
		Scan(&d.Provider, &d.Model, &d.Body, &d.GeneratedAt)
	return d, err
}

// DescriptionExists checks if a location already has a generated description.
func (s *Store) DescriptionExists(locationID string) bool {
	var n int
	s.DB.QueryRow("SELECT 1 FROM descriptions WHERE location_id = ?", locationID).Scan(&n)
	return n == 1
}

// VideoCount returns the number of stored videos that have locations.
func (s *Store) VideoCount() int {
	var n int
	s.DB.QueryRow("SELECT COUNT(DISTINCT video_id) FROM locations").Scan(&n)
	return n
}

// LocationCount returns the number of stored location entries.
func (s *Store) LocationCount() int {
	var n int
	s.DB.QueryRow("SELECT COUNT(*) FROM locations").Scan(&n)
	return n
}

// DescriptionCount returns how many descriptions have been generated.
func (s *Store) DescriptionCount() int {
	var n int
	s.DB.QueryRow("SELECT COUNT(*) FROM descriptions").Scan(&n)
	return n
}

// CountryCounts returns distinct location counts per country.
func (s *Store) CountryCounts() map[string]int {
	return s.groupCount("SELECT country, COUNT(DISTINCT id) FROM locations GROUP BY country ORDER BY country")
}

// LocationCountByType returns distinct location counts per type.
func (s *Store) LocationCountByType() map[string]int {
	return s.groupCount("SELECT type, COUNT(DISTINCT id) FROM locations GROUP BY type ORDER BY type")
}

func (s *Store) groupCount(query string) map[string]int {
	m := make(map[string]int)
	rows, err := s.DB.Query(query)
	if err != nil {
		return m
	}
	defer rows.Close()
	for rows.Next() {
		var key string
		var cnt int
		if err := rows.Scan(&key, &cnt); err != nil {
			continue
		}
		m[key] = cnt
	}
	return m
}

// FavouritesKey is the meta key favourites are stored under.
const FavouritesKey = "favorites"

// FavouritesKeyFor returns the meta key for a browser profile.
func FavouritesKeyFor(profile string) string {
	if profile == "" {
		return FavouritesKey
	}
	return FavouritesKey + ":" + profile
}

// Favourites persists favourite location ids as a JSON array under one
// meta key.
type Favourites struct {
	store *Store
	key   string
}

// Favourites returns the favourites list stored under key.
func (s *Store) Favourites(key string) *Favourites {
	return &Favourites{store: s, key: key}
}

// LoadFavouriteIDs reads the list; a missing key is an empty list.
func (f *Favourites) LoadFavouriteIDs() ([]string, error) {
	var raw string
	err := f.store.DB.QueryRow("SELECT value FROM meta WHERE key = ?", f.key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", f.key, err)
	}

	var ids []*string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", f.key, err)
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != nil {
			out = append(out, *id)
		}
	}
	return out, nil
}

// SaveFavouriteIDs replaces the list.
func (f *Favourites) SaveFavouriteIDs(ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	if _, err := f.store.DB.Exec("INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)", f.key, string(raw)); err != nil {
		return fmt.Errorf("writing %s: %w", f.key, err)
	}
	return nil
}
