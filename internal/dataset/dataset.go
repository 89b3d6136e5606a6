// Package dataset reads, writes and merges the static locations file.
package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/krzysiekprzekwas/maklowicz-map/internal/model"
)

// ErrUnknownVideo is returned when a video id is not in the dataset.
var ErrUnknownVideo = errors.New("unknown video")

// Load reads and normalizes the dataset at path.
func Load(path string, logger *zap.Logger) (*model.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	ds, err := Decode(f, logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// Decode parses a dataset and normalizes location types. Unknown types
// become "other" and duplicate location ids are reported; neither is fatal.
func Decode(r io.Reader, logger *zap.Logger) (*model.Dataset, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var ds model.Dataset
	if err := json.NewDecoder(r).Decode(&ds); err != nil {
		return nil, fmt.Errorf("decoding dataset: %w", err)
	}

	seen := make(map[string]string)
	for vi := range ds.Videos {
		v := &ds.Videos[vi]
		if v.Locations == nil {
			v.Locations = []model.Location{}
		}
		for li := range v.Locations {
			loc := &v.Locations[li]
			t, ok := model.NormalizeType(string(loc.Type))
			if !ok {
				logger.Warn("unknown location type, using other",
					zap.String("location", loc.ID),
					zap.String("type", string(loc.Type)))
			}
			loc.Type = t
			loc.IsFilteredOut = false

			if prev, dup := seen[loc.ID]; dup && prev != v.VideoID {
				logger.Warn("location id appears in more than one video",
					zap.String("location", loc.ID),
					zap.String("first_video", prev),
					zap.String("video", v.VideoID))
			} else if !dup {
				seen[loc.ID] = v.VideoID
			}
		}
	}

	if ds.Videos == nil {
		ds.Videos = []model.Video{}
	}
	return &ds, nil
}

// Encode writes ds as two-space indented JSON.
func Encode(w io.Writer, ds *model.Dataset) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(ds)
}

// Write stores ds at path, creating parent directories. The file is
// replaced atomically.
func Write(path string, ds *model.Dataset) error {
	var buf bytes.Buffer
	if err := Encode(&buf, ds); err != nil {
		return fmt.Errorf("encoding dataset: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating dataset dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing dataset: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing dataset: %w", err)
	}
	return nil
}

// MergeReport summarizes a Merge.
type MergeReport struct {
	Videos    int `json:"videos"`
	Preserved int `json:"preserved"`
}

// Merge combines a freshly fetched video list with the existing dataset.
// Fresh videos are kept in order; an existing video with at least one
// location keeps its locations.
func Merge(existing, fresh *model.Dataset) (*model.Dataset, MergeReport) {
	kept := make(map[string][]model.Location)
	if existing != nil {
		for _, v := range existing.Videos {
			if len(v.Locations) > 0 {
				kept[v.VideoID] = v.Locations
			}
		}
	}

	out := &model.Dataset{Videos: make([]model.Video, 0, len(fresh.Videos))}
	report := MergeReport{Videos: len(fresh.Videos)}
	for _, v := range fresh.Videos {
		if locs, ok := kept[v.VideoID]; ok {
			v.Locations = locs
			report.Preserved++
		}
		if v.Locations == nil {
			v.Locations = []model.Location{}
		}
		out.Videos = append(out.Videos, v)
	}
	return out, report
}

// AttachLocation adds loc to the video, replacing an entry with the same id.
func AttachLocation(ds *model.Dataset, videoID string, loc model.Location) error {
	v, ok := ds.FindVideo(videoID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownVideo, videoID)
	}

	loc.IsFilteredOut = false
	for i := range v.Locations {
		if v.Locations[i].ID == loc.ID {
			v.Locations[i] = loc
			return nil
		}
	}
	v.Locations = append(v.Locations, loc)
	return nil
}

// UpdateLocations calls fn on every location in place and returns how many
// calls reported a change.
func UpdateLocations(ds *model.Dataset, fn func(loc *model.Location) bool) int {
	changed := 0
	for i := range ds.Videos {
		for j := range ds.Videos[i].Locations {
			if fn(&ds.Videos[i].Locations[j]) {
				changed++
			}
		}
	}
	return changed
}
