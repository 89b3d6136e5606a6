package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/krzysiekprzekwas/maklowicz-map/internal/catalog"
	"github.com/krzysiekprzekwas/maklowicz-map/internal/model"
	"github.com/krzysiekprzekwas/maklowicz-map/internal/selection"
)

// ErrLocationNotFound is returned for location ids absent from the dataset.
var ErrLocationNotFound = errors.New("location not found")

func (s *Server) findLocation(id string) (model.Location, error) {
	loc, ok := s.dataset.FindLocation(id)
	if !ok {
		return model.Location{}, ErrLocationNotFound
	}
	return loc, nil
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, catalog.Summarize(s.dataset))
}

func (s *Server) handleCountries(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.index.Countries(r.URL.Query().Get("q")))
}

func (s *Server) handleCountryPage(w http.ResponseWriter, r *http.Request) {
	page, ok := catalog.PageForSlug(s.dataset.Videos, chi.URLParam(r, "slug"))
	if !ok {
		http.Error(w, "country not found", http.StatusNotFound)
		return
	}
	writeJSON(w, page)
}

// project applies the q, country and video query parameters.
func (s *Server) project(r *http.Request) []model.Location {
	q := r.URL.Query()
	countries := s.index.Countries(q.Get("q"))
	return catalog.Project(s.index.Videos(), countries, q.Get("country"), q.Get("video"))
}

func (s *Server) handleLocations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.project(r))
}

func (s *Server) handleGeoJSON(w http.ResponseWriter, r *http.Request) {
	mobile := false
	if raw := r.URL.Query().Get("mobile"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			http.Error(w, "invalid 'mobile' parameter", http.StatusBadRequest)
			return
		}
		mobile = v
	}

	locs := s.project(r)
	writeJSON(w, catalog.FeatureCollection(locs, r.URL.Query().Get("selected"), mobile, s.icons))
}

func (s *Server) handleLocation(w http.ResponseWriter, r *http.Request) {
	loc, err := s.findLocation(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, loc)
}

type sessionResponse struct {
	ID   string         `json:"id"`
	View selection.View `json:"view"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Profile string `json:"profile"`
	}
	if !decodeOptional(w, r, &body) {
		return
	}

	sess := s.sessions.Create(body.Profile)
	w.Header().Set("Location", "/api/sessions/"+sess.ID)
	writeJSONStatus(w, http.StatusCreated, sessionResponse{ID: sess.ID, View: sess.View(s.index)})
}

// session resolves the {sessionID} path parameter, writing a 404 when it is
// unknown.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*selection.Session, bool) {
	sess, err := s.sessions.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return nil, false
	}
	return sess, true
}

func (s *Server) writeView(w http.ResponseWriter, st selection.State) {
	writeJSON(w, selection.NewView(s.index, st))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, sess.View(s.index))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(chi.URLParam(r, "sessionID")); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var body struct {
		Text string `json:"text"`
	}
	if !decode(w, r, &body) {
		return
	}
	s.writeView(w, sess.SetSearchQuery(body.Text))
}

func (s *Server) handleCountry(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var body struct {
		Name string `json:"name"`
	}
	if !decode(w, r, &body) {
		return
	}
	s.writeView(w, sess.ToggleCountry(body.Name))
}

func (s *Server) handleVideo(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var body struct {
		VideoID string `json:"videoId"`
	}
	if !decode(w, r, &body) {
		return
	}
	s.writeView(w, sess.ToggleVideo(body.VideoID))
}

func (s *Server) handleSelectLocation(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var body struct {
		ID *string `json:"id"`
	}
	if !decode(w, r, &body) {
		return
	}

	loc, err := s.locationRef(body.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	s.writeView(w, sess.SelectLocation(loc))
}

// locationRef resolves an optional location id; nil closes the details.
func (s *Server) locationRef(id *string) (*model.Location, error) {
	if id == nil || *id == "" {
		return nil, nil
	}
	loc, err := s.findLocation(*id)
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	s.writeView(w, sess.ResetFilters())
}

func (s *Server) handleFilters(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	s.writeView(w, sess.ToggleFiltersPanel())
}

type clickTarget struct {
	Kind  selection.TargetKind `json:"kind"`
	Value *string              `json:"value"`
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var body struct {
		Path []clickTarget `json:"path"`
	}
	if !decode(w, r, &body) {
		return
	}

	click := selection.Click{Path: make([]selection.Target, 0, len(body.Path))}
	for _, t := range body.Path {
		target := selection.Target{Kind: t.Kind}
		switch t.Kind {
		case selection.TargetLocation:
			loc, err := s.locationRef(t.Value)
			if err != nil {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			target.Location = loc
		default:
			if t.Value != nil {
				target.ID = *t.Value
			}
		}
		click.Path = append(click.Path, target)
	}

	s.writeView(w, sess.Dispatch(click))
}

func (s *Server) handleAddFavourite(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "locationID")
	if _, err := s.findLocation(id); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	st, err := sess.AddFavourite(id)
	if err != nil {
		s.logger.Error("saving favourites", zap.String("session", sess.ID), zap.Error(err))
		http.Error(w, "saving favourites failed", http.StatusInternalServerError)
		return
	}
	s.writeView(w, st)
}

// handleRemoveFavourite accepts ids missing from the dataset so stale
// favourites can still be dropped.
func (s *Server) handleRemoveFavourite(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	st, err := sess.RemoveFavourite(chi.URLParam(r, "locationID"))
	if err != nil {
		s.logger.Error("saving favourites", zap.String("session", sess.ID), zap.Error(err))
		http.Error(w, "saving favourites failed", http.StatusInternalServerError)
		return
	}
	s.writeView(w, st)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return false
	}
	return true
}

// decodeOptional is decode that also accepts an empty body.
func decodeOptional(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v any) {
	writeJSONStatus(w, http.StatusOK, v)
}

func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		_, _ = w.Write([]byte("[]"))
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}
