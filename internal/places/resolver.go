package places

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"

	"go.uber.org/zap"
	"googlemaps.github.io/maps"

	"github.com/krzysiekprzekwas/maklowicz-map/internal/model"
	"github.com/krzysiekprzekwas/maklowicz-map/internal/ratelimit"
)

// ErrNotFound is returned when no lookup could place the link.
var ErrNotFound = errors.New("could not find place details")

// resultLanguage makes Google return Polish country names, matching the
// dataset.
const resultLanguage = "pl"

// Options configures a Resolver.
type Options struct {
	APIKey    string
	RateLimit float64

	// BaseURL and HTTPClient override the API location, for tests.
	BaseURL    string
	HTTPClient *http.Client
}

// Resolver looks up Maps links through the Google Maps web services.
type Resolver struct {
	maps   *maps.Client
	http   *http.Client
	rl     *ratelimit.Limiter
	logger *zap.Logger
}

// NewResolver creates a resolver.
func NewResolver(opts Options, logger *zap.Logger) (*Resolver, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("GOOGLE_MAPS_API_KEY not set")
	}
	clientOpts := []maps.ClientOption{maps.WithAPIKey(opts.APIKey)}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, maps.WithBaseURL(opts.BaseURL))
	}
	if opts.HTTPClient != nil {
		clientOpts = append(clientOpts, maps.WithHTTPClient(opts.HTTPClient))
	}

	mc, err := maps.NewClient(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating maps client: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		maps:   mc,
		http:   opts.HTTPClient,
		rl:     ratelimit.New(opts.RateLimit),
		logger: logger,
	}, nil
}

// Resolve turns a Maps link into a location. Lookups are tried in order
// until one succeeds; as a last resort the name and coordinates in the
// link itself are used.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) (model.Location, error) {
	if IsShortURL(rawURL) {
		long, err := ResolveShortURL(ctx, r.http, rawURL)
		if err != nil {
			return model.Location{}, err
		}
		r.logger.Debug("resolved short URL", zap.String("url", long))
		rawURL = long
	}

	ref, err := ParseURL(rawURL)
	if err != nil {
		return model.Location{}, err
	}

	loc, err := r.lookup(ctx, ref)
	if err != nil {
		if ctx.Err() != nil {
			return model.Location{}, ctx.Err()
		}
		r.logger.Warn("lookups failed, using link data", zap.Error(err))
		loc, err = fromLink(ref)
		if err != nil {
			return model.Location{}, err
		}
	}

	if loc.Country == "" && ref.CountryCode != "" {
		loc.Country = CountryName(ref.CountryCode)
	}
	loc.ID = GenerateID(loc.Name)
	loc.GoogleMapsLink = rawURL
	return loc, nil
}

func (r *Resolver) lookup(ctx context.Context, ref Ref) (model.Location, error) {
	if ref.Name != "" && ref.HasCoords {
		loc, err := r.reverseGeocode(ctx, ref)
		if err == nil {
			return loc, nil
		}
		r.logger.Debug("reverse geocoding failed", zap.Error(err))

		loc, err = r.nearby(ctx, ref)
		if err == nil {
			return loc, nil
		}
		r.logger.Debug("nearby search failed", zap.Error(err))
		return fromLink(ref)
	}

	if ref.PlaceID != "" {
		loc, err := r.details(ctx, ref.PlaceID)
		if err == nil {
			return loc, nil
		}
		r.logger.Debug("place details failed", zap.Error(err))
	}

	query := ref.Name
	if query == "" {
		query = ref.PlaceID
	}
	if query == "" || !geocodable.MatchString(query) {
		return model.Location{}, ErrNotFound
	}
	return r.geocode(ctx, query)
}

// geocodable excludes bare numeric ids, which the geocoder cannot place.
var geocodable = regexp.MustCompile(`[^\d]`)

func (r *Resolver) reverseGeocode(ctx context.Context, ref Ref) (model.Location, error) {
	if err := r.rl.Wait(ctx); err != nil {
		return model.Location{}, err
	}
	results, err := r.maps.ReverseGeocode(ctx, &maps.GeocodingRequest{
		LatLng:   &maps.LatLng{Lat: ref.Lat, Lng: ref.Lng},
		Language: resultLanguage,
	})
	if err != nil {
		return model.Location{}, err
	}
	if len(results) == 0 {
		return model.Location{}, ErrNotFound
	}
	res := results[0]
	return model.Location{
		Name:      ref.Name,
		Latitude:  ref.Lat,
		Longitude: ref.Lng,
		Address:   res.FormattedAddress,
		Country:   countryOf(res.AddressComponents),
		Type:      TypeFromName(ref.Name),
	}, nil
}

func (r *Resolver) nearby(ctx context.Context, ref Ref) (model.Location, error) {
	if err := r.rl.Wait(ctx); err != nil {
		return model.Location{}, err
	}
	resp, err := r.maps.NearbySearch(ctx, &maps.NearbySearchRequest{
		Location: &maps.LatLng{Lat: ref.Lat, Lng: ref.Lng},
		Radius:   100,
		Keyword:  ref.Name,
		Language: resultLanguage,
	})
	if err != nil {
		return model.Location{}, err
	}
	if len(resp.Results) == 0 {
		return model.Location{}, ErrNotFound
	}
	place := resp.Results[0]

	loc := model.Location{
		Name:      place.Name,
		Latitude:  place.Geometry.Location.Lat,
		Longitude: place.Geometry.Location.Lng,
		Address:   place.Vicinity,
		Type:      TypeFromPlaceTypes(place.Types),
	}
	if loc.Name == "" {
		loc.Name = ref.Name
	}
	if loc.Latitude == 0 && loc.Longitude == 0 {
		loc.Latitude, loc.Longitude = ref.Lat, ref.Lng
	}
	return loc, nil
}

func (r *Resolver) details(ctx context.Context, placeID string) (model.Location, error) {
	if err := r.rl.Wait(ctx); err != nil {
		return model.Location{}, err
	}
	place, err := r.maps.PlaceDetails(ctx, &maps.PlaceDetailsRequest{
		PlaceID:  placeID,
		Language: resultLanguage,
		Fields: []maps.PlaceDetailsFieldMask{
			maps.PlaceDetailsFieldMaskName,
			maps.PlaceDetailsFieldMaskFormattedAddress,
			maps.PlaceDetailsFieldMaskWebsite,
			maps.PlaceDetailsFieldMaskTypes,
			maps.PlaceDetailsFieldMaskGeometry,
			maps.PlaceDetailsFieldMaskAddressComponent,
		},
	})
	if err != nil {
		return model.Location{}, err
	}
	if place.Name == "" {
		return model.Location{}, fmt.Errorf("place %s has no name", placeID)
	}
	return model.Location{
		Name:       place.Name,
		Latitude:   place.Geometry.Location.Lat,
		Longitude:  place.Geometry.Location.Lng,
		Address:    place.FormattedAddress,
		Country:    countryOf(place.AddressComponents),
		Type:       TypeFromPlaceTypes(place.Types),
		WebsiteURL: place.Website,
	}, nil
}

func (r *Resolver) geocode(ctx context.Context, query string) (model.Location, error) {
	if err := r.rl.Wait(ctx); err != nil {
		return model.Location{}, err
	}
	results, err := r.maps.Geocode(ctx, &maps.GeocodingRequest{
		Address:  query,
		Language: resultLanguage,
	})
	if err != nil {
		return model.Location{}, err
	}
	if len(results) == 0 {
		return model.Location{}, ErrNotFound
	}
	res := results[0]
	return model.Location{
		Name:      query,
		Latitude:  res.Geometry.Location.Lat,
		Longitude: res.Geometry.Location.Lng,
		Address:   res.FormattedAddress,
		Country:   countryOf(res.AddressComponents),
		Type:      TypeFromName(query),
	}, nil
}

// fromLink builds a location from the link alone; it needs a name and
// coordinates.
func fromLink(ref Ref) (model.Location, error) {
	if ref.Name == "" {
		return model.Location{}, fmt.Errorf("%w: no place name in URL", ErrNotFound)
	}
	if !ref.HasCoords {
		return model.Location{}, fmt.Errorf("%w: no coordinates in URL", ErrNotFound)
	}
	return model.Location{
		Name:      ref.Name,
		Latitude:  ref.Lat,
		Longitude: ref.Lng,
		Type:      TypeFromName(ref.Name),
	}, nil
}

func countryOf(components []maps.AddressComponent) string {
	for _, c := range components {
		for _, t := range c.Types {
			if t == "country" {
				return c.LongName
			}
		}
	}
	return ""
}
