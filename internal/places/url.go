// Package places turns Google Maps links into dataset locations.
package places

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// ErrUnrecognizedURL is returned when a link names no place.
var ErrUnrecognizedURL = errors.New("could not extract place ID or name from URL")

// Ref is what a Maps link says about a place before any API lookup.
type Ref struct {
	PlaceID     string
	CID         string
	Name        string
	Lat, Lng    float64
	HasCoords   bool
	CountryCode string
}

var (
	placeIDRe = regexp.MustCompile(`place_id=([^&]+)`)
	cidRe     = regexp.MustCompile(`cid=(\d+)`)
	placeRe   = regexp.MustCompile(`place/([^/]+)`)
	coordsRe  = regexp.MustCompile(`@(-?\d+\.\d+),(-?\d+\.\d+)`)
	glRe      = regexp.MustCompile(`[?&]gl=([A-Za-z]{2})`)
)

// ParseURL extracts the place reference from a Maps link: a place_id
// parameter, a cid parameter, or a /place/<name>/@lat,lng path, in that
// order. The gl parameter, when present, gives the country code.
func ParseURL(raw string) (Ref, error) {
	var ref Ref
	if m := glRe.FindStringSubmatch(raw); m != nil {
		ref.CountryCode = strings.ToUpper(m[1])
	}
	if m := coordsRe.FindStringSubmatch(raw); m != nil {
		lat, errLat := strconv.ParseFloat(m[1], 64)
		lng, errLng := strconv.ParseFloat(m[2], 64)
		if errLat == nil && errLng == nil {
			ref.Lat, ref.Lng, ref.HasCoords = lat, lng, true
		}
	}

	switch {
	case placeIDRe.MatchString(raw):
		id, err := url.QueryUnescape(placeIDRe.FindStringSubmatch(raw)[1])
		if err != nil {
			return Ref{}, fmt.Errorf("decoding place_id: %w", err)
		}
		ref.PlaceID = id
	case cidRe.MatchString(raw):
		ref.CID = cidRe.FindStringSubmatch(raw)[1]
	case placeRe.MatchString(raw):
		name, err := url.QueryUnescape(placeRe.FindStringSubmatch(raw)[1])
		if err != nil {
			return Ref{}, fmt.Errorf("decoding place name: %w", err)
		}
		ref.Name = strings.TrimSpace(name)
	default:
		return Ref{}, ErrUnrecognizedURL
	}
	return ref, nil
}

// IsShortURL reports whether raw is a shortened Maps link.
func IsShortURL(raw string) bool {
	return strings.Contains(raw, "maps.app.goo.gl") || strings.Contains(raw, "goo.gl")
}

const maxRedirects = 5

// ResolveShortURL follows the redirects of a shortened link and returns the
// final URL.
func ResolveShortURL(ctx context.Context, client *http.Client, raw string) (string, error) {
	if client == nil {
		client = http.DefaultClient
	}
	c := *client
	c.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return fmt.Errorf("stopped after %d redirects", maxRedirects)
		}
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, raw, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	resp, err := c.Do(req)
	if err != nil {
		return "", fmt.Errorf("resolving short URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("resolving short URL: status %d", resp.StatusCode)
	}
	return resp.Request.URL.String(), nil
}

// CountryName returns the Polish name of an ISO 3166 region code, or the
// code itself when it is unknown.
func CountryName(code string) string {
	region, err := language.ParseRegion(strings.ToUpper(code))
	if err != nil {
		return strings.ToUpper(code)
	}
	if name := display.Polish.Regions().Name(region); name != "" {
		return name
	}
	return strings.ToUpper(code)
}
