// Package scraper pulls preview images from location websites.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/krzysiekprzekwas/maklowicz-map/internal/ratelimit"
)

// ErrNoImage is returned when a page declares no preview image.
var ErrNoImage = errors.New("no preview image")

const userAgent = "maklowicz-map/1.0 (+https://github.com/krzysiekprzekwas/maklowicz-map)"

// FetchPreviewImage downloads pageURL and returns the absolute URL of the
// image it advertises for link previews.
func FetchPreviewImage(ctx context.Context, client *http.Client, pageURL string, rl *ratelimit.Limiter) (string, error) {
	if err := rl.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("page returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parsing page HTML: %w", err)
	}

	img := ExtractPreviewImage(doc, resp.Request.URL)
	if img == "" {
		return "", ErrNoImage
	}
	return img, nil
}

var imageSelectors = []struct {
	selector string
	attr     string
}{
	{`meta[property="og:image"]`, "content"},
	{`meta[property="og:image:url"]`, "content"},
	{`meta[name="twitter:image"]`, "content"},
	{`meta[property="twitter:image"]`, "content"},
	{`link[rel="image_src"]`, "href"},
}

// ExtractPreviewImage returns the first preview image declared in doc,
// resolved against base. Empty when none is declared.
func ExtractPreviewImage(doc *goquery.Document, base *url.URL) string {
	for _, is := range imageSelectors {
		var found string
		doc.Find(is.selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			v, ok := s.Attr(is.attr)
			v = strings.TrimSpace(v)
			if ok && v != "" {
				found = v
				return false
			}
			return true
		})
		if found == "" {
			continue
		}
		if abs := absolutize(found, base); abs != "" {
			return abs
		}
	}
	return ""
}

func absolutize(ref string, base *url.URL) string {
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	if base != nil {
		u = base.ResolveReference(u)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return u.String()
}
