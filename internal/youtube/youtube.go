// Package youtube fetches the show's videos from the YouTube Data API.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"github.com/krzysiekprzekwas/maklowicz-map/internal/model"
	"github.com/krzysiekprzekwas/maklowicz-map/internal/ratelimit"
	"github.com/krzysiekprzekwas/maklowicz-map/internal/titles"
)

var (
	ErrChannelNotFound = errors.New("channel not found")
	ErrVideoNotFound   = errors.New("video not found")
	ErrEmptyPlaylist   = errors.New("no videos found in playlist")
	ErrInvalidURL      = errors.New("invalid YouTube video URL")
)

// Options configures a Client.
type Options struct {
	APIKey      string
	Show        string
	RateLimit   float64
	Concurrency int

	// Endpoint and HTTPClient override the API location, for tests.
	Endpoint   string
	HTTPClient *http.Client
}

// Client wraps the YouTube Data API service.
type Client struct {
	svc         *yt.Service
	rl          *ratelimit.Limiter
	show        string
	concurrency int
	logger      *zap.Logger
}

// Playlist is a channel playlist.
type Playlist struct {
	ID    string
	Title string
}

// New creates a client.
func New(ctx context.Context, opts Options, logger *zap.Logger) (*Client, error) {
	var clientOpts []option.ClientOption
	if opts.HTTPClient != nil {
		clientOpts = append(clientOpts, option.WithHTTPClient(opts.HTTPClient))
	} else {
		if opts.APIKey == "" {
			return nil, fmt.Errorf("YOUTUBE_API_KEY not set")
		}
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	if opts.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(opts.Endpoint))
	}

	svc, err := yt.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating youtube service: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Client{
		svc:         svc,
		rl:          ratelimit.New(opts.RateLimit),
		show:        opts.Show,
		concurrency: opts.Concurrency,
		logger:      logger,
	}, nil
}

// ChannelID resolves a channel from a search query, or from an "@handle".
func (c *Client) ChannelID(ctx context.Context, query string) (string, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return "", err
	}

	if strings.HasPrefix(query, "@") {
		resp, err := c.svc.Channels.List([]string{"id"}).ForHandle(query).Context(ctx).Do()
		if err != nil {
			return "", fmt.Errorf("looking up handle %s: %w", query, err)
		}
		if len(resp.Items) == 0 {
			return "", fmt.Errorf("%w: %s", ErrChannelNotFound, query)
		}
		return resp.Items[0].Id, nil
	}

	resp, err := c.svc.Search.List([]string{"snippet"}).Q(query).Type("channel").MaxResults(1).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("searching channel %q: %w", query, err)
	}
	if len(resp.Items) == 0 || resp.Items[0].Id == nil || resp.Items[0].Id.ChannelId == "" {
		return "", fmt.Errorf("%w: %s", ErrChannelNotFound, query)
	}
	return resp.Items[0].Id.ChannelId, nil
}

// Playlists lists every playlist of a channel.
func (c *Client) Playlists(ctx context.Context, channelID string) ([]Playlist, error) {
	call := c.svc.Playlists.List([]string{"snippet"}).ChannelId(channelID).MaxResults(50)

	var out []Playlist
	token := ""
	for {
		if err := c.rl.Wait(ctx); err != nil {
			return nil, err
		}
		resp, err := call.PageToken(token).Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("listing playlists: %w", err)
		}
		for _, p := range resp.Items {
			if p.Id == "" || p.Snippet == nil || p.Snippet.Title == "" {
				continue
			}
			out = append(out, Playlist{ID: p.Id, Title: p.Snippet.Title})
		}
		if token = resp.NextPageToken; token == "" {
			return out, nil
		}
	}
}

// PlaylistVideos lists the videos of one playlist. A playlist with no
// videos is an error.
func (c *Client) PlaylistVideos(ctx context.Context, playlistID, playlistTitle string) ([]model.Video, error) {
	call := c.svc.PlaylistItems.List([]string{"snippet"}).PlaylistId(playlistID).MaxResults(50)

	var videos []model.Video
	token := ""
	for {
		if err := c.rl.Wait(ctx); err != nil {
			return nil, err
		}
		resp, err := call.PageToken(token).Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("listing playlist %s: %w", playlistID, err)
		}
		for _, item := range resp.Items {
			sn := item.Snippet
			if sn == nil || sn.ResourceId == nil || sn.ResourceId.VideoId == "" {
				continue
			}
			v := c.newVideo(sn.ResourceId.VideoId, sn.Title, sn.PublishedAt)
			v.PlaylistID = playlistID
			v.PlaylistTitle = playlistTitle
			videos = append(videos, v)
		}
		if token = resp.NextPageToken; token == "" {
			break
		}
	}

	if len(videos) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyPlaylist, playlistTitle)
	}
	return videos, nil
}

// VideoDetails fetches one video by URL.
func (c *Client) VideoDetails(ctx context.Context, videoURL string) (model.Video, error) {
	id, err := ParseVideoID(videoURL)
	if err != nil {
		return model.Video{}, err
	}
	if err := c.rl.Wait(ctx); err != nil {
		return model.Video{}, err
	}

	resp, err := c.svc.Videos.List([]string{"snippet"}).Id(id).Context(ctx).Do()
	if err != nil {
		return model.Video{}, fmt.Errorf("fetching video %s: %w", id, err)
	}
	if len(resp.Items) == 0 || resp.Items[0].Snippet == nil {
		return model.Video{}, fmt.Errorf("%w: %s", ErrVideoNotFound, id)
	}
	sn := resp.Items[0].Snippet
	return c.newVideo(id, sn.Title, sn.PublishedAt), nil
}

func (c *Client) newVideo(id, title, publishedAt string) model.Video {
	return model.Video{
		VideoID:     id,
		VideoURL:    WatchURL(id),
		Title:       title,
		FilterTitle: titles.FilterTitle(title),
		Date:        publishedAt,
		Show:        c.show,
		Locations:   []model.Location{},
	}
}

// FetchAll collects the videos of every playlist of the channel found by
// query. Playlists are fetched concurrently; a failing playlist is logged
// and skipped. A video listed in several playlists is kept once, under the
// first playlist.
func (c *Client) FetchAll(ctx context.Context, query string) (*model.Dataset, error) {
	channelID, err := c.ChannelID(ctx, query)
	if err != nil {
		return nil, err
	}
	c.logger.Info("found channel", zap.String("channel", channelID))

	playlists, err := c.Playlists(ctx, channelID)
	if err != nil {
		return nil, err
	}
	c.logger.Info("found playlists", zap.Int("count", len(playlists)))

	results := make([][]model.Video, len(playlists))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, p := range playlists {
		g.Go(func() error {
			videos, err := c.PlaylistVideos(gctx, p.ID, p.Title)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				c.logger.Warn("skipping playlist", zap.String("playlist", p.Title), zap.Error(err))
				return nil
			}
			c.logger.Debug("fetched playlist", zap.String("playlist", p.Title), zap.Int("videos", len(videos)))
			results[i] = videos
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ds := &model.Dataset{Videos: []model.Video{}}
	seen := make(map[string]bool)
	for _, videos := range results {
		for _, v := range videos {
			if seen[v.VideoID] {
				continue
			}
			seen[v.VideoID] = true
			ds.Videos = append(ds.Videos, v)
		}
	}
	return ds, nil
}

var videoIDPattern = regexp.MustCompile(`(?:v=|/)([a-zA-Z0-9_-]{11})`)
var bareID = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)

// ParseVideoID extracts the 11-character video id from a watch, short or
// embed URL, or accepts a bare id.
func ParseVideoID(videoURL string) (string, error) {
	s := strings.TrimSpace(videoURL)
	if bareID.MatchString(s) {
		return s, nil
	}
	m := videoIDPattern.FindStringSubmatch(s)
	if m == nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidURL, videoURL)
	}
	return m[1], nil
}

// WatchURL returns the canonical watch URL for a video id.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}
