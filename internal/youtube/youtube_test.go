package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVideoID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/watch?list=PL1&v=dQw4w9WgXcQ&t=10", "dQw4w9WgXcQ"},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ?start=5", "dQw4w9WgXcQ"},
		{"  dQw4w9WgXcQ ", "dQw4w9WgXcQ"},
	}
	for _, tt := range tests {
		got, err := ParseVideoID(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"", "https://example.com/", "abc"} {
		_, err := ParseVideoID(bad)
		assert.ErrorIs(t, err, ErrInvalidURL, bad)
	}
}

// fakeAPI serves just enough of the Data API for the client.
func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	write := func(w http.ResponseWriter, v any) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(v); err != nil {
			t.Errorf("encoding response: %v", err)
		}
	}
	item := func(id, title string) map[string]any {
		return map[string]any{"snippet": map[string]any{
			"title":       title,
			"publishedAt": "2021-05-01T10:00:00Z",
			"resourceId":  map[string]any{"kind": "youtube#video", "videoId": id},
		}}
	}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case strings.HasSuffix(r.URL.Path, "/search"):
			write(w, map[string]any{"items": []any{
				map[string]any{"id": map[string]any{"kind": "youtube#channel", "channelId": "UC123"}},
			}})
		case strings.HasSuffix(r.URL.Path, "/playlists"):
			if q.Get("pageToken") == "" {
				write(w, map[string]any{"nextPageToken": "p2", "items": []any{
					map[string]any{"id": "PL1", "snippet": map[string]any{"title": "Polska"}},
				}})
				return
			}
			write(w, map[string]any{"items": []any{
				map[string]any{"id": "PL2", "snippet": map[string]any{"title": "Austria"}},
				map[string]any{"id": "PL3", "snippet": map[string]any{"title": "Pusta"}},
			}})
		case strings.HasSuffix(r.URL.Path, "/playlistItems"):
			switch q.Get("playlistId") {
			case "PL1":
				if q.Get("pageToken") == "" {
					write(w, map[string]any{"nextPageToken": "n", "items": []any{item("aaaaaaaaaaa", "KRAKÓW Smaki odc. 1")}})
					return
				}
				write(w, map[string]any{"items": []any{item("bbbbbbbbbbb", "Zakopane")}})
			case "PL2":
				write(w, map[string]any{"items": []any{item("ccccccccccc", "Wiedeń"), item("aaaaaaaaaaa", "KRAKÓW Smaki odc. 1")}})
			default:
				write(w, map[string]any{"items": []any{}})
			}
		case strings.HasSuffix(r.URL.Path, "/videos"):
			if q.Get("id") != "ddddddddddd" {
				write(w, map[string]any{"items": []any{}})
				return
			}
			write(w, map[string]any{"items": []any{
				map[string]any{"id": "ddddddddddd", "snippet": map[string]any{"title": "\"Gruzja\" odc.7", "publishedAt": "2022-01-01T00:00:00Z"}},
			}})
		default:
			http.NotFound(w, r)
		}
	}))
}

func testClient(t *testing.T) *Client {
	t.Helper()
	srv := fakeAPI(t)
	t.Cleanup(srv.Close)

	c, err := New(context.Background(), Options{
		Show:        "Robert Makłowicz w podróży",
		Concurrency: 2,
		Endpoint:    srv.URL + "/",
		HTTPClient:  srv.Client(),
	}, nil)
	require.NoError(t, err)
	return c
}

func TestFetchAll(t *testing.T) {
	c := testClient(t)

	ds, err := c.FetchAll(context.Background(), "Robert Makłowicz")
	require.NoError(t, err)

	var ids []string
	for _, v := range ds.Videos {
		ids = append(ids, v.VideoID)
	}
	assert.Equal(t, []string{"aaaaaaaaaaa", "bbbbbbbbbbb", "ccccccccccc"}, ids)

	first := ds.Videos[0]
	assert.Equal(t, "https://www.youtube.com/watch?v=aaaaaaaaaaa", first.VideoURL)
	assert.Equal(t, "Smaki (odc. 1)", first.FilterTitle)
	assert.Equal(t, "PL1", first.PlaylistID)
	assert.Equal(t, "Polska", first.PlaylistTitle)
	assert.Equal(t, "Robert Makłowicz w podróży", first.Show)
	assert.Equal(t, "2021-05-01T10:00:00Z", first.Date)
	assert.NotNil(t, first.Locations)
}

func TestPlaylistVideosEmpty(t *testing.T) {
	c := testClient(t)
	_, err := c.PlaylistVideos(context.Background(), "PL3", "Pusta")
	assert.True(t, errors.Is(err, ErrEmptyPlaylist))
}

func TestVideoDetails(t *testing.T) {
	c := testClient(t)

	v, err := c.VideoDetails(context.Background(), "https://youtu.be/ddddddddddd")
	require.NoError(t, err)
	assert.Equal(t, "Gruzja (odc. 7)", v.FilterTitle)
	assert.Equal(t, "2022-01-01T00:00:00Z", v.Date)

	_, err = c.VideoDetails(context.Background(), "https://youtu.be/eeeeeeeeeee")
	assert.ErrorIs(t, err, ErrVideoNotFound)
}

func TestNewRequiresKey(t *testing.T) {
	_, err := New(context.Background(), Options{}, nil)
	assert.Error(t, err)
}
