// handlers_test.go — movie API handler tests with a stubbed metadata client.
package movies

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/yourflock/marquee/internal/testutil"
	"github.com/yourflock/marquee/internal/tmdb"
)

// stubClient implements metadataClient from canned data.
type stubClient struct {
	trending []tmdb.Movie
	byID     map[int]*tmdb.Movie
	err      error
}

func (s *stubClient) Trending(ctx context.Context) ([]tmdb.Movie, error) {
	return s.trending, s.err
}

func (s *stubClient) Search(ctx context.Context, query string) ([]tmdb.Movie, error) {
	return s.trending, s.err
}

func (s *stubClient) Details(ctx context.Context, tmdbID int) (*tmdb.Movie, error) {
	if s.err != nil {
		return nil, s.err
	}
	m, ok := s.byID[tmdbID]
	if !ok {
		return nil, tmdb.ErrNotFound
	}
	return m, nil
}

func movieFromJSON(t *testing.T, raw string) tmdb.Movie {
	t.Helper()
	var m tmdb.Movie
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatalf("unmarshal movie: %v", err)
	}
	return m
}

func newTestHandler(t *testing.T) (*Handler, *stubClient) {
	t.Helper()
	fightClub := movieFromJSON(t, `{
		"id": 550, "title": "Fight Club", "overview": "An insomniac office worker...",
		"release_date": "1999-10-15", "poster_path": "/fc.jpg", "vote_average": 8.4,
		"runtime": 139, "genres": [{"id":18,"name":"Drama"}]
	}`)
	stub := &stubClient{
		trending: []tmdb.Movie{fightClub},
		byID:     map[int]*tmdb.Movie{550: &fightClub},
	}
	return NewHandler(stub, NewStreamProvider("https://vidsrc.to/embed/")), stub
}

func TestTrendingReshapesTMDBFields(t *testing.T) {
	h, _ := newTestHandler(t)
	rr := testutil.GetJSON(t, h, "/api/movies/trending")
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp struct {
		Results []struct {
			ID     int      `json:"id"`
			Title  string   `json:"title"`
			Poster string   `json:"poster"`
			Rating float64  `json:"rating"`
			Genres []string `json:"genres"`
		} `json:"results"`
	}
	testutil.DecodeJSON(t, rr, &resp)
	if len(resp.Results) != 1 {
		t.Fatalf("results = %d, want 1", len(resp.Results))
	}
	m := resp.Results[0]
	if m.ID != 550 || m.Title != "Fight Club" {
		t.Errorf("movie = %+v", m)
	}
	if m.Poster != "https://image.tmdb.org/t/p/w500/fc.jpg" {
		t.Errorf("poster = %q (poster_path must be resolved to a full URL)", m.Poster)
	}
	if len(m.Genres) != 1 || m.Genres[0] != "Drama" {
		t.Errorf("genres = %v", m.Genres)
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	h, _ := newTestHandler(t)

	testutil.AssertStatus(t, testutil.GetJSON(t, h, "/api/movies/search"), http.StatusBadRequest)
	testutil.AssertStatus(t, testutil.GetJSON(t, h, "/api/movies/search?q=fight+club"), http.StatusOK)
}

func TestDetails(t *testing.T) {
	h, _ := newTestHandler(t)

	rr := testutil.GetJSON(t, h, "/api/movies/550")
	testutil.AssertStatus(t, rr, http.StatusOK)
	var m struct {
		Runtime int `json:"runtime"`
	}
	testutil.DecodeJSON(t, rr, &m)
	if m.Runtime != 139 {
		t.Errorf("runtime = %d", m.Runtime)
	}

	testutil.AssertStatus(t, testutil.GetJSON(t, h, "/api/movies/999999"), http.StatusNotFound)
	testutil.AssertStatus(t, testutil.GetJSON(t, h, "/api/movies/not-a-number"), http.StatusBadRequest)
}

func TestStreamURL(t *testing.T) {
	h, _ := newTestHandler(t)

	rr := testutil.GetJSON(t, h, "/api/movies/550/stream")
	testutil.AssertStatus(t, rr, http.StatusOK)
	var resp struct {
		ID  int    `json:"id"`
		URL string `json:"url"`
	}
	testutil.DecodeJSON(t, rr, &resp)
	if resp.URL != "https://vidsrc.to/embed/movie/550" {
		t.Errorf("url = %q", resp.URL)
	}

	testutil.AssertStatus(t, testutil.GetJSON(t, h, "/api/movies/999999/stream"), http.StatusNotFound)
}

func TestUpstreamFailureIs502(t *testing.T) {
	h, stub := newTestHandler(t)
	stub.err = errors.New("tmdb: giving up after 3 attempts")

	rr := testutil.GetJSON(t, h, "/api/movies/trending")
	testutil.AssertStatus(t, rr, http.StatusBadGateway)
	// TMDB internals must not leak into the response body.
	if body := rr.Body.String(); strings.Contains(body, "tmdb") || strings.Contains(body, "attempts") {
		t.Errorf("upstream detail leaked: %s", body)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h, _ := newTestHandler(t)
	rr := testutil.PostJSON(t, h, "/api/movies/trending", map[string]string{})
	testutil.AssertStatus(t, rr, http.StatusMethodNotAllowed)
}

func TestStreamProviderTrimsTrailingSlash(t *testing.T) {
	for _, base := range []string{"https://vidsrc.to/embed", "https://vidsrc.to/embed/"} {
		p := NewStreamProvider(base)
		if got := p.MovieURL(603); got != "https://vidsrc.to/embed/movie/603" {
			t.Errorf("MovieURL(%q) = %q", base, got)
		}
	}
}
