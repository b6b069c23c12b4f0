// Package movies serves the protected movie-browsing API. Every handler
// assumes auth.RequireSession already ran; the handlers validate input, call
// TMDB, and reshape its JSON for the client.
//
// Routes (all under /api/movies, Bearer token required):
//
//	GET /api/movies/trending
//	GET /api/movies/search?q=...
//	GET /api/movies/{id}
//	GET /api/movies/{id}/stream
package movies

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/yourflock/marquee/internal/auth"
	"github.com/yourflock/marquee/internal/tmdb"
	"github.com/yourflock/marquee/internal/validate"
	"github.com/yourflock/marquee/pkg/telemetry"
)

// movieJSON is the API's shape for one movie: TMDB fields plus resolved
// image URLs.
type movieJSON struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Overview    string   `json:"overview"`
	ReleaseDate string   `json:"release_date"`
	Poster      string   `json:"poster,omitempty"`
	Backdrop    string   `json:"backdrop,omitempty"`
	Rating      float64  `json:"rating"`
	Runtime     int      `json:"runtime,omitempty"`
	Genres      []string `json:"genres,omitempty"`
}

// streamJSON is the response for the stream-URL endpoint.
type streamJSON struct {
	ID  int    `json:"id"`
	URL string `json:"url"`
}

func toMovieJSON(m *tmdb.Movie) movieJSON {
	return movieJSON{
		ID:          m.ID,
		Title:       m.Title,
		Overview:    m.Overview,
		ReleaseDate: m.ReleaseDate,
		Poster:      m.PosterURL(),
		Backdrop:    m.BackdropURL(),
		Rating:      m.VoteAverage,
		Runtime:     m.Runtime,
		Genres:      m.GenreNames(),
	}
}

// metadataClient is the slice of the TMDB client the handlers need.
// Satisfied by *tmdb.Client; tests substitute a stub.
type metadataClient interface {
	Trending(ctx context.Context) ([]tmdb.Movie, error)
	Search(ctx context.Context, query string) ([]tmdb.Movie, error)
	Details(ctx context.Context, tmdbID int) (*tmdb.Movie, error)
}

// Handler routes everything under /api/movies/.
type Handler struct {
	client  metadataClient
	streams *StreamProvider
}

// NewHandler creates the movie API handler.
func NewHandler(client metadataClient, streams *StreamProvider) *Handler {
	return &Handler{client: client, streams: streams}
}

// ServeHTTP dispatches on the path segment after /api/movies/.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		auth.WriteError(w, http.StatusMethodNotAllowed, "method_not_allowed", "GET required")
		return
	}

	switch seg := pathSegment(r.URL.Path, 2); seg {
	case "", "trending":
		h.trending(w, r)
	case "search":
		h.search(w, r)
	default:
		id, err := validate.MovieID("id", seg)
		if err != nil {
			auth.WriteError(w, http.StatusBadRequest, "invalid_id", err.Error())
			return
		}
		switch pathSegment(r.URL.Path, 3) {
		case "":
			h.details(w, r, id)
		case "stream":
			h.stream(w, r, id)
		default:
			auth.WriteError(w, http.StatusNotFound, "not_found", "unknown movie route")
		}
	}
}

func (h *Handler) trending(w http.ResponseWriter, r *http.Request) {
	results, err := h.client.Trending(r.Context())
	if err != nil {
		h.upstreamError(w, err, "tmdb_trending")
		return
	}
	h.writeList(w, results)
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if err := validate.SearchQuery("q", query); err != nil {
		auth.WriteError(w, http.StatusBadRequest, "invalid_query", err.Error())
		return
	}

	results, err := h.client.Search(r.Context(), query)
	if err != nil {
		h.upstreamError(w, err, "tmdb_search")
		return
	}
	h.writeList(w, results)
}

func (h *Handler) details(w http.ResponseWriter, r *http.Request, id int) {
	movie, err := h.client.Details(r.Context(), id)
	if errors.Is(err, tmdb.ErrNotFound) {
		auth.WriteError(w, http.StatusNotFound, "not_found", "movie not found")
		return
	}
	if err != nil {
		h.upstreamError(w, err, "tmdb_details")
		return
	}
	auth.WriteJSON(w, http.StatusOK, toMovieJSON(movie))
}

// stream resolves the playback URL. The movie is looked up first so unknown
// IDs return 404 instead of a dead embed link.
func (h *Handler) stream(w http.ResponseWriter, r *http.Request, id int) {
	movie, err := h.client.Details(r.Context(), id)
	if errors.Is(err, tmdb.ErrNotFound) {
		auth.WriteError(w, http.StatusNotFound, "not_found", "movie not found")
		return
	}
	if err != nil {
		h.upstreamError(w, err, "tmdb_details")
		return
	}

	auth.WriteJSON(w, http.StatusOK, streamJSON{
		ID:  movie.ID,
		URL: h.streams.MovieURL(movie.ID),
	})
}

func (h *Handler) writeList(w http.ResponseWriter, results []tmdb.Movie) {
	out := make([]movieJSON, 0, len(results))
	for i := range results {
		out = append(out, toMovieJSON(&results[i]))
	}
	auth.WriteJSON(w, http.StatusOK, map[string]interface{}{"results": out})
}

// upstreamError maps any metadata-provider failure to a single 502 so TMDB
// internals never leak to clients.
func (h *Handler) upstreamError(w http.ResponseWriter, err error, operation string) {
	telemetry.CaptureError(err, map[string]string{"operation": operation})
	auth.WriteError(w, http.StatusBadGateway, "upstream_error", "Movie data is temporarily unavailable")
}

// pathSegment returns the nth segment of a /-separated path, or "".
func pathSegment(path string, n int) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if n >= len(parts) {
		return ""
	}
	return parts[n]
}
