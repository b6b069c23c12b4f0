// stream.go — playback URL resolution.
//
// The stream provider is an external embed service addressed by URL template;
// Marquee never touches video bytes. The template base comes from config.
package movies

import (
	"fmt"
	"strings"
)

// StreamProvider builds playback URLs for the configured embed service.
type StreamProvider struct {
	baseURL string
}

// NewStreamProvider creates a provider for the given embed base URL,
// e.g. "https://vidsrc.to/embed".
func NewStreamProvider(baseURL string) *StreamProvider {
	return &StreamProvider{baseURL: strings.TrimRight(baseURL, "/")}
}

// MovieURL returns the embed player URL for a TMDB movie ID.
func (p *StreamProvider) MovieURL(tmdbID int) string {
	return fmt.Sprintf("%s/movie/%d", p.baseURL, tmdbID)
}
