package platform

import (
	"fmt"
	"net/url"
	"strings"
)

// URL parameters and templates
const (
	PlaylistParam           = "list"
	YouTubeVideoURLTemplate = "https://www.youtube.com/watch?v=%s"
)

// CleanURL strips control characters and surrounding whitespace that
// commonly sneak in through copy and paste.
func CleanURL(raw string) string {
	cleaned := strings.ReplaceAll(raw, "\n", "")
	cleaned = strings.ReplaceAll(cleaned, "\r", "")
	cleaned = strings.ReplaceAll(cleaned, "\t", " ")
	return strings.TrimSpace(cleaned)
}

// ValidateURL checks that raw is an absolute http(s) URL
func ValidateURL(raw string) error {
	u, err := url.Parse(CleanURL(raw))
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme: %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid URL: missing host")
	}
	return nil
}

// IsPlaylistURL reports whether the URL carries a non-empty list= parameter
func IsPlaylistURL(raw string) bool {
	return ExtractPlaylistID(raw) != ""
}

// ExtractPlaylistID returns the first list= value of the URL, or "".
// Supported forms include:
//   - https://www.youtube.com/playlist?list=PLAYLIST_ID
//   - https://www.youtube.com/watch?v=VIDEO_ID&list=PLAYLIST_ID&index=2
func ExtractPlaylistID(raw string) string {
	u, err := url.Parse(CleanURL(raw))
	if err != nil {
		return ""
	}
	return u.Query().Get(PlaylistParam)
}

// VideoURL builds the watch URL for a YouTube video id
func VideoURL(videoID string) string {
	return fmt.Sprintf(YouTubeVideoURLTemplate, videoID)
}
