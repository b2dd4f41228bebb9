package platform

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	goytdlp "github.com/lrstanley/go-ytdlp"
	ytdlp "github.com/ytget/ytdlp/v2"

	"github.com/ytget/bulk-downloader/internal/model"
)

// Fetcher defaults
const (
	DefaultFetchTimeout = 60 * time.Second
	ytdlpErrorPrefix    = "ERROR:"
)

// FetchError describes a failed playlist fetch. Detail holds the error line
// reported by yt-dlp when one was captured.
type FetchError struct {
	URL    string
	Detail string
	Err    error
}

func (e *FetchError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("fetch playlist %s: %s", e.URL, e.Detail)
	}
	return fmt.Sprintf("fetch playlist %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// UserMessage returns the text shown on the bulk screen
func (e *FetchError) UserMessage() string {
	if e.Detail != "" {
		return e.Detail
	}
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return "timed out while loading the playlist"
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "failed to load the playlist"
}

// runFunc executes yt-dlp for url and returns its captured output
type runFunc func(ctx context.Context, executable, url string) (stdout, stderr string, err error)

// flatFunc lists the ids and titles of a playlist without per-video metadata
type flatFunc func(ctx context.Context, playlistID string) ([]model.VideoEntry, error)

// PlaylistFetcher loads playlist metadata through yt-dlp
type PlaylistFetcher struct {
	executable string
	timeout    time.Duration
	logger     *slog.Logger

	run  runFunc
	flat flatFunc
}

// FetcherOption configures a PlaylistFetcher
type FetcherOption func(*PlaylistFetcher)

// WithExecutable overrides the yt-dlp binary. Empty means lookup in PATH.
func WithExecutable(path string) FetcherOption {
	return func(f *PlaylistFetcher) {
		f.executable = path
	}
}

// WithFetchTimeout bounds a single fetch. Non-positive values keep the default.
func WithFetchTimeout(timeout time.Duration) FetcherOption {
	return func(f *PlaylistFetcher) {
		if timeout > 0 {
			f.timeout = timeout
		}
	}
}

// WithFetcherLogger sets the logger
func WithFetcherLogger(logger *slog.Logger) FetcherOption {
	return func(f *PlaylistFetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewPlaylistFetcher creates a fetcher backed by the yt-dlp binary for full
// metadata and by the native playlist client for flat listings.
func NewPlaylistFetcher(opts ...FetcherOption) *PlaylistFetcher {
	f := &PlaylistFetcher{
		timeout: DefaultFetchTimeout,
		logger:  slog.Default(),
		run:     runYTDLP,
		flat:    listPlaylistItems,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchPlaylist returns the playlist at url. With extractFlat entries only
// carry ids, titles and watch URLs; otherwise yt-dlp resolves full metadata
// for every entry.
func (f *PlaylistFetcher) FetchPlaylist(ctx context.Context, url string, extractFlat bool) (*model.PlaylistInfo, error) {
	url = CleanURL(url)
	if err := ValidateURL(url); err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	start := time.Now()
	var (
		info *model.PlaylistInfo
		err  error
	)
	if extractFlat {
		info, err = f.fetchFlat(ctx, url)
	} else {
		info, err = f.fetchFull(ctx, url)
	}
	if err != nil {
		f.logger.Warn("playlist fetch failed", "url", url, "flat", extractFlat, "error", err)
		return nil, err
	}

	f.logger.Info("playlist fetched",
		"url", url,
		"flat", extractFlat,
		"entries", info.Len(),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return info, nil
}

func (f *PlaylistFetcher) fetchFull(ctx context.Context, url string) (*model.PlaylistInfo, error) {
	stdout, stderr, runErr := f.run(ctx, f.executable, url)
	if runErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, &FetchError{URL: url, Detail: lastErrorLine(stderr), Err: ctxErr}
		}
		if strings.TrimSpace(stdout) == "" {
			return nil, &FetchError{URL: url, Detail: lastErrorLine(stderr), Err: runErr}
		}
	}

	info, err := parsePlaylistJSON([]byte(stdout))
	if err != nil {
		if runErr != nil {
			return nil, &FetchError{URL: url, Detail: lastErrorLine(stderr), Err: runErr}
		}
		return nil, &FetchError{URL: url, Err: err}
	}
	if runErr != nil {
		// --ignore-errors exits non-zero when some entries were unavailable
		f.logger.Warn("playlist entries skipped",
			"url", url,
			"detail", lastErrorLine(stderr),
			"error", runErr,
		)
	}
	return info, nil
}

func (f *PlaylistFetcher) fetchFlat(ctx context.Context, url string) (*model.PlaylistInfo, error) {
	playlistID := ExtractPlaylistID(url)
	if playlistID == "" {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("could not extract playlist ID from URL")}
	}

	entries, err := f.flat(ctx, playlistID)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	return &model.PlaylistInfo{ID: playlistID, Entries: entries}, nil
}

// runYTDLP dumps the playlist as a single JSON document without downloading
func runYTDLP(ctx context.Context, executable, url string) (string, string, error) {
	cmd := goytdlp.New().
		DumpSingleJSON().
		SkipDownload().
		IgnoreErrors()
	if executable != "" {
		cmd = cmd.SetExecutable(executable)
	}

	res, err := cmd.Run(ctx, url)
	if res == nil {
		return "", "", err
	}
	return res.Stdout, res.Stderr, err
}

// listPlaylistItems uses the native client, which needs no yt-dlp binary
func listPlaylistItems(ctx context.Context, playlistID string) ([]model.VideoEntry, error) {
	items, err := ytdlp.New().GetPlaylistItemsAll(ctx, playlistID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist items: %w", err)
	}

	entries := make([]model.VideoEntry, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if it.VideoID == "" {
			continue
		}
		if _, dup := seen[it.VideoID]; dup {
			continue
		}
		seen[it.VideoID] = struct{}{}
		entries = append(entries, model.VideoEntry{
			ID:    it.VideoID,
			Title: it.Title,
			URL:   VideoURL(it.VideoID),
		})
	}
	return entries, nil
}

// playlistDocument mirrors the subset of yt-dlp's info JSON we consume
type playlistDocument struct {
	Type       string              `json:"_type"`
	ID         string              `json:"id"`
	Title      string              `json:"title"`
	Uploader   string              `json:"uploader"`
	Channel    string              `json:"channel"`
	Thumbnail  string              `json:"thumbnail"`
	Duration   float64             `json:"duration"`
	URL        string              `json:"url"`
	WebpageURL string              `json:"webpage_url"`
	Entries    []*playlistDocument `json:"entries"`
}

func (d *playlistDocument) uploader() string {
	if d.Uploader != "" {
		return d.Uploader
	}
	return d.Channel
}

// watchURL prefers the canonical page URL over a raw media URL
func (d *playlistDocument) watchURL() string {
	switch {
	case d.WebpageURL != "":
		return d.WebpageURL
	case strings.HasPrefix(d.URL, "http"):
		return d.URL
	case d.ID != "":
		return VideoURL(d.ID)
	default:
		return ""
	}
}

func (d *playlistDocument) toEntry() model.VideoEntry {
	return model.VideoEntry{
		ID:        d.ID,
		Title:     d.Title,
		Uploader:  d.uploader(),
		Thumbnail: d.Thumbnail,
		Duration:  time.Duration(d.Duration * float64(time.Second)),
		URL:       d.watchURL(),
	}
}

// parsePlaylistJSON converts a --dump-single-json document. A single video
// document becomes a one-entry playlist. Unavailable entries (null),
// entries without an id and repeated ids are skipped.
func parsePlaylistJSON(data []byte) (*model.PlaylistInfo, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errors.New("yt-dlp returned no metadata")
	}

	var doc playlistDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse yt-dlp output: %w", err)
	}

	info := &model.PlaylistInfo{
		ID:        doc.ID,
		Title:     doc.Title,
		Uploader:  doc.uploader(),
		Thumbnail: doc.Thumbnail,
	}

	if doc.Type != "playlist" && len(doc.Entries) == 0 {
		if doc.ID != "" {
			info.Entries = []model.VideoEntry{doc.toEntry()}
		}
		return info, nil
	}

	info.Entries = make([]model.VideoEntry, 0, len(doc.Entries))
	seen := make(map[string]struct{}, len(doc.Entries))
	for _, e := range doc.Entries {
		if e == nil || e.ID == "" {
			continue
		}
		if _, dup := seen[e.ID]; dup {
			continue
		}
		seen[e.ID] = struct{}{}
		info.Entries = append(info.Entries, e.toEntry())
	}
	return info, nil
}

// lastErrorLine returns the last "ERROR:" line of yt-dlp's stderr without
// the prefix, or "" when there is none.
func lastErrorLine(stderr string) string {
	lines := strings.Split(strings.ReplaceAll(stderr, "\r\n", "\n"), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if strings.HasPrefix(line, ytdlpErrorPrefix) {
			return strings.TrimSpace(strings.TrimPrefix(line, ytdlpErrorPrefix))
		}
	}
	return ""
}
