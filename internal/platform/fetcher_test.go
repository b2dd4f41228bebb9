package platform

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/bulk-downloader/internal/model"
)

const samplePlaylistJSON = `{
  "_type": "playlist",
  "id": "PL123",
  "title": "Lectures",
  "channel": "Uni",
  "entries": [
    {"id": "a1", "title": "Intro", "uploader": "Prof", "duration": 61, "webpage_url": "https://www.youtube.com/watch?v=a1", "thumbnail": "https://i/a1.jpg"},
    null,
    {"id": "", "title": "broken"},
    {"id": "b2", "title": "Part 2", "duration": 3725}
  ]
}`

func newTestFetcher(run runFunc, flat flatFunc) *PlaylistFetcher {
	f := NewPlaylistFetcher(WithFetchTimeout(time.Second))
	if run != nil {
		f.run = run
	}
	if flat != nil {
		f.flat = flat
	}
	return f
}

func TestFetchPlaylistFull(t *testing.T) {
	var gotURL string
	f := newTestFetcher(func(ctx context.Context, exe, url string) (string, string, error) {
		gotURL = url
		return samplePlaylistJSON, "", nil
	}, nil)

	info, err := f.FetchPlaylist(context.Background(), " https://www.youtube.com/playlist?list=PL123\n", false)
	require.NoError(t, err)

	assert.Equal(t, "https://www.youtube.com/playlist?list=PL123", gotURL)
	assert.Equal(t, "PL123", info.ID)
	assert.Equal(t, "Lectures", info.Title)
	assert.Equal(t, "Uni", info.Uploader)
	require.Len(t, info.Entries, 2)

	first := info.Entries[0]
	assert.Equal(t, "a1", first.ID)
	assert.Equal(t, "Prof", first.Uploader)
	assert.Equal(t, "01:01", first.DurationString())
	assert.Equal(t, "https://www.youtube.com/watch?v=a1", first.URL)

	second := info.Entries[1]
	assert.Equal(t, "b2", second.ID)
	assert.Equal(t, "01:02:05", second.DurationString())
	assert.Equal(t, "https://www.youtube.com/watch?v=b2", second.URL)
}

func TestFetchPlaylistSingleVideo(t *testing.T) {
	f := newTestFetcher(func(ctx context.Context, exe, url string) (string, string, error) {
		return `{"_type":"video","id":"v1","title":"Solo","duration":10}`, "", nil
	}, nil)

	info, err := f.FetchPlaylist(context.Background(), "https://www.youtube.com/watch?v=v1", false)
	require.NoError(t, err)
	require.Len(t, info.Entries, 1)
	assert.Equal(t, "v1", info.Entries[0].ID)
}

func TestFetchPlaylistEmpty(t *testing.T) {
	f := newTestFetcher(func(ctx context.Context, exe, url string) (string, string, error) {
		return `{"_type":"playlist","id":"PL0","title":"Nothing","entries":[]}`, "", nil
	}, nil)

	info, err := f.FetchPlaylist(context.Background(), "https://www.youtube.com/playlist?list=PL0", false)
	require.NoError(t, err)
	assert.Equal(t, 0, info.Len())
}

func TestFetchPlaylistToolError(t *testing.T) {
	stderr := "WARNING: something\nERROR: [youtube:tab] PLx: The playlist does not exist.\n"
	f := newTestFetcher(func(ctx context.Context, exe, url string) (string, string, error) {
		return "", stderr, errors.New("exit status 1")
	}, nil)

	_, err := f.FetchPlaylist(context.Background(), "https://www.youtube.com/playlist?list=PLx", false)
	require.Error(t, err)

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "[youtube:tab] PLx: The playlist does not exist.", fe.UserMessage())
	assert.Contains(t, fe.Error(), "The playlist does not exist")
}

func TestFetchPlaylistPartialFailureKeepsEntries(t *testing.T) {
	stderr := "ERROR: [youtube] c3: Private video. Sign in if you've been granted access to this video\n"
	f := newTestFetcher(func(ctx context.Context, exe, url string) (string, string, error) {
		return samplePlaylistJSON, stderr, errors.New("exit status 1")
	}, nil)

	info, err := f.FetchPlaylist(context.Background(), "https://www.youtube.com/playlist?list=PL123", false)
	require.NoError(t, err)
	assert.Equal(t, "Lectures", info.Title)
	assert.Equal(t, []string{"a1", "b2"}, info.EntryIDs())
}

func TestFetchPlaylistToolErrorWithGarbageOutput(t *testing.T) {
	f := newTestFetcher(func(ctx context.Context, exe, url string) (string, string, error) {
		return "Traceback (most recent call last)", "ERROR: boom\n", errors.New("exit status 1")
	}, nil)

	_, err := f.FetchPlaylist(context.Background(), "https://www.youtube.com/playlist?list=PL1", false)
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "boom", fe.UserMessage())
}

func TestFetchPlaylistDropsRepeatedEntries(t *testing.T) {
	f := newTestFetcher(func(ctx context.Context, exe, url string) (string, string, error) {
		return `{"_type":"playlist","id":"PL2","entries":[{"id":"a"},{"id":"b"},{"id":"a","title":"again"}]}`, "", nil
	}, nil)

	info, err := f.FetchPlaylist(context.Background(), "https://www.youtube.com/playlist?list=PL2", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, info.EntryIDs())
}

func TestFetchPlaylistMalformedJSON(t *testing.T) {
	f := newTestFetcher(func(ctx context.Context, exe, url string) (string, string, error) {
		return "{not json", "", nil
	}, nil)

	_, err := f.FetchPlaylist(context.Background(), "https://www.youtube.com/playlist?list=PL1", false)
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe.UserMessage(), "failed to parse yt-dlp output")
}

func TestFetchPlaylistInvalidURL(t *testing.T) {
	called := false
	f := newTestFetcher(func(ctx context.Context, exe, url string) (string, string, error) {
		called = true
		return "", "", nil
	}, nil)

	_, err := f.FetchPlaylist(context.Background(), "not a url", false)
	require.Error(t, err)
	assert.False(t, called)
}

func TestFetchPlaylistTimeout(t *testing.T) {
	f := newTestFetcher(func(ctx context.Context, exe, url string) (string, string, error) {
		<-ctx.Done()
		return "", "", errors.New("signal: killed")
	}, nil)
	f.timeout = 20 * time.Millisecond

	_, err := f.FetchPlaylist(context.Background(), "https://www.youtube.com/playlist?list=PL1", false)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "timed out while loading the playlist", fe.UserMessage())
}

func TestFetchPlaylistFlat(t *testing.T) {
	var gotID string
	f := newTestFetcher(nil, func(ctx context.Context, playlistID string) ([]model.VideoEntry, error) {
		gotID = playlistID
		return []model.VideoEntry{{ID: "x", Title: "X", URL: VideoURL("x")}}, nil
	})

	info, err := f.FetchPlaylist(context.Background(), "https://www.youtube.com/watch?v=x&list=PLflat", true)
	require.NoError(t, err)
	assert.Equal(t, "PLflat", gotID)
	assert.Equal(t, "PLflat", info.ID)
	require.Len(t, info.Entries, 1)
	assert.Equal(t, model.UnknownDuration, info.Entries[0].DurationString())
}

func TestFetchPlaylistFlatRequiresListParam(t *testing.T) {
	f := newTestFetcher(nil, func(ctx context.Context, playlistID string) ([]model.VideoEntry, error) {
		t.Fatal("flat lister must not be called")
		return nil, nil
	})

	_, err := f.FetchPlaylist(context.Background(), "https://www.youtube.com/watch?v=x", true)
	require.Error(t, err)
}

func TestLastErrorLine(t *testing.T) {
	tests := []struct {
		name   string
		stderr string
		want   string
	}{
		{"empty", "", ""},
		{"no error line", "WARNING: slow\n", ""},
		{"single", "ERROR: boom", "boom"},
		{"last wins", "ERROR: first\r\nERROR: second\r\n", "second"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lastErrorLine(tt.stderr))
		})
	}
}
