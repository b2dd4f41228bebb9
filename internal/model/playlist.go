package model

import (
	"fmt"
	"time"
)

// Time formatting constants
const (
	SecondsPerHour   = 3600
	SecondsPerMinute = 60
	UnknownDuration  = "—"
)

// VideoEntry is a single video inside a playlist. Optional fields are left
// empty when yt-dlp does not report them.
type VideoEntry struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Uploader  string        `json:"uploader,omitempty"`
	Thumbnail string        `json:"thumbnail,omitempty"`
	Duration  time.Duration `json:"duration,omitempty"` // zero when unknown
	URL       string        `json:"url"`
}

// DurationString formats the duration as MM:SS or HH:MM:SS.
func (e VideoEntry) DurationString() string {
	if e.Duration <= 0 {
		return UnknownDuration
	}

	total := int(e.Duration.Round(time.Second).Seconds())
	hours := total / SecondsPerHour
	minutes := (total % SecondsPerHour) / SecondsPerMinute
	seconds := total % SecondsPerMinute

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// DisplayTitle returns the title, or the id when the title is missing.
func (e VideoEntry) DisplayTitle() string {
	if e.Title != "" {
		return e.Title
	}
	return e.ID
}

// PlaylistInfo is the metadata of a fetched playlist. It is treated as
// immutable once returned by a fetcher.
type PlaylistInfo struct {
	ID        string       `json:"id,omitempty"`
	Title     string       `json:"title,omitempty"`
	Uploader  string       `json:"uploader,omitempty"`
	Thumbnail string       `json:"thumbnail,omitempty"`
	Entries   []VideoEntry `json:"entries"`
}

// Len returns the number of entries
func (p *PlaylistInfo) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Entries)
}

// EntryIDs returns the ids of all entries in playlist order
func (p *PlaylistInfo) EntryIDs() []string {
	if p == nil {
		return nil
	}
	ids := make([]string, 0, len(p.Entries))
	for _, e := range p.Entries {
		ids = append(ids, e.ID)
	}
	return ids
}

// Deduplicated returns p when every entry id is unique. Otherwise it returns
// a copy keeping only the first entry for each id; p is left untouched.
func (p *PlaylistInfo) Deduplicated() *PlaylistInfo {
	if p == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(p.Entries))
	for i, e := range p.Entries {
		if _, dup := seen[e.ID]; !dup {
			seen[e.ID] = struct{}{}
			continue
		}

		out := *p
		out.Entries = append(make([]VideoEntry, 0, len(p.Entries)-1), p.Entries[:i]...)
		for _, rest := range p.Entries[i+1:] {
			if _, dup := seen[rest.ID]; dup {
				continue
			}
			seen[rest.ID] = struct{}{}
			out.Entries = append(out.Entries, rest)
		}
		return &out
	}
	return p
}

// HasEntry reports whether id belongs to the playlist
func (p *PlaylistInfo) HasEntry(id string) bool {
	if p == nil {
		return false
	}
	for _, e := range p.Entries {
		if e.ID == id {
			return true
		}
	}
	return false
}

// EntriesIn returns the entries whose id is in ids, keeping playlist order.
func (p *PlaylistInfo) EntriesIn(ids map[string]struct{}) []VideoEntry {
	if p == nil || len(ids) == 0 {
		return nil
	}
	out := make([]VideoEntry, 0, len(ids))
	for _, e := range p.Entries {
		if _, ok := ids[e.ID]; ok {
			out = append(out, e)
		}
	}
	return out
}

// DisplayTitle returns the playlist title or fallback when it has none.
func (p *PlaylistInfo) DisplayTitle(fallback string) string {
	if p == nil || p.Title == "" {
		return fallback
	}
	return p.Title
}
