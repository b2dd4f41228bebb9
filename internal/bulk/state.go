package bulk

import (
	"github.com/ytget/bulk-downloader/internal/model"
)

// Navigation is a one-shot instruction for the presentation layer. It stays
// set until the presentation layer acknowledges it with NavigationConsumed.
type Navigation int

const (
	NavigateNone Navigation = iota
	NavigateToDownloader
)

func (n Navigation) String() string {
	switch n {
	case NavigateToDownloader:
		return "downloader"
	default:
		return "none"
	}
}

// Phase summarizes where the screen is in its lifecycle.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseLoaded
	PhaseError
	PhaseDisposed
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	case PhaseError:
		return "error"
	case PhaseDisposed:
		return "disposed"
	default:
		return "unknown"
	}
}

// State is an immutable snapshot of the bulk download screen. Every event
// produces a new State; slices and the playlist are shared between snapshots
// and must not be modified by readers.
type State struct {
	IsLoading    bool
	ErrorMessage string // empty when there is no error
	Playlist     *model.PlaylistInfo

	AvailablePresets      []model.VideoPreset
	SelectedPreset        *model.VideoPreset
	AvailableAudioPresets []model.AudioQualityPreset
	SelectedAudioPreset   *model.AudioQualityPreset
	AudioOnly             bool

	Navigation Navigation

	selected map[string]struct{}
	disposed bool
}

// loadingState is the state of a freshly opened screen
func loadingState() State {
	return State{IsLoading: true}
}

// HasError reports whether the last fetch failed
func (s State) HasError() bool {
	return s.ErrorMessage != ""
}

// Phase derives the lifecycle phase from the snapshot
func (s State) Phase() Phase {
	switch {
	case s.disposed:
		return PhaseDisposed
	case s.IsLoading:
		return PhaseLoading
	case s.HasError():
		return PhaseError
	case s.Playlist != nil:
		return PhaseLoaded
	default:
		return PhaseLoading
	}
}

// IsSelected reports whether the entry id is currently selected
func (s State) IsSelected(id string) bool {
	_, ok := s.selected[id]
	return ok
}

// SelectedIDs returns the selected ids in playlist order
func (s State) SelectedIDs() []string {
	if len(s.selected) == 0 || s.Playlist == nil {
		return nil
	}
	ids := make([]string, 0, len(s.selected))
	for _, e := range s.Playlist.Entries {
		if _, ok := s.selected[e.ID]; ok {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

// SelectedEntries returns the selected entries in playlist order
func (s State) SelectedEntries() []model.VideoEntry {
	return s.Playlist.EntriesIn(s.selected)
}

func (s State) SelectedCount() int {
	return len(s.selected)
}

func (s State) TotalCount() int {
	return s.Playlist.Len()
}

// AllSelected is true iff every entry is selected and there is at least one.
func (s State) AllSelected() bool {
	total := s.TotalCount()
	return total > 0 && s.SelectedCount() == total
}

// CanStartDownload tells the UI whether the download action should be enabled
func (s State) CanStartDownload() bool {
	return !s.disposed && s.Playlist != nil && s.SelectedCount() > 0
}

// withSelection returns a copy of s carrying the given selection set
func (s State) withSelection(selected map[string]struct{}) State {
	s.selected = selected
	return s
}

func selectionOf(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func containsVideoPreset(list []model.VideoPreset, p model.VideoPreset) bool {
	for _, v := range list {
		if v == p {
			return true
		}
	}
	return false
}

func containsAudioPreset(list []model.AudioQualityPreset, p model.AudioQualityPreset) bool {
	for _, v := range list {
		if v == p {
			return true
		}
	}
	return false
}
