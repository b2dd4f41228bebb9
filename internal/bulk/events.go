package bulk

import "github.com/ytget/bulk-downloader/internal/model"

// Event is a user interaction forwarded by the presentation layer. The set of
// events is closed; see the concrete types below.
type Event interface {
	isEvent()
}

// Refresh re-issues the playlist fetch.
type Refresh struct{}

// ToggleVideoSelection flips the membership of one entry in the selection.
type ToggleVideoSelection struct {
	ID string
}

// SelectAll selects every entry of the loaded playlist.
type SelectAll struct{}

// DeselectAll empties the selection.
type DeselectAll struct{}

// SelectPreset changes the video quality preset.
type SelectPreset struct {
	Preset model.VideoPreset
}

// SelectAudioQualityPreset changes the audio quality preset.
type SelectAudioQualityPreset struct {
	Preset model.AudioQualityPreset
}

// SetAudioOnly switches between video and audio-only downloads.
type SetAudioOnly struct {
	Enabled bool
}

// StartDownload submits every selected entry to the download sink.
type StartDownload struct{}

// ScreenDisposed tears the screen down.
type ScreenDisposed struct{}

// NavigationConsumed acknowledges a navigation signal.
type NavigationConsumed struct{}

func (Refresh) isEvent()                  {}
func (ToggleVideoSelection) isEvent()     {}
func (SelectAll) isEvent()                {}
func (DeselectAll) isEvent()              {}
func (SelectPreset) isEvent()             {}
func (SelectAudioQualityPreset) isEvent() {}
func (SetAudioOnly) isEvent()             {}
func (StartDownload) isEvent()            {}
func (ScreenDisposed) isEvent()           {}
func (NavigationConsumed) isEvent()       {}
