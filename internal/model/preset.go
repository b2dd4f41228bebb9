package model

import (
	"fmt"
	"strings"
)

// VideoPreset selects the maximum vertical resolution of a video download.
type VideoPreset int

const (
	Preset2160 VideoPreset = 2160
	Preset1440 VideoPreset = 1440
	Preset1080 VideoPreset = 1080
	Preset720  VideoPreset = 720
	Preset480  VideoPreset = 480
	Preset360  VideoPreset = 360
	Preset240  VideoPreset = 240
	Preset144  VideoPreset = 144
)

// DefaultVideoPreset is selected once a playlist has loaded.
const DefaultVideoPreset = Preset720

// VideoPresets returns every video preset, highest resolution first.
func VideoPresets() []VideoPreset {
	return []VideoPreset{
		Preset2160, Preset1440, Preset1080, Preset720,
		Preset480, Preset360, Preset240, Preset144,
	}
}

// Height returns the target vertical resolution in pixels
func (p VideoPreset) Height() int {
	return int(p)
}

// String returns the label shown to users, e.g. "720p"
func (p VideoPreset) String() string {
	return fmt.Sprintf("%dp", int(p))
}

// FormatSelector returns the yt-dlp -f expression capping the height.
// Falls back to the best progressive format under the same cap.
func (p VideoPreset) FormatSelector() string {
	h := p.Height()
	return fmt.Sprintf("bestvideo[height<=%d]+bestaudio/best[height<=%d]", h, h)
}

// ParseVideoPreset maps a label such as "1080p" or "1080" back to a preset.
func ParseVideoPreset(label string) (VideoPreset, error) {
	s := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(label)), "p")
	for _, p := range VideoPresets() {
		if fmt.Sprint(p.Height()) == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown video preset: %q", label)
}

// AudioQualityPreset selects the target bitrate of an audio-only download.
type AudioQualityPreset string

const (
	AudioHigh   AudioQualityPreset = "high"
	AudioMedium AudioQualityPreset = "medium"
	AudioLow    AudioQualityPreset = "low"
)

// DefaultAudioQualityPreset is selected once a playlist has loaded.
const DefaultAudioQualityPreset = AudioHigh

// AudioQualityPresets returns every audio preset, best first.
func AudioQualityPresets() []AudioQualityPreset {
	return []AudioQualityPreset{AudioHigh, AudioMedium, AudioLow}
}

// Bitrate returns the bitrate descriptor passed to yt-dlp --audio-quality
func (p AudioQualityPreset) Bitrate() string {
	switch p {
	case AudioHigh:
		return "320k"
	case AudioMedium:
		return "192k"
	case AudioLow:
		return "128k"
	default:
		return "192k"
	}
}

// String returns the bitrate, which is also what the UI shows
func (p AudioQualityPreset) String() string {
	return p.Bitrate()
}

// ParseAudioQualityPreset accepts either a tier name or its bitrate.
func ParseAudioQualityPreset(label string) (AudioQualityPreset, error) {
	s := strings.ToLower(strings.TrimSpace(label))
	for _, p := range AudioQualityPresets() {
		if string(p) == s || p.Bitrate() == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown audio preset: %q", label)
}
