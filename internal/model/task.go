package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// DownloadTask is a single queued download of one playlist entry.
type DownloadTask struct {
	ID          string              `json:"id"`
	URL         string              `json:"url"`
	Entry       VideoEntry          `json:"entry"`
	Kind        TaskKind            `json:"kind"`
	VideoPreset *VideoPreset        `json:"video_preset,omitempty"`
	AudioPreset *AudioQualityPreset `json:"audio_preset,omitempty"`
	Status      TaskStatus          `json:"status"`
	Progress    float64             `json:"progress"` // 0.0 to 1.0
	Percent     int                 `json:"percent"`  // 0 to 100
	Speed       string              `json:"speed,omitempty"`
	ETASec      int                 `json:"eta_sec"` // -1 if unknown
	LastError   string              `json:"last_error,omitempty"`
	OutputPath  string              `json:"output_path,omitempty"`
	FileSize    int64               `json:"file_size,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	StartedAt   time.Time           `json:"started_at,omitempty"`
	FinishedAt  time.Time           `json:"finished_at,omitempty"`
}

// Clone returns a copy safe to hand to other goroutines
func (dt *DownloadTask) Clone() *DownloadTask {
	c := *dt
	if dt.VideoPreset != nil {
		p := *dt.VideoPreset
		c.VideoPreset = &p
	}
	if dt.AudioPreset != nil {
		p := *dt.AudioPreset
		c.AudioPreset = &p
	}
	return &c
}

// GetETAString returns ETA formatted as hh:mm:ss, or "—" if unknown
func (dt *DownloadTask) GetETAString() string {
	if dt.ETASec <= 0 {
		return UnknownDuration
	}
	return VideoEntry{Duration: time.Duration(dt.ETASec) * time.Second}.DurationString()
}

// GetDisplayTitle returns entry title, filename, or URL in order of preference
func (dt *DownloadTask) GetDisplayTitle() string {
	if dt.Entry.Title != "" && !strings.HasPrefix(dt.Entry.Title, "http") {
		return dt.Entry.Title
	}

	if dt.OutputPath != "" {
		// support both / and \ separators
		parts := strings.FieldsFunc(dt.OutputPath, func(r rune) bool {
			return r == '/' || r == '\\'
		})
		if len(parts) > 0 {
			filename := parts[len(parts)-1]
			if idx := strings.LastIndex(filename, "."); idx > 0 {
				filename = filename[:idx]
			}
			return filename
		}
	}

	return dt.URL
}

// PresetLabel describes the quality the task was submitted with
func (dt *DownloadTask) PresetLabel() string {
	switch dt.Kind {
	case TaskKindAudio:
		if dt.AudioPreset == nil {
			return "audio"
		}
		return fmt.Sprintf("audio %s", dt.AudioPreset.Bitrate())
	default:
		if dt.VideoPreset == nil {
			return "best"
		}
		return dt.VideoPreset.String()
	}
}

// SizeString returns the downloaded file size in human form, or "" if unknown
func (dt *DownloadTask) SizeString() string {
	if dt.FileSize <= 0 {
		return ""
	}
	return humanize.Bytes(uint64(dt.FileSize))
}
