package model

import (
	"testing"
	"time"
)

func TestDownloadTask_GetETAString(t *testing.T) {
	tests := []struct {
		etaSec   int
		expected string
	}{
		{-1, "—"},
		{0, "—"},
		{30, "00:30"},
		{90, "01:30"},
		{3600, "01:00:00"},
		{3661, "01:01:01"},
		{7323, "02:02:03"},
	}

	for _, test := range tests {
		task := &DownloadTask{ETASec: test.etaSec}
		result := task.GetETAString()
		if result != test.expected {
			t.Errorf("GetETAString() with ETASec=%d = %s, expected %s", test.etaSec, result, test.expected)
		}
	}
}

func TestDownloadTask_GetDisplayTitle(t *testing.T) {
	tests := []struct {
		title    string
		output   string
		url      string
		expected string
	}{
		{"Video Title", "", "https://youtube.com/watch?v=123", "Video Title"},
		{"", "", "https://youtube.com/watch?v=123", "https://youtube.com/watch?v=123"},
		{"", "/tmp/dl/Some_Clip.mp4", "https://youtube.com/watch?v=456", "Some_Clip"},
		{"https://youtube.com/watch?v=789", `C:\dl\Other.mp3`, "https://youtube.com/watch?v=789", "Other"},
	}

	for _, test := range tests {
		task := &DownloadTask{
			Entry:      VideoEntry{Title: test.title},
			OutputPath: test.output,
			URL:        test.url,
		}
		result := task.GetDisplayTitle()
		if result != test.expected {
			t.Errorf("GetDisplayTitle() with title='%s', output='%s' = '%s', expected '%s'",
				test.title, test.output, result, test.expected)
		}
	}
}

func TestDownloadTask_PresetLabel(t *testing.T) {
	video := Preset1080
	audio := AudioLow

	tests := []struct {
		task     DownloadTask
		expected string
	}{
		{DownloadTask{Kind: TaskKindVideo, VideoPreset: &video}, "1080p"},
		{DownloadTask{Kind: TaskKindVideo}, "best"},
		{DownloadTask{Kind: TaskKindAudio, AudioPreset: &audio}, "audio 128k"},
		{DownloadTask{Kind: TaskKindAudio}, "audio"},
	}

	for _, test := range tests {
		if got := test.task.PresetLabel(); got != test.expected {
			t.Errorf("PresetLabel() = %q, expected %q", got, test.expected)
		}
	}
}

func TestDownloadTask_Clone(t *testing.T) {
	preset := Preset720
	task := &DownloadTask{
		ID:          "task-1",
		VideoPreset: &preset,
		CreatedAt:   time.Now(),
	}

	clone := task.Clone()
	*clone.VideoPreset = Preset144

	if *task.VideoPreset != Preset720 {
		t.Errorf("Clone shares preset pointer with original: %v", *task.VideoPreset)
	}
	if clone.ID != task.ID {
		t.Errorf("Expected clone ID %s, got %s", task.ID, clone.ID)
	}
}

func TestDownloadTask_SizeString(t *testing.T) {
	if got := (&DownloadTask{}).SizeString(); got != "" {
		t.Errorf("Expected empty size for unknown file size, got %q", got)
	}
	if got := (&DownloadTask{FileSize: 1500000}).SizeString(); got != "1.5 MB" {
		t.Errorf("Expected 1.5 MB, got %q", got)
	}
}
