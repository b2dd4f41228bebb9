package ui

import (
	"testing"

	"fyne.io/fyne/v2/test"

	"github.com/ytget/bulk-downloader/internal/model"
)

func TestTaskRowButtons(t *testing.T) {
	test.NewApp()
	loc := NewLocalization()

	tests := []struct {
		name       string
		task       *model.DownloadTask
		stopOn     bool
		revealOn   bool
		removeOn   bool
		statusText string
	}{
		{
			name:       "pending",
			task:       &model.DownloadTask{Status: model.TaskStatusPending},
			stopOn:     true,
			removeOn:   true,
			statusText: IconPending + " Pending",
		},
		{
			name:       "downloading",
			task:       &model.DownloadTask{Status: model.TaskStatusDownloading, OutputPath: "/tmp/a.mp4"},
			stopOn:     true,
			removeOn:   true,
			statusText: IconPlay + " Downloading",
		},
		{
			name:       "stopping",
			task:       &model.DownloadTask{Status: model.TaskStatusStopping},
			statusText: IconStopped + " Stopping",
		},
		{
			name:       "completed",
			task:       &model.DownloadTask{Status: model.TaskStatusCompleted, OutputPath: "/tmp/a.mp4"},
			revealOn:   true,
			removeOn:   true,
			statusText: "Completed",
		},
		{
			name:       "completed without path",
			task:       &model.DownloadTask{Status: model.TaskStatusCompleted},
			removeOn:   true,
			statusText: "Completed",
		},
		{
			name:       "audio error",
			task:       &model.DownloadTask{Status: model.TaskStatusError, Kind: model.TaskKindAudio},
			removeOn:   true,
			statusText: IconMusic + " " + IconError + " Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := NewTaskRow(tt.task, loc)

			if got := !row.stopBtn.Disabled(); got != tt.stopOn {
				t.Errorf("stop enabled = %v, want %v", got, tt.stopOn)
			}
			if got := !row.revealBtn.Disabled(); got != tt.revealOn {
				t.Errorf("reveal enabled = %v, want %v", got, tt.revealOn)
			}
			if got := !row.openBtn.Disabled(); got != tt.revealOn {
				t.Errorf("open enabled = %v, want %v", got, tt.revealOn)
			}
			if got := !row.removeBtn.Disabled(); got != tt.removeOn {
				t.Errorf("remove enabled = %v, want %v", got, tt.removeOn)
			}
			if row.statusLabel.Text != tt.statusText {
				t.Errorf("status = %q, want %q", row.statusLabel.Text, tt.statusText)
			}
		})
	}
}

func TestTaskRowLabels(t *testing.T) {
	test.NewApp()
	preset := model.Preset1080
	task := &model.DownloadTask{
		URL:         "https://www.youtube.com/watch?v=a1",
		Entry:       model.VideoEntry{ID: "a1", Title: "Intro\nto Go"},
		VideoPreset: &preset,
		Status:      model.TaskStatusDownloading,
		Percent:     42,
		Speed:       "1.2 MB/s",
		ETASec:      75,
		FileSize:    2_500_000,
	}
	row := NewTaskRow(task, NewLocalization())

	if row.titleLabel.Text != "Intro to Go" {
		t.Errorf("title = %q", row.titleLabel.Text)
	}
	if row.metaLabel.Text != "1080p · 2.5 MB" {
		t.Errorf("meta = %q", row.metaLabel.Text)
	}
	if row.progressLabel.Text != "42%" {
		t.Errorf("progress = %q", row.progressLabel.Text)
	}
	if row.speedEtaLabel.Text != "1.2 MB/s · 01:15" {
		t.Errorf("speed/eta = %q", row.speedEtaLabel.Text)
	}
	if row.progressBar.Value != 0.42 {
		t.Errorf("bar = %v", row.progressBar.Value)
	}
}

func TestTaskRowCallbacksReadCurrentTask(t *testing.T) {
	test.NewApp()
	row := NewTaskRow(&model.DownloadTask{ID: "old", Status: model.TaskStatusPending}, NewLocalization())

	var stopped, revealed string
	row.SetCallbacks(
		func(id string) { stopped = id },
		func(path string) { revealed = path },
		nil, nil, nil,
	)

	row.UpdateTask(&model.DownloadTask{ID: "new", Status: model.TaskStatusDownloading})
	test.Tap(row.stopBtn)
	if stopped != "new" {
		t.Errorf("stop got %q, want new", stopped)
	}

	row.UpdateTask(&model.DownloadTask{ID: "new", Status: model.TaskStatusCompleted, OutputPath: "/tmp/v.mp4"})
	test.Tap(row.revealBtn)
	if revealed != "/tmp/v.mp4" {
		t.Errorf("reveal got %q", revealed)
	}

	// Nil callbacks are ignored
	test.Tap(row.openBtn)
}

func TestEffectivePercent(t *testing.T) {
	tests := []struct {
		task *model.DownloadTask
		want int
	}{
		{&model.DownloadTask{Status: model.TaskStatusCompleted}, 100},
		{&model.DownloadTask{Status: model.TaskStatusDownloading, Percent: 37}, 37},
		{&model.DownloadTask{Status: model.TaskStatusDownloading, Progress: 0.004}, 1},
		{&model.DownloadTask{Status: model.TaskStatusDownloading, Progress: 0.5}, 50},
		{&model.DownloadTask{Status: model.TaskStatusDownloading, Percent: 140}, 100},
		{&model.DownloadTask{Status: model.TaskStatusPending}, 0},
	}
	for _, tt := range tests {
		if got := effectivePercent(tt.task); got != tt.want {
			t.Errorf("effectivePercent(%+v) = %d, want %d", tt.task, got, tt.want)
		}
	}
}

func TestHasLocalPath(t *testing.T) {
	tests := map[string]bool{
		"":                          false,
		"video.mp4":                 false,
		"https://example.com/a.mp4": false,
		"/home/u/Downloads/a.mp4":   true,
		`C:\Users\u\a.mp4`:          true,
	}
	for path, want := range tests {
		if got := hasLocalPath(&model.DownloadTask{OutputPath: path}); got != want {
			t.Errorf("hasLocalPath(%q) = %v, want %v", path, got, want)
		}
	}
}
