package download

import (
	"errors"

	"github.com/ytget/bulk-downloader/internal/model"
)

// Errors returned by task management operations
var (
	ErrTaskNotFound  = errors.New("task not found")
	ErrTaskExists    = errors.New("task already exists")
	ErrTaskNotActive = errors.New("task is not active")
	ErrClosed        = errors.New("download manager is closed")
)

// Downloader defines the interface for the download manager.
type Downloader interface {
	// Start and StartAudio enqueue one entry and return immediately
	Start(url string, entry model.VideoEntry, preset *model.VideoPreset)
	StartAudio(url string, entry model.VideoEntry, preset *model.AudioQualityPreset)

	SetUpdateCallback(func(*model.DownloadTask))
	GetTask(id string) (*model.DownloadTask, bool)
	GetAllTasks() []*model.DownloadTask
	StopTask(id string) error
	RemoveTask(id string) error

	// SetMaxParallelDownloads sets the maximum number of parallel downloads
	SetMaxParallelDownloads(max int)

	// SetDownloadDirectory sets the download directory for new tasks
	SetDownloadDirectory(dir string)

	// SetFilenameTemplate sets the yt-dlp output template for new tasks
	SetFilenameTemplate(template string)
}

// HistoryStore persists finished tasks
type HistoryStore interface {
	Put(task *model.DownloadTask) error
	Delete(id string) error
	List() ([]*model.DownloadTask, error)
}
