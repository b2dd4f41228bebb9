package download

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"

	"github.com/ytget/bulk-downloader/internal/model"
)

// yt-dlp settings
const (
	DefaultFilenameTemplate = "%(title)s.%(ext)s"
	MergeOutputFormat       = "mp4"
	AudioFormat             = "mp3"
	progressInterval        = 500 * time.Millisecond
)

// Job is one yt-dlp invocation
type Job struct {
	URL          string
	Kind         model.TaskKind
	Format       string // video format selector
	AudioQuality string // audio bitrate, e.g. "192K"
	Output       string // full output template including directory
	Executable   string // empty means yt-dlp from PATH
}

// Progress is a progress report from a running job
type Progress struct {
	DownloadedBytes int64
	TotalBytes      int64
	Started         time.Time
	ETA             time.Duration
	Title           string
	Filename        string
}

// Runner executes a job and returns the path of the produced file
type Runner func(ctx context.Context, job Job, onProgress func(Progress)) (string, error)

// newJob builds the job for a task
func newJob(task *model.DownloadTask, dir, template, executable string) Job {
	if template == "" {
		template = DefaultFilenameTemplate
	}

	job := Job{
		URL:        task.URL,
		Kind:       task.Kind,
		Output:     filepath.Join(dir, template),
		Executable: executable,
	}

	switch task.Kind {
	case model.TaskKindAudio:
		preset := model.DefaultAudioQualityPreset
		if task.AudioPreset != nil {
			preset = *task.AudioPreset
		}
		job.AudioQuality = strings.ToUpper(preset.Bitrate())
	default:
		if task.VideoPreset != nil {
			job.Format = task.VideoPreset.FormatSelector()
		}
	}
	return job
}

// runYTDLP runs the job through the yt-dlp binary
func runYTDLP(ctx context.Context, job Job, onProgress func(Progress)) (string, error) {
	dl := ytdlp.New().
		ForceOverwrites().
		RestrictFilenames().
		NoPlaylist().
		Output(job.Output)

	if job.Executable != "" {
		dl = dl.SetExecutable(job.Executable)
	}

	if job.Kind == model.TaskKindAudio {
		dl = dl.ExtractAudio().
			AudioFormat(AudioFormat).
			AudioQuality(job.AudioQuality)
	} else {
		if job.Format != "" {
			dl = dl.Format(job.Format)
		}
		dl = dl.MergeOutputFormat(MergeOutputFormat)
	}

	dl.ProgressFunc(progressInterval, func(update ytdlp.ProgressUpdate) {
		p := Progress{
			DownloadedBytes: int64(update.DownloadedBytes),
			TotalBytes:      int64(update.TotalBytes),
			Started:         update.Started,
			ETA:             update.ETA(),
			Filename:        update.Filename,
		}
		if update.Info != nil && update.Info.Title != nil {
			p.Title = *update.Info.Title
		}
		onProgress(p)
	})

	result, err := dl.Run(ctx, job.URL)
	if err != nil {
		return "", err
	}

	return outputPath(result, job), nil
}

// outputPath reads the final file name from yt-dlp's result. Audio
// extraction replaces the extension after the info was printed.
func outputPath(result *ytdlp.Result, job Job) string {
	if result == nil {
		return ""
	}

	info, err := result.GetExtractedInfo()
	if err != nil || len(info) == 0 || info[0].Filename == nil {
		return ""
	}

	path := *info[0].Filename
	if job.Kind == model.TaskKindAudio {
		path = strings.TrimSuffix(path, filepath.Ext(path)) + "." + AudioFormat
	}
	return path
}

// fileSize returns the size of path, or 0 if it cannot be read
func fileSize(path string) int64 {
	if path == "" {
		return 0
	}
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
