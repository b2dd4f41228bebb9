package main

import (
	"fmt"
	"log/slog"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/alexflint/go-arg"

	"github.com/ytget/bulk-downloader/internal/config"
	"github.com/ytget/bulk-downloader/internal/download"
	"github.com/ytget/bulk-downloader/internal/logging"
	"github.com/ytget/bulk-downloader/internal/platform"
	"github.com/ytget/bulk-downloader/internal/store"
	"github.com/ytget/bulk-downloader/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.ytget.bulk-downloader"
	AppName = "Bulk Downloader"
)

type args struct {
	URL         string `arg:"positional" help:"playlist URL to open on start"`
	Config      string `arg:"-c,--config" help:"path to config file"`
	LogLevel    string `arg:"--log-level" help:"debug, info, warn or error"`
	DownloadDir string `arg:"-d,--download-dir" help:"download directory (saved to settings)"`
}

func (args) Version() string {
	return AppName + " " + version
}

func (args) Description() string {
	return "Select videos from a playlist and download them with yt-dlp."
}

func main() {
	var a args
	arg.MustParse(&a)

	if err := run(a); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(a args) error {
	cfg, err := config.LoadConfig(a.Config)
	if err != nil {
		return err
	}
	if a.LogLevel != "" {
		if err := cfg.SetLogLevel(a.LogLevel); err != nil {
			return err
		}
	}

	logger, logCloser, err := logging.Setup(cfg.Logging)
	if err != nil {
		return err
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	logger.Info("starting", "app", AppName, "version", version, "log_file", cfg.Logging.File)

	history, err := store.Open(cfg.History.Path)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer history.Close()

	myApp := app.NewWithID(AppID)
	myApp.Settings().SetTheme(ui.NewCompactTheme())

	settings := config.NewSettings(myApp)
	if a.DownloadDir != "" {
		settings.SetDownloadDirectory(a.DownloadDir)
	}

	manager := download.NewManager(
		settings.GetDownloadDirectory(),
		settings.GetMaxParallelDownloads(),
		download.WithHistory(history),
		download.WithExecutable(cfg.YTDLP.Path),
		download.WithLogger(logger),
	)
	if err := manager.Restore(); err != nil {
		logger.Warn("cannot restore download history", "error", err)
	}
	defer manager.Close()

	fetcher := platform.NewPlaylistFetcher(
		platform.WithExecutable(cfg.YTDLP.Path),
		platform.WithFetchTimeout(cfg.YTDLP.FetchTimeout),
		platform.WithFetcherLogger(logger),
	)

	myWindow := myApp.NewWindow(fmt.Sprintf("%s v%s", AppName, version))
	myWindow.Resize(fyne.NewSize(ui.WindowWidth, ui.WindowHeight))

	root := ui.NewRootUI(myWindow, myApp, manager, fetcher, logger)
	if a.URL != "" {
		root.OpenPlaylist(a.URL)
	}

	myWindow.ShowAndRun()

	logger.Info("shutting down")
	return nil
}
