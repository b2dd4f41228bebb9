package ui

import (
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/bulk-downloader/internal/config"
	"github.com/ytget/bulk-downloader/internal/download"
	"github.com/ytget/bulk-downloader/internal/model"
	"github.com/ytget/bulk-downloader/internal/platform"
)

// DownloaderScreen lists every download task and its progress
type DownloaderScreen struct {
	window       fyne.Window
	downloads    download.Downloader
	settings     *config.Settings
	localization *Localization
	logger       *slog.Logger

	// UI thread only
	tasks []*model.DownloadTask

	container     *fyne.Container
	titleLabel    *widget.Label
	summaryLabel  *widget.Label
	emptyLabel    *widget.Label
	openFolderBtn *widget.Button
	list          *widget.List

	// platform actions, swappable in tests
	reveal   func(path string) error
	openFile func(path string) error
	openDir  func(dir string) error
}

// NewDownloaderScreen creates the screen with the tasks the manager already has
func NewDownloaderScreen(window fyne.Window, downloads download.Downloader, settings *config.Settings, localization *Localization, logger *slog.Logger) *DownloaderScreen {
	if logger == nil {
		logger = slog.Default()
	}
	s := &DownloaderScreen{
		window:       window,
		downloads:    downloads,
		settings:     settings,
		localization: localization,
		logger:       logger,
		reveal:       platform.OpenFileInManager,
		openFile:     platform.OpenFileWithDefaultApp,
		openDir:      platform.OpenDirectory,
	}
	s.createUI()
	s.Reload()
	return s
}

// Container returns the root canvas object of the screen
func (s *DownloaderScreen) Container() fyne.CanvasObject {
	return s.container
}

func (s *DownloaderScreen) createUI() {
	l := s.localization

	s.titleLabel = widget.NewLabel(l.GetText(KeyDownloads))
	s.titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	s.summaryLabel = widget.NewLabel("")
	s.summaryLabel.Importance = widget.LowImportance
	s.openFolderBtn = widget.NewButton(l.GetText(KeyOpenFolder), s.onOpenFolder)

	s.emptyLabel = widget.NewLabel(l.GetText(KeyNoDownloads))
	s.emptyLabel.Alignment = fyne.TextAlignCenter

	s.list = widget.NewList(
		func() int { return len(s.tasks) },
		func() fyne.CanvasObject {
			row := NewTaskRow(nil, s.localization)
			row.SetCallbacks(s.onStop, s.onReveal, s.onOpen, s.onCopyPath, s.onRemove)
			return row
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id < 0 || id >= len(s.tasks) {
				return
			}
			if row, ok := obj.(*TaskRow); ok {
				row.UpdateTask(s.tasks[id])
			}
		},
	)

	header := container.NewHBox(s.titleLabel, s.summaryLabel, layout.NewSpacer(), s.openFolderBtn)
	s.container = container.NewBorder(header, nil, nil, nil,
		container.NewStack(s.list, container.NewCenter(s.emptyLabel)))
}

// Reload replaces the rows with the manager's current task list. UI thread only.
func (s *DownloaderScreen) Reload() {
	s.tasks = s.downloads.GetAllTasks()
	s.refresh()
}

// OnTaskUpdate is the manager update callback; safe from any goroutine
func (s *DownloaderScreen) OnTaskUpdate(task *model.DownloadTask) {
	fyne.Do(func() { s.HandleTaskUpdate(task) })
}

// HandleTaskUpdate merges task into the rows and reacts to completion.
// UI thread only.
func (s *DownloaderScreen) HandleTaskUpdate(task *model.DownloadTask) {
	if task == nil {
		return
	}

	completedNow := false
	found := false
	for i, existing := range s.tasks {
		if existing.ID == task.ID {
			completedNow = existing.Status != model.TaskStatusCompleted && task.Status == model.TaskStatusCompleted
			s.tasks[i] = task
			found = true
			break
		}
	}
	if !found {
		// Removed tasks are not resurrected by late updates
		if _, ok := s.downloads.GetTask(task.ID); !ok {
			return
		}
		s.tasks = append(s.tasks, task)
		completedNow = task.Status == model.TaskStatusCompleted
	}

	s.refresh()

	if completedNow {
		s.onCompleted(task)
	}
}

// refresh updates the header and list
func (s *DownloaderScreen) refresh() {
	active, completed := 0, 0
	for _, t := range s.tasks {
		switch {
		case t.Status.IsActive() || t.Status == model.TaskStatusPending:
			active++
		case t.Status == model.TaskStatusCompleted:
			completed++
		}
	}
	s.summaryLabel.SetText(s.localization.Format(KeyDownloadsSummary, active, completed, len(s.tasks)))

	if len(s.tasks) == 0 {
		s.emptyLabel.Show()
	} else {
		s.emptyLabel.Hide()
	}
	s.list.Refresh()
}

// onCompleted sends a notification and reveals the file if configured
func (s *DownloaderScreen) onCompleted(task *model.DownloadTask) {
	s.logger.Info("download completed", "task_id", task.ID, "path", task.OutputPath)

	if app := fyne.CurrentApp(); app != nil {
		app.SendNotification(&fyne.Notification{
			Title:   s.localization.GetText(KeyDownloadCompleted),
			Content: task.GetDisplayTitle(),
		})
	}

	if s.settings != nil && s.settings.GetAutoRevealOnComplete() && hasLocalPath(task) {
		s.onReveal(task.OutputPath)
	}
}

func (s *DownloaderScreen) onStop(taskID string) {
	if err := s.downloads.StopTask(taskID); err != nil {
		s.logger.Warn("stop task failed", "task_id", taskID, "error", err)
	}
}

func (s *DownloaderScreen) onRemove(taskID string) {
	if err := s.downloads.RemoveTask(taskID); err != nil {
		s.logger.Warn("remove task failed", "task_id", taskID, "error", err)
		return
	}
	s.Reload()
}

func (s *DownloaderScreen) onReveal(filePath string) {
	if err := s.reveal(filePath); err != nil {
		s.showFileError(filePath, err)
	}
}

func (s *DownloaderScreen) onOpen(filePath string) {
	if err := s.openFile(filePath); err != nil {
		s.showFileError(filePath, err)
	}
}

func (s *DownloaderScreen) onCopyPath(filePath string) {
	app := fyne.CurrentApp()
	if app == nil {
		return
	}
	app.Clipboard().SetContent(filePath)
	s.logger.Debug("path copied", "path", filePath)
	if s.window != nil {
		widget.ShowPopUp(widget.NewLabel(s.localization.GetText(KeyPathCopied)), s.window.Canvas())
	}
}

func (s *DownloaderScreen) onOpenFolder() {
	dir := s.settings.GetDownloadDirectory()
	if err := s.openDir(dir); err != nil {
		s.showFileError(dir, err)
	}
}

func (s *DownloaderScreen) showFileError(path string, err error) {
	s.logger.Error("file action failed", "path", path, "error", err)
	if s.window != nil {
		dialog.ShowError(err, s.window)
	}
}
