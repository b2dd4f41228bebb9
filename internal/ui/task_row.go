package ui

import (
	"fmt"
	"image/color"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/bulk-downloader/internal/model"
)

// Progress calculation constants
const (
	MaxProgressPercent = 100
	MinProgressPercent = 1
)

// TaskRow represents a compact download task row widget
type TaskRow struct {
	widget.BaseWidget

	task         *model.DownloadTask
	localization *Localization

	// UI components
	titleLabel    *widget.Label
	metaLabel     *widget.Label
	statusLabel   *widget.Label
	progressLabel *widget.Label
	speedEtaLabel *widget.Label
	progressBar   *widget.ProgressBar

	// Action buttons
	stopBtn   *widget.Button
	revealBtn *widget.Button // reveal in file manager
	openBtn   *widget.Button // open file with default app
	copyBtn   *widget.Button
	removeBtn *widget.Button

	// Callbacks
	onStop     func(taskID string)
	onReveal   func(filePath string)
	onOpen     func(filePath string)
	onCopyPath func(filePath string)
	onRemove   func(taskID string)
}

// NewTaskRow creates a new task row widget
func NewTaskRow(task *model.DownloadTask, localization *Localization) *TaskRow {
	if task == nil {
		task = &model.DownloadTask{Status: model.TaskStatusPending}
	}

	tr := &TaskRow{
		task:         task,
		localization: localization,
	}
	tr.ExtendBaseWidget(tr)
	tr.createUI()
	tr.updateFromTask()
	return tr
}

// SetCallbacks sets the action callbacks
func (tr *TaskRow) SetCallbacks(
	onStop func(taskID string),
	onReveal func(filePath string),
	onOpen func(filePath string),
	onCopyPath func(filePath string),
	onRemove func(taskID string),
) {
	tr.onStop = onStop
	tr.onReveal = onReveal
	tr.onOpen = onOpen
	tr.onCopyPath = onCopyPath
	tr.onRemove = onRemove
}

// UpdateTask updates the row with new task data
func (tr *TaskRow) UpdateTask(task *model.DownloadTask) {
	if task == nil {
		return
	}
	tr.task = task
	tr.updateFromTask()
	tr.Refresh()
}

// createUI creates the UI components
func (tr *TaskRow) createUI() {
	l := tr.localization

	tr.titleLabel = widget.NewLabel("")
	tr.titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	tr.titleLabel.Truncation = fyne.TextTruncateEllipsis

	tr.metaLabel = widget.NewLabel("")
	tr.metaLabel.Importance = widget.LowImportance
	tr.metaLabel.Truncation = fyne.TextTruncateEllipsis

	tr.statusLabel = widget.NewLabel("")
	tr.statusLabel.Alignment = fyne.TextAlignTrailing
	tr.progressLabel = widget.NewLabel("")
	tr.progressLabel.Alignment = fyne.TextAlignTrailing
	tr.speedEtaLabel = widget.NewLabel("")
	tr.speedEtaLabel.TextStyle = fyne.TextStyle{Monospace: true}

	tr.progressBar = widget.NewProgressBar()
	tr.progressBar.TextFormatter = func() string { return "" }

	// Handlers read tr.task at click time, not at creation
	tr.stopBtn = widget.NewButton(l.GetText(KeyStop), func() {
		if tr.onStop != nil {
			tr.onStop(tr.task.ID)
		}
	})
	tr.revealBtn = widget.NewButton(l.GetText(KeyReveal), func() {
		if tr.onReveal != nil && hasLocalPath(tr.task) {
			tr.onReveal(tr.task.OutputPath)
		}
	})
	tr.openBtn = widget.NewButton(l.GetText(KeyOpen), func() {
		if tr.onOpen != nil && hasLocalPath(tr.task) {
			tr.onOpen(tr.task.OutputPath)
		}
	})
	tr.copyBtn = widget.NewButton(l.GetText(KeyCopyPath), func() {
		if tr.onCopyPath != nil && hasLocalPath(tr.task) {
			tr.onCopyPath(tr.task.OutputPath)
		}
	})
	tr.removeBtn = widget.NewButton(l.GetText(KeyRemove), func() {
		if tr.onRemove != nil {
			tr.onRemove(tr.task.ID)
		}
	})
	tr.removeBtn.Importance = widget.LowImportance
}

// updateFromTask updates UI components based on task state
func (tr *TaskRow) updateFromTask() {
	t := tr.task

	tr.titleLabel.SetText(singleLine(t.GetDisplayTitle()))

	meta := []string{t.PresetLabel()}
	if size := t.SizeString(); size != "" {
		meta = append(meta, size)
	}
	if t.Status == model.TaskStatusError && t.LastError != "" {
		meta = append(meta, singleLine(t.LastError))
	}
	tr.metaLabel.SetText(strings.Join(meta, MiddleDotSeparator))

	switch t.Status {
	case model.TaskStatusError:
		tr.statusLabel.Importance = widget.DangerImportance
		tr.statusLabel.SetText(IconError + " " + t.Status.String())
	case model.TaskStatusCompleted:
		tr.statusLabel.Importance = widget.SuccessImportance
		tr.statusLabel.SetText(t.Status.String())
	case model.TaskStatusDownloading, model.TaskStatusStarting:
		tr.statusLabel.Importance = widget.HighImportance
		tr.statusLabel.SetText(IconPlay + " " + t.Status.String())
	case model.TaskStatusPending:
		tr.statusLabel.Importance = widget.MediumImportance
		tr.statusLabel.SetText(IconPending + " " + t.Status.String())
	case model.TaskStatusStopped, model.TaskStatusStopping:
		tr.statusLabel.Importance = widget.MediumImportance
		tr.statusLabel.SetText(IconStopped + " " + t.Status.String())
	default:
		tr.statusLabel.Importance = widget.MediumImportance
		tr.statusLabel.SetText(t.Status.String())
	}
	if t.Kind == model.TaskKindAudio {
		tr.statusLabel.SetText(IconMusic + " " + tr.statusLabel.Text)
	}

	percent := effectivePercent(t)
	tr.progressBar.SetValue(float64(percent) / MaxProgressPercent)
	if t.Status == model.TaskStatusCompleted {
		tr.progressLabel.SetText("")
	} else {
		tr.progressLabel.SetText(fmt.Sprintf(ProgressLabelFormat, percent))
	}

	speedEta := ""
	if t.Status == model.TaskStatusDownloading {
		speedEta = t.Speed
		if t.ETASec > 0 {
			if speedEta != "" {
				speedEta += MiddleDotSeparator
			}
			speedEta += t.GetETAString()
		}
		if speedEta == "" {
			speedEta = DashPlaceholder
		}
	}
	tr.speedEtaLabel.SetText(speedEta)

	tr.updateButtons()
}

// updateButtons updates button states based on task status
func (tr *TaskRow) updateButtons() {
	t := tr.task

	switch t.Status {
	case model.TaskStatusPending, model.TaskStatusStarting, model.TaskStatusDownloading:
		tr.stopBtn.Enable()
	default:
		tr.stopBtn.Disable()
	}

	if t.Status == model.TaskStatusCompleted && hasLocalPath(t) {
		tr.revealBtn.Enable()
		tr.openBtn.Enable()
		tr.copyBtn.Enable()
	} else {
		tr.revealBtn.Disable()
		tr.openBtn.Disable()
		tr.copyBtn.Disable()
	}

	if t.Status == model.TaskStatusStopping {
		tr.removeBtn.Disable()
	} else {
		tr.removeBtn.Enable()
	}
}

// effectivePercent clamps the task progress to 0..100. A running task that
// reported any progress never shows 0%.
func effectivePercent(t *model.DownloadTask) int {
	if t.Status == model.TaskStatusCompleted {
		return MaxProgressPercent
	}
	p := t.Percent
	if p <= 0 && t.Progress > 0 {
		p = int(t.Progress*MaxProgressPercent + 0.5)
		if p == 0 {
			p = MinProgressPercent
		}
	}
	return max(0, min(p, MaxProgressPercent))
}

// hasLocalPath reports whether the task points at a file on disk rather than
// nothing or a URL
func hasLocalPath(t *model.DownloadTask) bool {
	p := t.OutputPath
	if p == "" || strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") {
		return false
	}
	return strings.ContainsAny(p, `/\`)
}

func singleLine(s string) string {
	return strings.TrimSpace(strings.NewReplacer("\n", " ", "\r", " ", "\t", " ").Replace(s))
}

// CreateRenderer creates the widget renderer
func (tr *TaskRow) CreateRenderer() fyne.WidgetRenderer {
	r := &taskRowRenderer{taskRow: tr}
	r.createLayout()
	return r
}

// taskRowRenderer renders the task row widget
type taskRowRenderer struct {
	taskRow *TaskRow
	layout  *fyne.Container
}

// Layout arranges the components
func (r *taskRowRenderer) Layout(size fyne.Size) {
	r.layout.Resize(fyne.NewSize(max(size.Width, RowMinWidth), max(size.Height, RowMinHeight)))
}

// MinSize returns the minimum size
func (r *taskRowRenderer) MinSize() fyne.Size {
	ms := r.layout.MinSize()
	return fyne.NewSize(max(ms.Width, RowMinWidth), max(ms.Height, RowMinHeight))
}

// Refresh refreshes the renderer
func (r *taskRowRenderer) Refresh() {
	r.layout.Refresh()
}

// Objects returns the container objects
func (r *taskRowRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.layout}
}

// Destroy cleans up the renderer
func (r *taskRowRenderer) Destroy() {}

// createLayout builds title and meta on the left, status and progress in the
// middle, action buttons pinned right, and the progress bar underneath.
func (r *taskRowRenderer) createLayout() {
	tr := r.taskRow

	// fixedWidth pins obj to width w using a transparent spacer
	fixedWidth := func(w float32, obj fyne.CanvasObject) fyne.CanvasObject {
		spacer := canvas.NewRectangle(color.Transparent)
		spacer.SetMinSize(fyne.NewSize(w, obj.MinSize().Height))
		return container.NewStack(spacer, obj)
	}

	leftSide := container.NewVBox(tr.titleLabel, tr.metaLabel)

	info := container.NewVBox(
		fixedWidth(StatusLabelWidth, tr.statusLabel),
		container.NewHBox(
			fixedWidth(SpeedLabelWidth, tr.speedEtaLabel),
			fixedWidth(PercentLabelWidth, tr.progressLabel),
		),
	)

	actions := container.NewHBox(tr.stopBtn, tr.revealBtn, tr.openBtn, tr.copyBtn, tr.removeBtn)

	rightCluster := container.NewBorder(nil, nil, nil, actions, info)
	main := container.NewBorder(nil, nil, nil, rightCluster, leftSide)

	r.layout = container.NewVBox(main, tr.progressBar, widget.NewSeparator())
}
