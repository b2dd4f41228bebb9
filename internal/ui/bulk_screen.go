package ui

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/ytget/bulk-downloader/internal/bulk"
	"github.com/ytget/bulk-downloader/internal/model"
)

// bulkModel is the part of bulk.ViewModel the screen talks to
type bulkModel interface {
	URL() string
	State() bulk.State
	Subscribe(fn func(bulk.State)) func()
	Handle(event bulk.Event)
}

// BulkScreen renders bulk.State snapshots and forwards user input as events.
// It never changes selection or presets itself.
type BulkScreen struct {
	model        bulkModel
	localization *Localization

	onNavigate         func()
	onAudioOnlyChanged func(bool)

	// UI thread only
	state    bulk.State
	visible  []model.VideoEntry
	query    string
	applying bool

	container   *fyne.Container
	loadingView *fyne.Container
	errorView   *fyne.Container
	contentView *fyne.Container

	spinner       *widget.ProgressBarInfinite
	loadingLabel  *widget.Label
	errorLabel    *widget.Label
	retryBtn      *widget.Button
	titleLabel    *widget.Label
	uploaderLabel *widget.Label
	countLabel    *widget.Label
	emptyLabel    *widget.Label
	selectAllBtn  *widget.Button
	deselectBtn   *widget.Button
	filterEntry   *widget.Entry
	list          *widget.List
	audioCheck    *widget.Check
	videoSelect   *widget.Select
	audioSelect   *widget.Select
	downloadBtn   *widget.Button

	unsubscribe func()
}

// NewBulkScreen builds the screen and subscribes it to m. onNavigate is
// called on the UI thread once the model asks to show the downloader.
func NewBulkScreen(m bulkModel, localization *Localization, onNavigate func(), onAudioOnlyChanged func(bool)) *BulkScreen {
	s := &BulkScreen{
		model:              m,
		localization:       localization,
		onNavigate:         onNavigate,
		onAudioOnlyChanged: onAudioOnlyChanged,
	}
	s.createUI()

	s.unsubscribe = m.Subscribe(func(st bulk.State) {
		fyne.Do(func() { s.apply(st) })
	})
	return s
}

// Container returns the root canvas object of the screen
func (s *BulkScreen) Container() fyne.CanvasObject {
	return s.container
}

// Detach stops rendering snapshots but leaves the model running, so a new
// screen can take it over
func (s *BulkScreen) Detach() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

// Dispose detaches the screen and tells the model it is gone
func (s *BulkScreen) Dispose() {
	s.Detach()
	s.model.Handle(bulk.ScreenDisposed{})
}

// Model returns the view model the screen renders
func (s *BulkScreen) Model() bulkModel {
	return s.model
}

// createUI creates all widgets of the three views
func (s *BulkScreen) createUI() {
	l := s.localization

	// Loading view
	s.spinner = widget.NewProgressBarInfinite()
	s.loadingLabel = widget.NewLabel(l.GetText(KeyLoadingPlaylist))
	s.loadingLabel.Alignment = fyne.TextAlignCenter
	s.loadingView = container.NewCenter(container.NewVBox(s.loadingLabel, s.spinner))

	// Error view
	s.errorLabel = widget.NewLabel("")
	s.errorLabel.Wrapping = fyne.TextWrapWord
	s.errorLabel.Importance = widget.DangerImportance
	s.retryBtn = widget.NewButton(l.GetText(KeyRetry), func() {
		s.model.Handle(bulk.Refresh{})
	})
	s.retryBtn.Importance = widget.HighImportance
	s.errorView = container.NewBorder(nil, container.NewCenter(s.retryBtn), nil, nil, container.NewPadded(s.errorLabel))

	// Content view: header
	s.titleLabel = widget.NewLabel("")
	s.titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	s.titleLabel.Truncation = fyne.TextTruncateEllipsis
	s.uploaderLabel = widget.NewLabel("")
	s.uploaderLabel.Truncation = fyne.TextTruncateEllipsis
	s.countLabel = widget.NewLabel("")

	s.selectAllBtn = widget.NewButton(l.GetText(KeySelectAll), func() {
		s.model.Handle(bulk.SelectAll{})
	})
	s.deselectBtn = widget.NewButton(l.GetText(KeyDeselectAll), func() {
		s.model.Handle(bulk.DeselectAll{})
	})

	s.filterEntry = widget.NewEntry()
	s.filterEntry.SetPlaceHolder(l.GetText(KeyFilter))
	s.filterEntry.OnChanged = func(text string) {
		s.query = text
		s.refilter()
	}

	header := container.NewVBox(
		s.titleLabel,
		s.uploaderLabel,
		container.NewHBox(s.countLabel, layout.NewSpacer(), s.selectAllBtn, s.deselectBtn),
		s.filterEntry,
	)

	// Content view: entries
	s.list = widget.NewList(
		func() int { return len(s.visible) },
		s.createEntryRow,
		s.updateEntryRow,
	)
	s.emptyLabel = widget.NewLabel(l.GetText(KeyEmptyPlaylist))
	s.emptyLabel.Alignment = fyne.TextAlignCenter
	s.emptyLabel.Hide()

	// Content view: footer
	s.audioCheck = widget.NewCheck(l.GetText(KeyAudioOnly), func(checked bool) {
		if s.applying {
			return
		}
		s.model.Handle(bulk.SetAudioOnly{Enabled: checked})
		if s.onAudioOnlyChanged != nil {
			s.onAudioOnlyChanged(checked)
		}
	})

	s.videoSelect = widget.NewSelect(nil, func(label string) {
		if s.applying {
			return
		}
		if preset, ok := videoPresetFromLabel(s.state.AvailablePresets, label); ok {
			s.model.Handle(bulk.SelectPreset{Preset: preset})
		}
	})
	s.videoSelect.PlaceHolder = l.GetText(KeyVideoQuality)

	s.audioSelect = widget.NewSelect(nil, func(label string) {
		if s.applying {
			return
		}
		if preset, ok := audioPresetFromLabel(s.state.AvailableAudioPresets, label); ok {
			s.model.Handle(bulk.SelectAudioQualityPreset{Preset: preset})
		}
	})
	s.audioSelect.PlaceHolder = l.GetText(KeyAudioQuality)

	s.downloadBtn = widget.NewButton(l.GetText(KeyDownload), func() {
		s.model.Handle(bulk.StartDownload{})
	})
	s.downloadBtn.Importance = widget.HighImportance
	s.downloadBtn.Disable()

	footer := container.NewHBox(
		s.audioCheck,
		s.videoSelect,
		s.audioSelect,
		layout.NewSpacer(),
		s.downloadBtn,
	)

	s.contentView = container.NewBorder(
		header,
		footer,
		nil,
		nil,
		container.NewStack(s.list, container.NewCenter(s.emptyLabel)),
	)

	s.container = container.NewStack(s.loadingView, s.errorView, s.contentView)
	s.showPhase(bulk.PhaseLoading)
}

// createEntryRow creates a template playlist row
func (s *BulkScreen) createEntryRow() fyne.CanvasObject {
	check := widget.NewCheck("", nil)
	uploader := widget.NewLabel("")
	uploader.Importance = widget.LowImportance
	duration := widget.NewLabel("")
	duration.Alignment = fyne.TextAlignTrailing
	duration.TextStyle = fyne.TextStyle{Monospace: true}

	return container.NewBorder(nil, nil, nil, container.NewHBox(uploader, duration), check)
}

// updateEntryRow binds row id to the visible entry at that index
func (s *BulkScreen) updateEntryRow(id widget.ListItemID, obj fyne.CanvasObject) {
	if id < 0 || id >= len(s.visible) {
		return
	}
	entry := s.visible[id]

	row := obj.(*fyne.Container)
	check := row.Objects[0].(*widget.Check)
	right := row.Objects[1].(*fyne.Container)
	uploader := right.Objects[0].(*widget.Label)
	duration := right.Objects[1].(*widget.Label)

	// Detach the handler so syncing the checkmark does not emit a toggle
	check.OnChanged = nil
	check.SetText(entry.DisplayTitle())
	check.SetChecked(s.state.IsSelected(entry.ID))
	check.OnChanged = func(bool) {
		s.model.Handle(bulk.ToggleVideoSelection{ID: entry.ID})
	}

	uploader.SetText(entry.Uploader)
	duration.SetText(entry.DurationString())
}

// apply renders a snapshot. Must run on the UI thread.
func (s *BulkScreen) apply(st bulk.State) {
	s.applying = true
	defer func() { s.applying = false }()

	s.state = st
	l := s.localization

	phase := st.Phase()
	s.showPhase(phase)

	switch phase {
	case bulk.PhaseError:
		s.errorLabel.SetText(st.ErrorMessage)
	case bulk.PhaseLoaded:
		s.titleLabel.SetText(st.Playlist.DisplayTitle(s.model.URL()))
		s.uploaderLabel.SetText(st.Playlist.Uploader)
		s.countLabel.SetText(l.Format(KeySelectedCount, st.SelectedCount(), st.TotalCount()))
		if st.TotalCount() == 0 {
			s.emptyLabel.Show()
		} else {
			s.emptyLabel.Hide()
		}
		s.selectAllBtn.Enable()
		if st.AllSelected() {
			s.selectAllBtn.Disable()
		}
		s.deselectBtn.Enable()
		if st.SelectedCount() == 0 {
			s.deselectBtn.Disable()
		}
	}

	s.audioCheck.SetChecked(st.AudioOnly)
	s.applyPresets(st)

	if st.CanStartDownload() {
		s.downloadBtn.SetText(l.Format(KeyDownloadSelected, st.SelectedCount()))
		s.downloadBtn.Enable()
	} else {
		s.downloadBtn.SetText(l.GetText(KeyDownload))
		s.downloadBtn.Disable()
	}

	s.refilter()

	if st.Navigation == bulk.NavigateToDownloader {
		s.model.Handle(bulk.NavigationConsumed{})
		if s.onNavigate != nil {
			s.onNavigate()
		}
	}
}

// applyPresets syncs both preset selects; only the one matching the current
// mode is shown
func (s *BulkScreen) applyPresets(st bulk.State) {
	videoLabels := make([]string, 0, len(st.AvailablePresets))
	for _, p := range st.AvailablePresets {
		videoLabels = append(videoLabels, p.String())
	}
	s.videoSelect.SetOptions(videoLabels)
	if st.SelectedPreset != nil {
		s.videoSelect.SetSelected(st.SelectedPreset.String())
	} else {
		s.videoSelect.ClearSelected()
	}

	audioLabels := make([]string, 0, len(st.AvailableAudioPresets))
	for _, p := range st.AvailableAudioPresets {
		audioLabels = append(audioLabels, audioPresetLabel(p))
	}
	s.audioSelect.SetOptions(audioLabels)
	if st.SelectedAudioPreset != nil {
		s.audioSelect.SetSelected(audioPresetLabel(*st.SelectedAudioPreset))
	} else {
		s.audioSelect.ClearSelected()
	}

	if st.AudioOnly {
		s.videoSelect.Hide()
		s.audioSelect.Show()
	} else {
		s.audioSelect.Hide()
		s.videoSelect.Show()
	}
}

// refilter recomputes the visible rows from the playlist and the filter text
func (s *BulkScreen) refilter() {
	var entries []model.VideoEntry
	if s.state.Playlist != nil {
		entries = s.state.Playlist.Entries
	}
	s.visible = filterEntries(entries, s.query)
	s.list.Refresh()
}

func (s *BulkScreen) showPhase(phase bulk.Phase) {
	s.loadingView.Hide()
	s.errorView.Hide()
	s.contentView.Hide()

	switch phase {
	case bulk.PhaseLoading:
		s.spinner.Start()
		s.loadingView.Show()
		return
	case bulk.PhaseError:
		s.errorView.Show()
	case bulk.PhaseLoaded:
		s.contentView.Show()
	}
	s.spinner.Stop()
}

// filterEntries keeps entries whose title fuzzily matches query, in
// playlist order. An empty query keeps everything.
func filterEntries(entries []model.VideoEntry, query string) []model.VideoEntry {
	query = strings.TrimSpace(query)
	if query == "" {
		return entries
	}

	filtered := make([]model.VideoEntry, 0, len(entries))
	for _, e := range entries {
		if fuzzy.MatchFold(query, e.DisplayTitle()) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// audioPresetLabel renders e.g. "high (320k)"
func audioPresetLabel(p model.AudioQualityPreset) string {
	return fmt.Sprintf("%s (%s)", string(p), p.Bitrate())
}

func audioPresetFromLabel(presets []model.AudioQualityPreset, label string) (model.AudioQualityPreset, bool) {
	for _, p := range presets {
		if audioPresetLabel(p) == label {
			return p, true
		}
	}
	return "", false
}

func videoPresetFromLabel(presets []model.VideoPreset, label string) (model.VideoPreset, bool) {
	for _, p := range presets {
		if p.String() == label {
			return p, true
		}
	}
	return 0, false
}
