package ui

import (
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/bulk-downloader/internal/bulk"
	"github.com/ytget/bulk-downloader/internal/config"
	"github.com/ytget/bulk-downloader/internal/download"
	"github.com/ytget/bulk-downloader/internal/platform"
)

// RootUI owns the main window: a URL bar on top and either the bulk
// selection screen or the downloader screen below it.
type RootUI struct {
	window       fyne.Window
	downloads    download.Downloader
	fetcher      bulk.Fetcher
	settings     *config.Settings
	localization *Localization
	logger       *slog.Logger

	// newModel creates the view model for a playlist URL
	newModel func(url string) bulkModel

	urlEntry     *widget.Entry
	openBtn      *widget.Button
	downloadsBtn *widget.Button
	settingsBtn  *widget.Button

	// Notification panel
	notificationContainer *fyne.Container
	notificationLabel     *widget.Label

	content *fyne.Container

	bulkScreen       *BulkScreen
	downloaderScreen *DownloaderScreen
}

// NewRootUI creates and initializes the main UI
func NewRootUI(window fyne.Window, app fyne.App, downloads download.Downloader, fetcher bulk.Fetcher, logger *slog.Logger) *RootUI {
	if logger == nil {
		logger = slog.Default()
	}

	settings := config.NewSettings(app)

	localization := NewLocalization()
	localization.SetLanguage(settings.GetLanguage())

	if err := platform.CreateDirectoryIfNotExists(settings.GetDownloadDirectory()); err != nil {
		logger.Warn("cannot create download directory", "dir", settings.GetDownloadDirectory(), "error", err)
	}
	downloads.SetDownloadDirectory(settings.GetDownloadDirectory())
	downloads.SetMaxParallelDownloads(settings.GetMaxParallelDownloads())
	downloads.SetFilenameTemplate(settings.GetFilenameTemplate())

	ui := &RootUI{
		window:       window,
		downloads:    downloads,
		fetcher:      fetcher,
		settings:     settings,
		localization: localization,
		logger:       logger,
	}
	ui.newModel = func(url string) bulkModel {
		return bulk.New(url, ui.fetcher, ui.downloads, bulk.WithLogger(ui.logger))
	}

	window.SetTitle(localization.GetText(KeyAppTitle))

	ui.setupUI()
	return ui
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	ui.createMenu()

	ui.urlEntry = widget.NewEntry()
	ui.urlEntry.SetPlaceHolder(ui.localization.GetText(KeyEnterURL))
	ui.urlEntry.SetText(ui.settings.GetLastURL())
	ui.urlEntry.OnSubmitted = func(text string) {
		ui.OpenPlaylist(text)
	}

	ui.openBtn = widget.NewButton(ui.localization.GetText(KeyOpenPlaylist), func() {
		ui.OpenPlaylist(ui.urlEntry.Text)
	})
	ui.openBtn.Importance = widget.HighImportance

	ui.downloadsBtn = widget.NewButton(ui.localization.GetText(KeyDownloads), ui.ShowDownloader)

	ui.settingsBtn = widget.NewButton(IconSettings, ui.onShowSettings)
	ui.settingsBtn.Importance = widget.LowImportance

	topPanel := container.NewBorder(nil, nil, ui.settingsBtn,
		container.NewHBox(ui.openBtn, ui.downloadsBtn), ui.urlEntry)

	// Notification panel under the URL input, hidden by default
	ui.notificationLabel = widget.NewLabel("")
	ui.notificationLabel.Importance = widget.DangerImportance
	ui.notificationContainer = container.NewPadded(ui.notificationLabel)
	ui.notificationContainer.Hide()

	ui.downloaderScreen = ui.newDownloaderScreen()

	ui.content = container.NewStack(ui.downloaderScreen.Container())

	ui.window.SetContent(container.NewBorder(
		container.NewVBox(topPanel, ui.notificationContainer),
		nil, nil, nil,
		ui.content,
	))
}

func (ui *RootUI) newDownloaderScreen() *DownloaderScreen {
	screen := NewDownloaderScreen(ui.window, ui.downloads, ui.settings, ui.localization, ui.logger)
	ui.downloads.SetUpdateCallback(screen.OnTaskUpdate)
	return screen
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	settingsItem := fyne.NewMenuItem(ui.localization.GetText(KeySettings), ui.onShowSettings)

	languageMenu := fyne.NewMenu(ui.localization.GetText(KeyLanguage))
	for code, name := range ui.localization.GetAvailableLanguages() {
		langCode := code
		langItem := fyne.NewMenuItem(name, func() {
			ui.onLanguageChange(langCode)
		})
		langItem.Checked = ui.localization.GetCurrentLanguage() == code
		languageMenu.Items = append(languageMenu.Items, langItem)
	}

	ui.window.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu(ui.localization.GetText(KeyFile), settingsItem),
		languageMenu,
	))
}

// OpenPlaylist validates input and shows a fresh bulk screen for it. Any
// previous bulk screen is disposed. Returns false if input was rejected.
func (ui *RootUI) OpenPlaylist(input string) bool {
	url := platform.CleanURL(input)
	if url == "" {
		ui.showNotification(ui.localization.GetText(KeyPleaseEnterURL))
		return false
	}
	if err := platform.ValidateURL(url); err != nil {
		ui.showNotification(ui.localization.GetText(KeyInvalidURL) + ": " + err.Error())
		return false
	}
	ui.hideNotification()

	ui.disposeBulkScreen()

	ui.logger.Info("opening playlist", "url", url)
	vm := ui.newModel(url)
	if ui.settings.GetAudioOnly() {
		vm.Handle(bulk.SetAudioOnly{Enabled: true})
	}

	ui.bulkScreen = ui.newBulkScreen(vm)
	ui.settings.SetLastURL(url)
	if ui.urlEntry.Text != url {
		ui.urlEntry.SetText(url)
	}
	ui.setContent(ui.bulkScreen.Container())
	return true
}

func (ui *RootUI) newBulkScreen(vm bulkModel) *BulkScreen {
	return NewBulkScreen(vm, ui.localization, ui.ShowDownloader, ui.settings.SetAudioOnly)
}

// ShowDownloader leaves the bulk screen, if any, and shows all downloads
func (ui *RootUI) ShowDownloader() {
	ui.disposeBulkScreen()
	ui.downloaderScreen.Reload()
	ui.setContent(ui.downloaderScreen.Container())
}

func (ui *RootUI) disposeBulkScreen() {
	if ui.bulkScreen == nil {
		return
	}
	ui.bulkScreen.Dispose()
	ui.bulkScreen = nil
}

func (ui *RootUI) setContent(obj fyne.CanvasObject) {
	ui.content.Objects = []fyne.CanvasObject{obj}
	ui.content.Refresh()
}

// showNotification displays a message in the panel under the URL input
func (ui *RootUI) showNotification(message string) {
	ui.notificationLabel.SetText(message)
	ui.notificationContainer.Show()
}

// hideNotification hides the notification panel
func (ui *RootUI) hideNotification() {
	ui.notificationContainer.Hide()
}

// onShowSettings shows the settings dialog
func (ui *RootUI) onShowSettings() {
	ShowSettingsDialog(ui.window, ui.settings, ui.localization, ui.applySettings)
}

// applySettings pushes saved settings to the download manager and UI
func (ui *RootUI) applySettings() {
	dir := ui.settings.GetDownloadDirectory()
	if err := platform.CreateDirectoryIfNotExists(dir); err != nil {
		ui.logger.Warn("cannot create download directory", "dir", dir, "error", err)
	}
	ui.downloads.SetDownloadDirectory(dir)
	ui.downloads.SetMaxParallelDownloads(ui.settings.GetMaxParallelDownloads())
	ui.downloads.SetFilenameTemplate(ui.settings.GetFilenameTemplate())

	ui.logger.Info("settings applied",
		"download_dir", dir,
		"max_parallel", ui.settings.GetMaxParallelDownloads(),
		"language", ui.settings.GetLanguage(),
	)

	if ui.settings.GetLanguage() != ui.localization.GetCurrentLanguage() {
		ui.onLanguageChange(ui.settings.GetLanguage())
	}
}

// onLanguageChange switches language and rebuilds the localized widgets
func (ui *RootUI) onLanguageChange(langCode string) {
	ui.localization.SetLanguage(langCode)
	ui.settings.SetLanguage(langCode)
	ui.refreshUITexts()
	ui.createMenu()
}

// refreshUITexts updates all UI texts with current language. Screens are
// rebuilt; an open bulk screen keeps its view model.
func (ui *RootUI) refreshUITexts() {
	ui.window.SetTitle(ui.localization.GetText(KeyAppTitle))
	ui.urlEntry.SetPlaceHolder(ui.localization.GetText(KeyEnterURL))
	ui.openBtn.SetText(ui.localization.GetText(KeyOpenPlaylist))
	ui.downloadsBtn.SetText(ui.localization.GetText(KeyDownloads))

	showingDownloader := ui.bulkScreen == nil
	ui.downloaderScreen = ui.newDownloaderScreen()

	if showingDownloader {
		ui.setContent(ui.downloaderScreen.Container())
		return
	}

	vm := ui.bulkScreen.Model()
	ui.bulkScreen.Detach()
	ui.bulkScreen = ui.newBulkScreen(vm)
	ui.setContent(ui.bulkScreen.Container())
}
