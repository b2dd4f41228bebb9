// Package ui contains the Fyne desktop interface: the URL entry, the bulk
// selection screen driven by a bulk.ViewModel, the downloader screen listing
// download manager tasks, and the settings dialog. All UI strings are
// localized via Localization.
package ui
