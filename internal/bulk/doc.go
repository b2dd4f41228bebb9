// Package bulk implements the state machine behind the bulk playlist download
// screen. A ViewModel fetches playlist metadata in the background, tracks which
// entries are selected and which quality presets are chosen, and on
// StartDownload hands every selected entry to a download Sink before asking the
// presentation layer to navigate to the downloader screen.
//
// The presentation layer only reads State snapshots and sends Events; it
// never mutates state directly.
package bulk
