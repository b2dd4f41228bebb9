// Package platform contains OS integration and external tooling glue:
// playlist metadata fetching through yt-dlp, URL helpers, and filesystem
// helpers for revealing downloaded files.
package platform
