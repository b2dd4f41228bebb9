// Package download implements the download pipeline built on top of yt-dlp
// (via github.com/lrstanley/go-ytdlp). It queues tasks submitted by the bulk
// screen, enforces the parallelism limit, propagates progress to the UI and
// records finished tasks in the history store.
package download
