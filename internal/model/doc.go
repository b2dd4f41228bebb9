// Package model defines domain data structures shared across the app: playlist
// metadata as reported by yt-dlp, video and audio quality presets, and download
// tasks with their status enum. Values are plain data so they can be handed to
// the UI and persisted without conversion.
package model
