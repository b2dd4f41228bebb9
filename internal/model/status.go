package model

// TaskStatus is the lifecycle state of a download task.
type TaskStatus string

const (
	TaskStatusPending     TaskStatus = "Pending"     // queued, waiting for a free slot
	TaskStatusStarting    TaskStatus = "Starting"    // slot taken, yt-dlp not running yet
	TaskStatusDownloading TaskStatus = "Downloading" // yt-dlp running
	TaskStatusStopping    TaskStatus = "Stopping"    // stop requested, waiting for yt-dlp to exit
	TaskStatusStopped     TaskStatus = "Stopped"
	TaskStatusCompleted   TaskStatus = "Completed"
	TaskStatusError       TaskStatus = "Error"
)

func (ts TaskStatus) String() string {
	return string(ts)
}

// IsActive returns true while the task holds a download slot
func (ts TaskStatus) IsActive() bool {
	switch ts {
	case TaskStatusStarting, TaskStatusDownloading, TaskStatusStopping:
		return true
	}
	return false
}

// IsFinished returns true for terminal states
func (ts TaskStatus) IsFinished() bool {
	switch ts {
	case TaskStatusCompleted, TaskStatusStopped, TaskStatusError:
		return true
	}
	return false
}

// TaskKind tells whether a task downloads video or extracts audio only.
type TaskKind string

const (
	TaskKindVideo TaskKind = "video"
	TaskKindAudio TaskKind = "audio"
)
