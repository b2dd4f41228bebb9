package bulk

import (
	"errors"
	"fmt"
	"strings"
)

// userMessager is implemented by errors that carry a message meant for users,
// such as the yt-dlp error line captured by the playlist fetcher.
type userMessager interface {
	UserMessage() string
}

// Describe returns the most specific human-readable description of err:
// the user-facing message if the error chain has one, then err.Error(),
// then the Go representation of the value.
func Describe(err error) string {
	if err == nil {
		return ""
	}

	var um userMessager
	if errors.As(err, &um) {
		if msg := strings.TrimSpace(um.UserMessage()); msg != "" {
			return msg
		}
	}

	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}

	return fmt.Sprintf("%#v", err)
}
