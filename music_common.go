// music_common.go - Small helpers shared by the players.

package main

import (
	"fmt"
	"math"
	"os"
	"strings"
)

// formatDuration renders a second count as "m:ss".
func formatDuration(seconds float64) string {
	if seconds <= 0 {
		return ""
	}
	mins := int(seconds) / 60
	rem := int(math.Round(seconds)) % 60
	return fmt.Sprintf("%d:%02d", mins, rem)
}

func chipDebugEnabled() bool {
	value := strings.ToLower(os.Getenv("CHIPSTREAM_DEBUG"))
	return value == "1" || value == "true" || value == "yes"
}

// nulTerminated trims an NSF metadata field to its NUL terminator.
func nulTerminated(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
