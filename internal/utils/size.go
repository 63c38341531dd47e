package utils

import (
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"
)

const (
	secondsPerMinute     = 60
	secondsFormat        = "%.2f seconds"
	minutesSecondsFormat = "%.0f min %.2f sec"
)

// FormatFileSize converts a byte length into a binary-prefixed unit string.
func FormatFileSize(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	return humanize.IBytes(uint64(bytes))
}

// FormatCount renders a count with thousands separators.
func FormatCount(value uint64) string {
	return humanize.Comma(int64(value))
}

// FormatDuration renders elapsed time as seconds below one minute and as
// minutes plus seconds above it.
func FormatDuration(elapsed time.Duration) string {
	seconds := elapsed.Seconds()
	if seconds < secondsPerMinute {
		return fmt.Sprintf(secondsFormat, seconds)
	}
	minutes := math.Floor(seconds / secondsPerMinute)
	return fmt.Sprintf(minutesSecondsFormat, minutes, seconds-minutes*secondsPerMinute)
}
