package util

import (
	"fmt"
	"time"
)

// FormatDuration formats a duration as m:ss, switching to h:mm:ss once
// it reaches an hour. Long renders routinely run past sixty minutes.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	if total >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", total/3600, total/60%60, total%60)
	}
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
