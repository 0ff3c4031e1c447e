package utils

import (
	"math"
	"time"

	"github.com/atelier-ms/repair-tracking-service/internal/models"
)

// DaysInStatus returns how many days a vehicle has sat in its current status,
// rounded up. Falls back to the record's creation time when the history has
// no usable timestamp.
func DaysInStatus(v *models.Vehicle, now time.Time) int {
	since := v.CreatedAt
	if last := v.LastStatusChange(); last != nil && !last.ChangedAt.IsZero() {
		since = last.ChangedAt
	}
	diff := now.Sub(since)
	if diff < 0 {
		diff = -diff
	}
	return int(math.Ceil(diff.Hours() / 24))
}
