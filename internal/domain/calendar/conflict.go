package calendar

import (
	"barberbook/internal/domain/constant"
	"barberbook/internal/domain/entity"
	"time"
)

// DefaultMinSeparation is the smallest allowed gap between two confirmed starts.
const DefaultMinSeparation = 30 * time.Minute

// ConflictWindow returns the closed interval around proposed in which no other
// appointment may start: proposed ± (minSeparation - 1 minute).
func ConflictWindow(proposed time.Time, minSeparation time.Duration) (time.Time, time.Time) {
	if minSeparation <= 0 {
		minSeparation = DefaultMinSeparation
	}
	reach := minSeparation - time.Minute
	if reach < 0 {
		reach = 0
	}
	return proposed.Add(-reach), proposed.Add(reach)
}

// HasConflict reports whether any non-cancelled appointment starts inside the
// conflict window of proposed.
func HasConflict(proposed time.Time, existing []*entity.Appointment, minSeparation time.Duration) bool {
	from, to := ConflictWindow(proposed, minSeparation)
	for _, a := range existing {
		if a == nil || a.Status == constant.AppointmentCancelled {
			continue
		}
		if !a.StartsAt.Before(from) && !a.StartsAt.After(to) {
			return true
		}
	}
	return false
}
