package forecast

import (
	"time"

	"github.com/ukydev/fleet-maintenance/internal/models"
)

// Anchor is the point a recurrence interval is measured from, usually the
// last time the service was performed.
type Anchor struct {
	Date     time.Time
	Distance int
}

// DeriveDeadlines computes a service's deadlines from its interval and anchor.
// It never looks at prior deadlines: an axis without a positive interval is
// cleared.
func DeriveDeadlines(interval models.RecurrenceInterval, anchor Anchor) models.DueDeadlines {
	var d models.DueDeadlines
	if interval.Months != nil && *interval.Months > 0 {
		due := AddMonths(anchor.Date, *interval.Months)
		d.DueDate = &due
	}
	if interval.Distance != nil && *interval.Distance > 0 {
		due := anchor.Distance + *interval.Distance
		d.DueDistance = &due
	}
	return d
}

// AddMonths adds calendar months to t, clamping the day to the end of the
// target month (Jan 31 + 1 month is Feb 28, or Feb 29 in a leap year).
func AddMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	if last := daysInMonth(first.Year(), first.Month(), t.Location()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysInMonth(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

// AnchorFor returns the service's own anchor: its last performance, else the
// anchor stored when tracking started, else fallback. Each axis resolves on
// its own, so a performance without a recorded distance keeps the stored
// distance.
func AnchorFor(svc *models.Service, fallback Anchor) Anchor {
	anchor := fallback
	if svc.AnchorDate != nil {
		anchor.Date = *svc.AnchorDate
	}
	if svc.AnchorDistance != nil {
		anchor.Distance = *svc.AnchorDistance
	}
	if svc.LastPerformedAt != nil {
		anchor.Date = *svc.LastPerformedAt
	}
	if svc.LastPerformedDistance != nil {
		anchor.Distance = *svc.LastPerformedDistance
	}
	return anchor
}

// Reanchor moves the service's anchor to a just-performed completion and
// re-derives both deadlines. Non-recurring services end up with no deadlines.
func Reanchor(svc *models.Service, performedAt time.Time, distance int) {
	svc.LastPerformedAt = &performedAt
	svc.LastPerformedDistance = &distance
	svc.Deadlines = DeriveDeadlines(svc.Interval, Anchor{Date: performedAt, Distance: distance})
}

// OverrideDueDate replaces the derived due date. It lasts until the next derivation.
func OverrideDueDate(svc *models.Service, due *time.Time) {
	if due == nil {
		svc.Deadlines.DueDate = nil
		return
	}
	v := *due
	svc.Deadlines.DueDate = &v
}

// OverrideDueDistance replaces the derived due distance. It lasts until the next derivation.
func OverrideDueDistance(svc *models.Service, due *int) {
	if due == nil {
		svc.Deadlines.DueDistance = nil
		return
	}
	v := *due
	svc.Deadlines.DueDistance = &v
}
