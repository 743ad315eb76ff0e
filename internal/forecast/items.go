package forecast

import (
	"sort"
	"time"

	"github.com/ukydev/fleet-maintenance/internal/models"
)

// ItemKind distinguishes the sources of trackable deadlines.
type ItemKind string

const (
	KindService      ItemKind = "service"
	KindRegistration ItemKind = "registration"
)

// Item is anything with deadlines that competes for the owner's attention.
type Item struct {
	ID           string               `json:"id"`
	VehicleID    string               `json:"vehicle_id"`
	Name         string               `json:"name"`
	Kind         ItemKind             `json:"kind"`
	Deadlines    models.DueDeadlines  `json:"deadlines"`
	Status       models.ServiceStatus `json:"status"`
	Score        int                  `json:"-"`
	EffectiveDue *time.Time           `json:"effective_due,omitempty"`
}

// HasDeadline reports whether the item can be ranked by time.
func (i Item) HasDeadline() bool {
	return i.Score != NoDeadline
}

// NewServiceItem evaluates a service at the given odometer and time.
func NewServiceItem(svc models.Service, odometer int, now time.Time, pace *float64, th Thresholds) Item {
	return Item{
		ID:           svc.ID.Hex(),
		VehicleID:    svc.VehicleID.Hex(),
		Name:         svc.Name,
		Kind:         KindService,
		Deadlines:    svc.Deadlines,
		Status:       ClassifyStatus(svc.Deadlines, odometer, now, th),
		Score:        UrgencyScore(svc.Deadlines, odometer, now, pace),
		EffectiveDue: EffectiveDueDate(svc.Deadlines, odometer, now, pace),
	}
}

// NewRegistrationItem turns a vehicle's registration expiry into a date-only
// item. Returns nil when the vehicle has no expiry on record.
func NewRegistrationItem(v models.Vehicle, now time.Time, th Thresholds) *Item {
	if v.RegistrationExpiresAt == nil {
		return nil
	}
	expiry := *v.RegistrationExpiresAt
	d := models.DueDeadlines{DueDate: &expiry}
	return &Item{
		ID:           "registration:" + v.ID.Hex(),
		VehicleID:    v.ID.Hex(),
		Name:         "Registration renewal",
		Kind:         KindRegistration,
		Deadlines:    d,
		Status:       ClassifyStatus(d, v.Odometer, now, th),
		Score:        UrgencyScore(d, v.Odometer, now, nil),
		EffectiveDue: EffectiveDueDate(d, v.Odometer, now, nil),
	}
}

// RankItems sorts items most urgent first:
// 1. Urgency score ascending
// 2. Effective due date earliest first (nil last)
// 3. Name (lexical)
// 4. ID (lexical)
func RankItems(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]

		if a.Score != b.Score {
			return a.Score < b.Score
		}

		dueA, dueB := a.EffectiveDue, b.EffectiveDue
		if (dueA == nil) != (dueB == nil) {
			return dueA != nil
		}
		if dueA != nil && dueB != nil && !dueA.Equal(*dueB) {
			return dueA.Before(*dueB)
		}

		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
}

// BundleCandidates returns the items worth doing together with primary: those
// with a deadline whose score is within windowDays of the primary's score.
// The result is ranked; primary itself is excluded.
func BundleCandidates(primary Item, others []Item, windowDays int) []Item {
	if !primary.HasDeadline() {
		return nil
	}
	var bundle []Item
	for _, other := range others {
		if other.ID == primary.ID || !other.HasDeadline() {
			continue
		}
		gap := other.Score - primary.Score
		if gap < 0 {
			gap = -gap
		}
		if gap <= windowDays {
			bundle = append(bundle, other)
		}
	}
	RankItems(bundle)
	return bundle
}
