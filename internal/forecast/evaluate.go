package forecast

import (
	"time"

	"github.com/ukydev/fleet-maintenance/internal/models"
)

// Snapshot is a consistent, already-fetched view of one vehicle.
type Snapshot struct {
	Vehicle    models.Vehicle
	Readings   []models.OdometerReading
	Services   []models.Service
	Thresholds Thresholds
	Now        time.Time
}

// Report is the evaluated state of a vehicle at Snapshot.Now.
type Report struct {
	VehicleID         string      `json:"vehicle_id"`
	EvaluatedAt       time.Time   `json:"evaluated_at"`
	Pace              *float64    `json:"pace,omitempty"`
	Confidence        *Confidence `json:"confidence,omitempty"`
	LastOdometer      int         `json:"last_odometer"`
	ProjectedOdometer *int        `json:"projected_odometer,omitempty"`
	EffectiveOdometer int         `json:"effective_odometer"`
	Items             []Item      `json:"items"`
}

// Item returns the report item with the given ID.
func (r *Report) Item(id string) (Item, bool) {
	for _, it := range r.Items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// Evaluate runs the whole engine over a snapshot: pace and confidence from the
// readings, effective odometer, then one ranked item per service plus the
// registration renewal when the vehicle has one.
func Evaluate(s Snapshot) Report {
	v := s.Vehicle
	pace := EstimatePace(s.Readings, s.Now)
	projected := ProjectOdometer(pace, v.Odometer, v.OdometerUpdatedAt, s.Now)

	odometer := v.Odometer
	if projected != nil {
		odometer = *projected
	}

	items := make([]Item, 0, len(s.Services)+1)
	for _, svc := range s.Services {
		items = append(items, NewServiceItem(svc, odometer, s.Now, pace, s.Thresholds))
	}
	if reg := NewRegistrationItem(v, s.Now, s.Thresholds); reg != nil {
		items = append(items, *reg)
	}
	RankItems(items)

	return Report{
		VehicleID:         v.ID.Hex(),
		EvaluatedAt:       s.Now,
		Pace:              pace,
		Confidence:        ClassifyConfidence(s.Readings, s.Now),
		LastOdometer:      v.Odometer,
		ProjectedOdometer: projected,
		EffectiveOdometer: odometer,
		Items:             items,
	}
}
