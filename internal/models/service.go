package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"time"
)

// ServiceStatus is the urgency tier of a service at evaluation time. It is never stored.
type ServiceStatus string

const (
	StatusOverdue ServiceStatus = "overdue"
	StatusDueSoon ServiceStatus = "due_soon"
	StatusGood    ServiceStatus = "good"
	StatusNeutral ServiceStatus = "neutral"
)

// Priority returns a sort priority (lower = more urgent).
func (s ServiceStatus) Priority() int {
	switch s {
	case StatusOverdue:
		return 0
	case StatusDueSoon:
		return 1
	case StatusGood:
		return 2
	default:
		return 3
	}
}

// PaceConfidence qualifies how much history backs a pace estimate.
type PaceConfidence string

const (
	ConfidenceLow    PaceConfidence = "low"
	ConfidenceMedium PaceConfidence = "medium"
	ConfidenceHigh   PaceConfidence = "high"
)

// RecurrenceInterval is how often a service repeats. Nil or zero on an axis
// means the service does not recur on that axis.
type RecurrenceInterval struct {
	Months   *int `json:"months,omitempty" bson:"months,omitempty"`
	Distance *int `json:"distance,omitempty" bson:"distance,omitempty"`
}

// IsEmpty reports whether the interval recurs on neither axis.
func (i RecurrenceInterval) IsEmpty() bool {
	return (i.Months == nil || *i.Months <= 0) && (i.Distance == nil || *i.Distance <= 0)
}

// DueDeadlines holds the concrete deadlines of a service. A nil field means
// there is no deadline on that axis, which is distinct from a deadline of today.
type DueDeadlines struct {
	DueDate     *time.Time `json:"due_date,omitempty" bson:"due_date,omitempty"`
	DueDistance *int       `json:"due_distance,omitempty" bson:"due_distance,omitempty"`
}

// IsEmpty reports whether no deadline is configured.
func (d DueDeadlines) IsEmpty() bool {
	return d.DueDate == nil && d.DueDistance == nil
}

// Service represents a recurring or one-off maintenance item on a vehicle.
type Service struct {
	ID                    primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	VehicleID             primitive.ObjectID `json:"vehicle_id" bson:"vehicle_id"`
	Name                  string             `json:"name" bson:"name"` // "Oil change", "Tire rotation", ...
	Interval              RecurrenceInterval `json:"interval" bson:"interval"`
	LastPerformedAt       *time.Time         `json:"last_performed_at,omitempty" bson:"last_performed_at,omitempty"`
	LastPerformedDistance *int               `json:"last_performed_distance,omitempty" bson:"last_performed_distance,omitempty"`
	// AnchorDate and AnchorDistance are fixed when tracking starts and stand
	// in for the last performance until there is one.
	AnchorDate     *time.Time   `json:"anchor_date,omitempty" bson:"anchor_date,omitempty"`
	AnchorDistance *int         `json:"anchor_distance,omitempty" bson:"anchor_distance,omitempty"`
	Deadlines      DueDeadlines `json:"deadlines" bson:",inline"`
	Notes          string       `json:"notes" bson:"notes"`
	CreatedAt      time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at" bson:"updated_at"`
}

// ServiceLog is the record of a performed service.
type ServiceLog struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	VehicleID   primitive.ObjectID `json:"vehicle_id" bson:"vehicle_id"`
	ServiceID   primitive.ObjectID `json:"service_id" bson:"service_id"`
	PerformedAt time.Time          `json:"performed_at" bson:"performed_at"`
	Distance    int                `json:"distance" bson:"distance"`
	Cost        float64            `json:"cost" bson:"cost"` // in the owner's currency
	Notes       string             `json:"notes" bson:"notes"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}
