package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReadingOrigin records what produced an odometer reading.
type ReadingOrigin string

const (
	OriginManual            ReadingOrigin = "manual"
	OriginServiceCompletion ReadingOrigin = "service_completion"
	OriginTelemetry         ReadingOrigin = "telemetry"
)

// IsValidOrigin checks if an origin is known
func IsValidOrigin(origin ReadingOrigin) bool {
	switch origin {
	case OriginManual, OriginServiceCompletion, OriginTelemetry:
		return true
	default:
		return false
	}
}

// OdometerReading is an immutable odometer observation for one vehicle.
type OdometerReading struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	VehicleID  primitive.ObjectID `bson:"vehicle_id" json:"vehicle_id"`
	Distance   int                `bson:"distance" json:"distance"`
	RecordedAt time.Time          `bson:"recorded_at" json:"recorded_at"`
	Origin     ReadingOrigin      `bson:"origin" json:"origin"`
}

// OdometerTelemetry is the payload a telematics unit publishes for a vehicle.
type OdometerTelemetry struct {
	Distance   *int       `json:"distance"`
	RecordedAt *time.Time `json:"recorded_at,omitempty"`
}
