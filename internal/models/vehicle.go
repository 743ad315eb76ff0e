package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"time"
)

// Distance units a vehicle can be tracked in.
const (
	UnitMiles      = "mi"
	UnitKilometers = "km"
)

// Vehicle represents a tracked vehicle and its last confirmed odometer value.
type Vehicle struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name                  string             `bson:"name" json:"name"`
	Make                  string             `bson:"make" json:"make"`
	Model                 string             `bson:"model" json:"model"`
	Year                  int                `bson:"year" json:"year"`
	DistanceUnit          string             `bson:"distance_unit" json:"distance_unit"` // "mi" or "km"
	Odometer              int                `bson:"odometer" json:"odometer"`
	OdometerUpdatedAt     *time.Time         `bson:"odometer_updated_at,omitempty" json:"odometer_updated_at,omitempty"`
	RegistrationExpiresAt *time.Time         `bson:"registration_expires_at,omitempty" json:"registration_expires_at,omitempty"`
	CreatedAt             time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt             time.Time          `bson:"updated_at" json:"updated_at"`
}

// IsValidDistanceUnit reports whether unit is one of the supported distance units.
func IsValidDistanceUnit(unit string) bool {
	return unit == UnitMiles || unit == UnitKilometers
}
