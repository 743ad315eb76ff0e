package db

import (
	"context"
	"time"

	"github.com/ukydev/fleet-maintenance/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoReadingCollection implements ReadingCollection for MongoDB.
type MongoReadingCollection struct {
	Collection *mongo.Collection
}

// InsertReading inserts an odometer reading.
func (c *MongoReadingCollection) InsertReading(ctx context.Context, reading models.OdometerReading) error {
	return insertOne(ctx, c.Collection, reading)
}

// FindReadings returns a vehicle's readings oldest first.
func (c *MongoReadingCollection) FindReadings(ctx context.Context, vehicleID string) ([]models.OdometerReading, error) {
	oid, err := objectID(vehicleID)
	if err != nil {
		return nil, err
	}
	var readings []models.OdometerReading
	opts := options.Find().SetSort(bson.D{{Key: "recorded_at", Value: 1}})
	if err := findAll(ctx, c.Collection, bson.M{"vehicle_id": oid}, &readings, opts); err != nil {
		return nil, err
	}
	return readings, nil
}

// FindReadingBetween returns the vehicle's reading recorded in [from, to).
func (c *MongoReadingCollection) FindReadingBetween(ctx context.Context, vehicleID string, from, to time.Time) (*models.OdometerReading, error) {
	oid, err := objectID(vehicleID)
	if err != nil {
		return nil, err
	}
	var reading models.OdometerReading
	filter := bson.M{
		"vehicle_id":  oid,
		"recorded_at": bson.M{"$gte": from, "$lt": to},
	}
	if err := findOne(ctx, c.Collection, filter, &reading); err != nil {
		return nil, err
	}
	return &reading, nil
}

// UpdateReading replaces the distance, time and origin of an existing reading.
func (c *MongoReadingCollection) UpdateReading(ctx context.Context, reading models.OdometerReading) error {
	if c.Collection == nil {
		return errNilCollection
	}
	result, err := c.Collection.UpdateOne(ctx, bson.M{"_id": reading.ID}, bson.M{"$set": bson.M{
		"distance":    reading.Distance,
		"recorded_at": reading.RecordedAt,
		"origin":      reading.Origin,
	}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
