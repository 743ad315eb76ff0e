package db

import (
	"context"

	"github.com/ukydev/fleet-maintenance/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoServiceCollection implements ServiceCollection for MongoDB.
type MongoServiceCollection struct {
	Collection *mongo.Collection
}

// InsertService inserts a tracked service.
func (c *MongoServiceCollection) InsertService(ctx context.Context, svc models.Service) error {
	return insertOne(ctx, c.Collection, svc)
}

// FindServiceByID finds a service by its ID.
func (c *MongoServiceCollection) FindServiceByID(ctx context.Context, id string) (*models.Service, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var svc models.Service
	if err := findOne(ctx, c.Collection, bson.M{"_id": oid}, &svc); err != nil {
		return nil, err
	}
	return &svc, nil
}

// FindServices returns every service tracked for a vehicle.
func (c *MongoServiceCollection) FindServices(ctx context.Context, vehicleID string) ([]models.Service, error) {
	oid, err := objectID(vehicleID)
	if err != nil {
		return nil, err
	}
	var services []models.Service
	if err := findAll(ctx, c.Collection, bson.M{"vehicle_id": oid}, &services); err != nil {
		return nil, err
	}
	return services, nil
}

// ReplaceService overwrites the stored service. Absent deadlines are removed
// from the document rather than kept from the previous version.
func (c *MongoServiceCollection) ReplaceService(ctx context.Context, svc models.Service) error {
	if c.Collection == nil {
		return errNilCollection
	}
	result, err := c.Collection.ReplaceOne(ctx, bson.M{"_id": svc.ID}, svc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MongoServiceLogCollection implements ServiceLogCollection for MongoDB.
type MongoServiceLogCollection struct {
	Collection *mongo.Collection
}

// InsertServiceLog appends a completed-service entry.
func (c *MongoServiceLogCollection) InsertServiceLog(ctx context.Context, entry models.ServiceLog) error {
	return insertOne(ctx, c.Collection, entry)
}

// FindServiceLogs returns a service's history, most recent first.
func (c *MongoServiceLogCollection) FindServiceLogs(ctx context.Context, serviceID string) ([]models.ServiceLog, error) {
	oid, err := objectID(serviceID)
	if err != nil {
		return nil, err
	}
	var logs []models.ServiceLog
	opts := options.Find().SetSort(bson.D{{Key: "performed_at", Value: -1}})
	if err := findAll(ctx, c.Collection, bson.M{"service_id": oid}, &logs, opts); err != nil {
		return nil, err
	}
	return logs, nil
}
