package db

import (
	"context"
	"time"

	"github.com/ukydev/fleet-maintenance/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoOwnerCollection implements OwnerCollection for MongoDB
type MongoOwnerCollection struct {
	Collection *mongo.Collection
}

// InsertOwner inserts the owner account
func (c *MongoOwnerCollection) InsertOwner(ctx context.Context, owner models.Owner) error {
	now := time.Now()
	owner.CreatedAt = now
	owner.UpdatedAt = now
	return insertOne(ctx, c.Collection, owner)
}

// FindOwnerByUsername finds the owner by username
func (c *MongoOwnerCollection) FindOwnerByUsername(ctx context.Context, username string) (*models.Owner, error) {
	var owner models.Owner
	if err := findOne(ctx, c.Collection, bson.M{"username": username}, &owner); err != nil {
		return nil, err
	}
	return &owner, nil
}

// UpdateLastLogin updates the last login time for the owner
func (c *MongoOwnerCollection) UpdateLastLogin(ctx context.Context, id string) error {
	if c.Collection == nil {
		return errNilCollection
	}
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	now := time.Now()
	_, err = c.Collection.UpdateOne(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"last_login": now, "updated_at": now}},
	)
	return err
}

// CountOwners returns how many owner accounts exist
func (c *MongoOwnerCollection) CountOwners(ctx context.Context) (int64, error) {
	if c.Collection == nil {
		return 0, errNilCollection
	}
	return c.Collection.CountDocuments(ctx, bson.M{})
}
