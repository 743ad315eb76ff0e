package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/fleet-maintenance/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestConnectMongo_BadURI(t *testing.T) {
	client, err := ConnectMongo("mongodb://bad:uri")
	assert.Error(t, err)
	assert.Nil(t, client)
}

func TestNilCollection(t *testing.T) {
	ctx := context.Background()
	id := primitive.NewObjectID().Hex()

	assert.ErrorIs(t, (&MongoVehicleCollection{}).InsertVehicle(ctx, models.Vehicle{}), errNilCollection)
	assert.ErrorIs(t, (&MongoVehicleCollection{}).UpdateOdometer(ctx, id, 1, time.Now()), errNilCollection)
	assert.ErrorIs(t, (&MongoReadingCollection{}).InsertReading(ctx, models.OdometerReading{}), errNilCollection)
	assert.ErrorIs(t, (&MongoServiceCollection{}).ReplaceService(ctx, models.Service{}), errNilCollection)
	assert.ErrorIs(t, (&MongoServiceLogCollection{}).InsertServiceLog(ctx, models.ServiceLog{}), errNilCollection)
	assert.ErrorIs(t, (&MongoOwnerCollection{}).InsertOwner(ctx, models.Owner{}), errNilCollection)

	_, err := (&MongoServiceCollection{}).FindServiceByID(ctx, id)
	assert.ErrorIs(t, err, errNilCollection)

	_, err = (&MongoOwnerCollection{}).CountOwners(ctx)
	assert.ErrorIs(t, err, errNilCollection)
}

func TestInvalidID(t *testing.T) {
	ctx := context.Background()

	_, err := (&MongoVehicleCollection{}).FindVehicleByID(ctx, "not-hex")
	assert.ErrorIs(t, err, ErrInvalidID)
	_, err = (&MongoReadingCollection{}).FindReadings(ctx, "not-hex")
	assert.ErrorIs(t, err, ErrInvalidID)
	_, err = (&MongoServiceLogCollection{}).FindServiceLogs(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidID)
}

// integrationDB connects to the database named by MONGO_URI or skips.
func integrationDB(t *testing.T) *mongo.Database {
	t.Helper()
	uri := os.Getenv("MONGO_URI")
	if uri == "" || uri == "uri" {
		t.Skip("MONGO_URI not set or invalid, skipping integration test")
	}
	client, err := ConnectMongo(uri)
	if err != nil {
		t.Skipf("failed to connect: %v, skipping integration test", err)
	}
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	database := client.Database("test_fleet_maintenance")
	require.NoError(t, database.Drop(context.Background()))
	require.NoError(t, EnsureIndexes(context.Background(), database))
	return database
}

func TestVehicleAndReadings_Integration(t *testing.T) {
	database := integrationDB(t)
	ctx := context.Background()

	vehicles := &MongoVehicleCollection{Collection: database.Collection(VehiclesCollection)}
	readings := &MongoReadingCollection{Collection: database.Collection(ReadingsCollection)}

	vehicle := models.Vehicle{ID: primitive.NewObjectID(), Name: "Hatchback", DistanceUnit: models.UnitMiles}
	require.NoError(t, vehicles.InsertVehicle(ctx, vehicle))

	at := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, vehicles.UpdateOdometer(ctx, vehicle.ID.Hex(), 12000, at))
	found, err := vehicles.FindVehicleByID(ctx, vehicle.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 12000, found.Odometer)
	require.NotNil(t, found.OdometerUpdatedAt)
	assert.True(t, at.Equal(*found.OdometerUpdatedAt))

	_, err = vehicles.FindVehicleByID(ctx, primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrNotFound)

	later := models.OdometerReading{ID: primitive.NewObjectID(), VehicleID: vehicle.ID, Distance: 12300, RecordedAt: at.AddDate(0, 0, 7), Origin: models.OriginManual}
	earlier := models.OdometerReading{ID: primitive.NewObjectID(), VehicleID: vehicle.ID, Distance: 12000, RecordedAt: at, Origin: models.OriginManual}
	require.NoError(t, readings.InsertReading(ctx, later))
	require.NoError(t, readings.InsertReading(ctx, earlier))

	all, err := readings.FindReadings(ctx, vehicle.ID.Hex())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, 12000, all[0].Distance)

	sameDay, err := readings.FindReadingBetween(ctx, vehicle.ID.Hex(), at.Truncate(24*time.Hour), at.Truncate(24*time.Hour).Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, earlier.ID, sameDay.ID)

	sameDay.Distance = 12050
	require.NoError(t, readings.UpdateReading(ctx, *sameDay))
	all, err = readings.FindReadings(ctx, vehicle.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 12050, all[0].Distance)
}

func TestServices_Integration(t *testing.T) {
	database := integrationDB(t)
	ctx := context.Background()

	services := &MongoServiceCollection{Collection: database.Collection(ServicesCollection)}
	logs := &MongoServiceLogCollection{Collection: database.Collection(ServiceLogsCollection)}

	dist := 15000
	svc := models.Service{
		ID:        primitive.NewObjectID(),
		VehicleID: primitive.NewObjectID(),
		Name:      "Oil change",
		Deadlines: models.DueDeadlines{DueDistance: &dist},
	}
	require.NoError(t, services.InsertService(ctx, svc))

	svc.Deadlines = models.DueDeadlines{}
	require.NoError(t, services.ReplaceService(ctx, svc))
	found, err := services.FindServiceByID(ctx, svc.ID.Hex())
	require.NoError(t, err)
	assert.True(t, found.Deadlines.IsEmpty())

	list, err := services.FindServices(ctx, svc.VehicleID.Hex())
	require.NoError(t, err)
	assert.Len(t, list, 1)

	assert.ErrorIs(t, services.ReplaceService(ctx, models.Service{ID: primitive.NewObjectID()}), ErrNotFound)

	entry := models.ServiceLog{ID: primitive.NewObjectID(), ServiceID: svc.ID, VehicleID: svc.VehicleID, PerformedAt: time.Now().UTC(), Distance: 15100}
	require.NoError(t, logs.InsertServiceLog(ctx, entry))
	history, err := logs.FindServiceLogs(ctx, svc.ID.Hex())
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 15100, history[0].Distance)
}
