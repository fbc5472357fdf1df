package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/schoolfleet/schoolfleet/pkg/database"
	"github.com/schoolfleet/schoolfleet/pkg/fleet"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoVehicleRepository struct{}

func NewMongoVehicleRepository() *MongoVehicleRepository {
	return &MongoVehicleRepository{}
}

func (r *MongoVehicleRepository) Get(ctx context.Context, id primitive.ObjectID) (*fleet.Vehicle, error) {
	var vehicle fleet.Vehicle
	err := database.GetCollection("vehicles").FindOne(ctx, bson.M{"_id": id}).Decode(&vehicle)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &vehicle, nil
}

type MongoDriverRepository struct{}

func NewMongoDriverRepository() *MongoDriverRepository {
	return &MongoDriverRepository{}
}

func (r *MongoDriverRepository) Get(ctx context.Context, id primitive.ObjectID) (*fleet.Driver, error) {
	var driver fleet.Driver
	err := database.GetCollection("drivers").FindOne(ctx, bson.M{"_id": id}).Decode(&driver)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	// Drivers are displayed through their staff profile
	var staff fleet.Staff
	err = database.GetCollection("staff").FindOne(ctx, bson.M{"_id": driver.StaffRef}).Decode(&staff)
	if err == nil {
		driver.Staff = &staff
	}

	return &driver, nil
}

type MongoRouteRepository struct{}

func NewMongoRouteRepository() *MongoRouteRepository {
	return &MongoRouteRepository{}
}

func (r *MongoRouteRepository) Get(ctx context.Context, id primitive.ObjectID) (*fleet.Route, error) {
	var route fleet.Route
	err := database.GetCollection("routes").FindOne(ctx, bson.M{"_id": id}).Decode(&route)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &route, nil
}

type MongoTripHistoryRepository struct{}

func NewMongoTripHistoryRepository() *MongoTripHistoryRepository {
	return &MongoTripHistoryRepository{}
}

func (r *MongoTripHistoryRepository) Insert(ctx context.Context, trip *fleet.TripHistory) (primitive.ObjectID, error) {
	result, err := database.GetCollection("trip_histories").InsertOne(ctx, trip)
	if err != nil {
		return primitive.NilObjectID, err
	}

	return result.InsertedID.(primitive.ObjectID), nil
}

func (r *MongoTripHistoryRepository) Get(ctx context.Context, id primitive.ObjectID) (*fleet.TripHistory, error) {
	var trip fleet.TripHistory
	err := database.GetCollection("trip_histories").FindOne(ctx, bson.M{"_id": id}).Decode(&trip)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &trip, nil
}

func (r *MongoTripHistoryRepository) ApplyAdvance(ctx context.Context, id primitive.ObjectID, advance TripAdvance) (bool, error) {
	filter := bson.M{
		"_id": id,
		fmt.Sprintf("stops.%d.reached", advance.Index): advance.Expected,
	}

	set := bson.M{
		fmt.Sprintf("stops.%d.reached", advance.Index):     fleet.StopStatusReached,
		fmt.Sprintf("stops.%d.arrivaltime", advance.Index): advance.ArrivalTime,
		"modificationdatetime":                             time.Now(),
	}

	for _, change := range advance.Changes {
		set[fmt.Sprintf("stops.%d.reached", change.Index)] = change.Status
	}

	if advance.Completed {
		set["completed"] = true
	}

	result, err := database.GetCollection("trip_histories").UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return false, err
	}

	return result.MatchedCount > 0, nil
}

func (r *MongoTripHistoryRepository) Find(ctx context.Context, filter TripFilter, page int64, limit int64) ([]fleet.TripHistory, int64, error) {
	tripHistoriesCollection := database.GetCollection("trip_histories")
	query := buildTripQuery(filter)

	total, err := tripHistoriesCollection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := tripHistoriesCollection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}

	trips := []fleet.TripHistory{}
	if err := cursor.All(ctx, &trips); err != nil {
		return nil, 0, err
	}

	return trips, total, nil
}

func (r *MongoTripHistoryRepository) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	result, err := database.GetCollection("trip_histories").DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}

	return result.DeletedCount > 0, nil
}
