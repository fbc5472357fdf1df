package database

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func createIndexes() {
	createFleetIndexes()
	createTripHistoryIndexes()
}

func createFleetIndexes() {
	vehiclesCollection := GetCollection("vehicles")
	vehiclesIndex := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "registration", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "driverassigned", Value: 1}},
		},
	}

	opts := options.CreateIndexes()
	_, err := vehiclesCollection.Indexes().CreateMany(context.Background(), vehiclesIndex, opts)
	if err != nil {
		log.Error().Err(err).Msg("Creating Index")
	}

	driversCollection := GetCollection("drivers")
	driversIndex := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "staffref", Value: 1}},
		},
	}

	opts = options.CreateIndexes()
	_, err = driversCollection.Indexes().CreateMany(context.Background(), driversIndex, opts)
	if err != nil {
		log.Error().Err(err).Msg("Creating Index")
	}

	routesCollection := GetCollection("routes")
	routesIndex := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "vehicleref", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "stops.sequence", Value: 1}},
		},
	}

	opts = options.CreateIndexes()
	_, err = routesCollection.Indexes().CreateMany(context.Background(), routesIndex, opts)
	if err != nil {
		log.Error().Err(err).Msg("Creating Index")
	}
}

func createTripHistoryIndexes() {
	tripHistoriesCollection := GetCollection("trip_histories")
	_, err := tripHistoriesCollection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "vehicleref", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "driverref", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "routeref", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "date", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "stops.name", Value: 1}},
		},
	}, options.CreateIndexes())
	if err != nil {
		log.Error().Err(err).Msg("Creating Index")
	}

	tripEventsCollection := GetCollection("trip_events")
	_, err = tripEventsCollection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "triphistoryref", Value: 1}},
		},
		{
			Keys:    bson.D{{Key: "creationdatetime", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(30 * 24 * 3600), // Expire after 30 days
		},
	}, options.CreateIndexes())
	if err != nil {
		log.Error().Err(err).Msg("Creating Index")
	}
}
