package repository

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// buildTripQuery turns a TripFilter into a mongo query document. Filters
// are combined with logical AND; absent filters contribute nothing.
func buildTripQuery(filter TripFilter) bson.M {
	query := bson.M{}

	if filter.VehicleRef != nil {
		query["vehicleref"] = *filter.VehicleRef
	}

	if filter.DriverRef != nil {
		query["driverref"] = *filter.DriverRef
	}

	if filter.RouteRef != nil {
		query["routeref"] = *filter.RouteRef
	}

	if filter.StopName != "" {
		query["stops.name"] = primitive.Regex{
			Pattern: regexp.QuoteMeta(filter.StopName),
			Options: "i",
		}
	}

	if filter.DateFrom != nil || filter.DateTo != nil {
		dateQuery := bson.M{}

		if filter.DateFrom != nil {
			dateQuery["$gte"] = *filter.DateFrom
		}

		if filter.DateTo != nil {
			dateQuery["$lte"] = *filter.DateTo
		}

		query["date"] = dateQuery
	}

	return query
}
