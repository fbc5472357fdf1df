package repository

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBuildTripQueryEmpty(t *testing.T) {
	query := buildTripQuery(TripFilter{})

	if len(query) != 0 {
		t.Errorf("empty filter should produce an empty query, got %v", query)
	}
}

func TestBuildTripQueryReferences(t *testing.T) {
	vehicleRef := primitive.NewObjectID()
	driverRef := primitive.NewObjectID()
	routeRef := primitive.NewObjectID()

	query := buildTripQuery(TripFilter{
		VehicleRef: &vehicleRef,
		DriverRef:  &driverRef,
		RouteRef:   &routeRef,
	})

	if query["vehicleref"] != vehicleRef {
		t.Errorf("vehicleref = %v, want %v", query["vehicleref"], vehicleRef)
	}
	if query["driverref"] != driverRef {
		t.Errorf("driverref = %v, want %v", query["driverref"], driverRef)
	}
	if query["routeref"] != routeRef {
		t.Errorf("routeref = %v, want %v", query["routeref"], routeRef)
	}
}

func TestBuildTripQueryStopName(t *testing.T) {
	query := buildTripQuery(TripFilter{StopName: "High St."})

	regex, ok := query["stops.name"].(primitive.Regex)
	if !ok {
		t.Fatalf("stops.name should be a regex, got %T", query["stops.name"])
	}

	if regex.Options != "i" {
		t.Errorf("stop name match should be case-insensitive, options = %q", regex.Options)
	}

	// Regex metacharacters in free-text stop names must be escaped
	if regex.Pattern == "High St." {
		t.Errorf("pattern %q should have its dot escaped", regex.Pattern)
	}
}

func TestBuildTripQueryDateRange(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	query := buildTripQuery(TripFilter{DateFrom: &from, DateTo: &to})

	dateQuery, ok := query["date"].(bson.M)
	if !ok {
		t.Fatalf("date should be a range document, got %T", query["date"])
	}

	if dateQuery["$gte"] != from {
		t.Errorf("$gte = %v, want %v", dateQuery["$gte"], from)
	}
	if dateQuery["$lte"] != to {
		t.Errorf("$lte = %v, want %v", dateQuery["$lte"], to)
	}

	// Lower bound alone
	query = buildTripQuery(TripFilter{DateFrom: &from})
	dateQuery = query["date"].(bson.M)
	if _, present := dateQuery["$lte"]; present {
		t.Error("upper bound should be absent when DateTo is nil")
	}
}
