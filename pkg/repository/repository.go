package repository

import (
	"context"
	"time"

	"github.com/schoolfleet/schoolfleet/pkg/fleet"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Each repository is a narrow capability over one collection. Lookups
// return (nil, nil) when no record matches.

type VehicleRepository interface {
	Get(ctx context.Context, id primitive.ObjectID) (*fleet.Vehicle, error)
}

type DriverRepository interface {
	Get(ctx context.Context, id primitive.ObjectID) (*fleet.Driver, error)
}

type RouteRepository interface {
	Get(ctx context.Context, id primitive.ObjectID) (*fleet.Route, error)
}

type TripHistoryRepository interface {
	Insert(ctx context.Context, trip *fleet.TripHistory) (primitive.ObjectID, error)
	Get(ctx context.Context, id primitive.ObjectID) (*fleet.TripHistory, error)

	// ApplyAdvance performs the stop transition as a single conditional
	// update: it only matches while the target stop still has the expected
	// status. Returns false when the condition no longer holds.
	ApplyAdvance(ctx context.Context, id primitive.ObjectID, advance TripAdvance) (bool, error)

	Find(ctx context.Context, filter TripFilter, page int64, limit int64) ([]fleet.TripHistory, int64, error)
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
}

// TripFilter is an AND-composed filter over trip histories. Nil/empty
// fields are ignored. Date bounds are inclusive.
type TripFilter struct {
	VehicleRef *primitive.ObjectID
	DriverRef  *primitive.ObjectID
	RouteRef   *primitive.ObjectID

	// Case-insensitive substring match against stop names
	StopName string

	DateFrom *time.Time
	DateTo   *time.Time
}

// TripAdvance describes the write for one advance-to-stop transition.
type TripAdvance struct {
	// Target stop index and the status it must still hold for the
	// update to apply
	Index    int
	Expected fleet.StopStatus

	ArrivalTime time.Time

	// Neighbour transitions: previous stop to Left, following stop to Next
	Changes []StopChange

	Completed bool
}

type StopChange struct {
	Index  int
	Status fleet.StopStatus
}
