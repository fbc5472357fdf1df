package fleet

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StopStatus is the progress state of a single stop within a trip.
// A stop only ever moves forward: Pending -> Next -> Reached -> Left.
type StopStatus string

const (
	StopStatusPending StopStatus = "Pending"
	StopStatusNext    StopStatus = "Next"
	StopStatusReached StopStatus = "Reached"
	StopStatusLeft    StopStatus = "Left"
)

// ProgressRank orders statuses by how far along a stop is. Reached and
// Left share a rank as both mean the vehicle has arrived.
func (s StopStatus) ProgressRank() int {
	switch s {
	case StopStatusNext:
		return 1
	case StopStatusReached, StopStatusLeft:
		return 2
	default:
		return 0
	}
}

// TripHistory records one vehicle traversing one route's stops on one date.
// The stop list is a snapshot taken at creation time and is unaffected by
// later edits to the source route.
type TripHistory struct {
	ID primitive.ObjectID `bson:"_id,omitempty" groups:"basic"`

	VehicleRef primitive.ObjectID `groups:"internal"`
	Vehicle    *Vehicle           `bson:"-" groups:"basic"`

	DriverRef primitive.ObjectID `groups:"internal"`
	Driver    *Driver            `bson:"-" groups:"basic"`

	RouteRef primitive.ObjectID `groups:"internal"`
	Route    *Route             `bson:"-" groups:"basic"`

	Date time.Time `groups:"basic"`

	Stops []TripStop `groups:"basic"`

	Completed bool `groups:"basic"`

	CreationDateTime     time.Time `groups:"detailed"`
	ModificationDateTime time.Time `groups:"detailed"`
}

type TripStop struct {
	Name      string  `groups:"basic"`
	Latitude  float64 `groups:"basic"`
	Longitude float64 `groups:"basic"`

	Reached StopStatus `groups:"basic"`

	// Set when the stop transitions to Reached
	ArrivalTime *time.Time `bson:"arrivaltime,omitempty" groups:"basic"`
}
