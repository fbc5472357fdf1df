package fleet

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TripEventType string

const (
	TripEventTypeStopReached   TripEventType = "StopReached"
	TripEventTypeTripCompleted TripEventType = "TripCompleted"
)

// TripEvent is published whenever a trip makes progress, for consumers
// such as the archive service or parent notification senders.
type TripEvent struct {
	Type TripEventType `groups:"basic"`

	TripHistoryRef primitive.ObjectID `groups:"basic"`
	VehicleRef     primitive.ObjectID `groups:"basic"`

	StopName string `groups:"basic"`

	CreationDateTime time.Time `groups:"basic"`
}
