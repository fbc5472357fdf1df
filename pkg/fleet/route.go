package fleet

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Route struct {
	ID primitive.ObjectID `bson:"_id,omitempty" groups:"basic"`

	Name       string             `groups:"basic"`
	VehicleRef primitive.ObjectID `groups:"internal"`

	// Stops ordered by their 1-based sequence number
	Stops []RouteStop `groups:"basic"`

	CreationDateTime     time.Time `groups:"detailed"`
	ModificationDateTime time.Time `groups:"detailed"`
}

type RouteStop struct {
	Name      string  `groups:"basic"`
	Latitude  float64 `groups:"basic"`
	Longitude float64 `groups:"basic"`
	Sequence  int     `groups:"basic"`
}
