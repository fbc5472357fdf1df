package fleet

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Vehicle struct {
	ID primitive.ObjectID `bson:"_id,omitempty" groups:"basic"`

	Registration string `groups:"basic"`
	Model        string `groups:"detailed"`
	Capacity     int    `groups:"detailed"`

	// Drivers permitted to operate this vehicle and mutate its trips
	DriverAssigned []primitive.ObjectID `groups:"detailed"`

	CreationDateTime     time.Time `groups:"detailed"`
	ModificationDateTime time.Time `groups:"detailed"`
}

// HasDriver reports whether the given driver is assigned to this vehicle.
func (v *Vehicle) HasDriver(driverID primitive.ObjectID) bool {
	for _, assigned := range v.DriverAssigned {
		if assigned == driverID {
			return true
		}
	}

	return false
}
