package fleet

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Driver struct {
	ID primitive.ObjectID `bson:"_id,omitempty" groups:"basic"`

	// A driver is a staff member behind a staff profile
	StaffRef primitive.ObjectID `groups:"internal"`
	Staff    *Staff             `bson:"-" groups:"basic"`

	LicenseNumber string `groups:"detailed"`

	CreationDateTime     time.Time `groups:"detailed"`
	ModificationDateTime time.Time `groups:"detailed"`
}

type Staff struct {
	ID primitive.ObjectID `bson:"_id,omitempty" groups:"basic"`

	Name  string `groups:"basic"`
	Phone string `groups:"basic"`
	Email string `groups:"detailed"`
}
