package triphistory

import (
	"testing"

	"github.com/schoolfleet/schoolfleet/pkg/fleet"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAuthorized(t *testing.T) {
	assignedDriver := primitive.NewObjectID()
	otherDriver := primitive.NewObjectID()

	vehicle := &fleet.Vehicle{
		ID:             primitive.NewObjectID(),
		Registration:   "BUS-12",
		DriverAssigned: []primitive.ObjectID{assignedDriver},
	}

	testCases := []struct {
		name   string
		caller fleet.Caller
		want   bool
	}{
		{"super admin", fleet.Caller{ID: otherDriver, Role: fleet.RoleSuperAdmin}, true},
		{"assigned driver", fleet.Caller{ID: assignedDriver, Role: "driver"}, true},
		{"unassigned driver", fleet.Caller{ID: otherDriver, Role: "driver"}, false},
		{"other staff", fleet.Caller{ID: primitive.NewObjectID(), Role: "teacher"}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Authorized(tc.caller, vehicle); got != tc.want {
				t.Errorf("Authorized() = %v, want %v", got, tc.want)
			}
		})
	}
}
