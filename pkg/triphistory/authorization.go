package triphistory

import (
	"github.com/schoolfleet/schoolfleet/pkg/fleet"
)

// Authorized reports whether the caller may mutate trip histories for the
// given vehicle. Top-level admins always may; anyone else must be one of
// the vehicle's assigned drivers.
func Authorized(caller fleet.Caller, vehicle *fleet.Vehicle) bool {
	if caller.IsSuperAdmin() {
		return true
	}

	return vehicle.HasDriver(caller.ID)
}
