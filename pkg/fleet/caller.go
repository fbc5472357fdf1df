package fleet

import "go.mongodb.org/mongo-driver/bson/primitive"

const RoleSuperAdmin = "superAdmin"

// Caller is the authenticated identity behind a request. It is threaded
// explicitly into every engine call rather than read from ambient state.
type Caller struct {
	ID   primitive.ObjectID
	Role string
}

func (c Caller) IsSuperAdmin() bool {
	return c.Role == RoleSuperAdmin
}
