package domain

// Actor is the authenticated caller of a request.
type Actor struct {
	ID   uint
	Role Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanManage reports whether the actor may modify a resource owned by ownerID.
func (a Actor) CanManage(ownerID uint) bool {
	return a.IsAdmin() || a.ID == ownerID
}
