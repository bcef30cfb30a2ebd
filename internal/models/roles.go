package models

// Role is the administrator tier. The integer ordering is a total order:
// a higher role can do everything a lower one can.
type Role int

const (
	RoleObserver Role = 1
	RoleSupport  Role = 2
	RoleManager  Role = 3
	RoleRegional Role = 4
	RoleSuper    Role = 5
)

func (r Role) Valid() bool {
	return r >= RoleObserver && r <= RoleSuper
}

func (r Role) AtLeast(min Role) bool {
	return r >= min
}

// CanManageAdmins gates the administrator-management endpoints.
func (r Role) CanManageAdmins() bool {
	return r >= RoleSuper
}

// CanManageAllRegions lifts the region filter on every read and write.
func (r Role) CanManageAllRegions() bool {
	return r >= RoleSuper
}
