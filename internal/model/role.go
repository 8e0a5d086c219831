package model

// Role is the authorization tier stored in users.rights_user. The column is
// free text in the database; anything that is not one of the three known
// values compares below Member.
type Role string

const (
	RoleMember        Role = "Member"
	RoleModerator     Role = "Moderator"
	RoleAdministrator Role = "Administrator"
)

// level maps a role to its numeric tier for comparisons. Unknown values
// (including the empty string of an unauthenticated request) rank below
// every real role.
func (r Role) level() int {
	switch r {
	case RoleAdministrator:
		return 30
	case RoleModerator:
		return 20
	case RoleMember:
		return 10
	default:
		return 0
	}
}

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	return r.level() > 0
}

// AtLeast reports whether r sits at or above target in the hierarchy.
func (r Role) AtLeast(target Role) bool {
	return r.level() >= target.level()
}

// Above reports whether r strictly outranks target.
func (r Role) Above(target Role) bool {
	return r.level() > target.level()
}
