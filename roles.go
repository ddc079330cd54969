package portal

// UserRole is the user's role
type UserRole = string

const (
	// RoleStudent can sit exams and read the exam catalog
	RoleStudent UserRole = "student"
	// RoleAdmin can manage students and author exams
	RoleAdmin UserRole = "admin"
)

// IsValid checks if the role is one of the predefined valid roles
func IsValidRole(r UserRole) bool {
	switch r {
	case RoleStudent, RoleAdmin:
		return true
	default:
		return false
	}
}

// ParseRole safely parses a string into a UserRole type
func ParseRole(roleStr string) (UserRole, bool) {
	role := UserRole(roleStr)
	return role, IsValidRole(role)
}

// GetAllRoles returns all predefined roles
func GetAllRoles() []UserRole {
	return []UserRole{RoleStudent, RoleAdmin}
}

// RoleAllows is the whole access control decision: an exact comparison between
// the role carried by an authenticated context and the role a route declares.
// There is no hierarchy between student and admin; anything but an exact match
// is a denial.
func RoleAllows(have, required UserRole) bool {
	if required == "" {
		return true
	}
	return have == required
}

// roleCanManageExams reports whether the role may author or import exams.
// Only used by the websocket claims adapter; route access goes through RoleAllows.
func roleCanManageExams(r UserRole) bool {
	return r == RoleAdmin
}
