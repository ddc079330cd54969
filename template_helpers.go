package portal

// TemplateUserKey is the locals key templates read the authenticated
// principal from. It matches the session guard's default context key so
// PassLocalsToViews exposes it without extra plumbing.
var TemplateUserKey = "user"

// TemplateHelpers returns helper functions for the view engine. Register them
// on the engine at startup:
//
//	for name, fn := range portal.TemplateHelpers() {
//	    engine.AddFunc(name, fn)
//	}
//
// In templates:
//
//	{% if is_authenticated(user) %}
//	{% if has_role(user, "admin") %}
func TemplateHelpers() map[string]any {
	return map[string]any{
		"is_authenticated": isAuthenticated,
		"has_role":         hasTemplateRole,
	}
}

// TemplateRoles returns the role constants for template access, useful as
// global view data so templates avoid hardcoded role strings.
func TemplateRoles() map[string]string {
	return map[string]string{
		"student": RoleStudent,
		"admin":   RoleAdmin,
	}
}

// isAuthenticated reports whether the template value represents a signed in user.
func isAuthenticated(user any) bool {
	switch u := user.(type) {
	case nil:
		return false
	case *User:
		return u != nil
	case User:
		return true
	case *SessionObject:
		return u != nil && u.UserID != ""
	case AuthClaims:
		return u != nil && u.UserID() != ""
	case map[string]any:
		return len(u) > 0
	default:
		return false
	}
}

// hasTemplateRole checks the template value's role against required using
// the same exact match rule the route guards apply.
func hasTemplateRole(user any, role string) bool {
	switch u := user.(type) {
	case *User:
		return u != nil && RoleAllows(u.Role, role)
	case User:
		return RoleAllows(u.Role, role)
	case *SessionObject:
		return u != nil && u.HasRole(role)
	case AuthClaims:
		return u != nil && u.HasRole(role)
	case map[string]any:
		r, _ := u["role"].(string)
		return RoleAllows(r, role)
	default:
		return false
	}
}
