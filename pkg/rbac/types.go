package rbac

// Role is the closed set of access levels a user can hold. The hierarchy
// is Admin > User > Viewer: every read an outranked role may perform, the
// higher role may too. All permission decisions go through Check; nothing
// outside this package should compare roles directly.
type Role string

const (
	RoleAdmin  Role = "admin"  // Full access, including user management
	RoleUser   Role = "user"   // Can create and manage own resources
	RoleViewer Role = "viewer" // Read-only access
)

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleViewer:
		return true
	}
	return false
}

// Principal is the resolved identity attached to an authenticated request.
// It is threaded explicitly through call signatures; there is no ambient
// "current user" state anywhere in the system.
type Principal struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// Action is an operation a principal may request.
type Action string

const (
	ActionReadResource   Action = "resource:read"
	ActionWriteResource  Action = "resource:write"
	ActionDeleteResource Action = "resource:delete"
	ActionShareResource  Action = "resource:share"
	ActionManageUsers    Action = "users:manage"
)

// Resource is the ownership view of any domain entity (an article, a
// scraper profile, ...) that permission decisions need: who owns it and
// whether it has been shared with all authenticated users.
type Resource struct {
	OwnerUserID int64
	IsShared    bool
}

// Decision is the result of a permission check.
type Decision struct {
	Allowed bool
	Reason  string
}

// Allow returns an allowing decision with the rule that matched.
func Allow(reason string) Decision {
	return Decision{Allowed: true, Reason: reason}
}

// Deny returns a denying decision with the rule that matched.
func Deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}
