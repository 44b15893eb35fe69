package rbac

// Check is the single permission decision point. It is a pure function of
// the principal, the requested action, and the resource's ownership view;
// it touches no storage and holds no state.
//
// Rules, in order:
//
//  1. ManageUsers: admin only.
//  2. ReadResource: admin, owner, or anyone if the resource is shared.
//  3. WriteResource / DeleteResource / ShareResource: admin, or the owner
//     provided the principal is not a viewer. Viewers are read-only
//     regardless of ownership.
//  4. Anything else is denied. There is no default-allow path.
//
// Actions that operate on a resource require one; passing resource == nil
// for those actions denies by construction.
func Check(principal Principal, action Action, resource *Resource) Decision {
	switch action {
	case ActionManageUsers:
		if principal.Role == RoleAdmin {
			return Allow("admin may manage users")
		}
		return Deny("only admins may manage users")

	case ActionReadResource:
		if resource == nil {
			return Deny("no resource to check")
		}
		if principal.Role == RoleAdmin {
			return Allow("admin may read any resource")
		}
		if resource.OwnerUserID == principal.UserID {
			return Allow("owner may read own resource")
		}
		if resource.IsShared {
			return Allow("resource is shared")
		}
		return Deny("resource is private to another user")

	case ActionWriteResource, ActionDeleteResource, ActionShareResource:
		if resource == nil {
			return Deny("no resource to check")
		}
		if principal.Role == RoleAdmin {
			return Allow("admin may modify any resource")
		}
		if principal.Role == RoleViewer {
			return Deny("viewers are read-only")
		}
		if resource.OwnerUserID == principal.UserID {
			return Allow("owner may modify own resource")
		}
		return Deny("resource is owned by another user")
	}

	return Deny("no matching rule")
}

// Can wraps Check for call sites that only need the boolean.
func Can(principal Principal, action Action, resource *Resource) bool {
	return Check(principal, action, resource).Allowed
}
