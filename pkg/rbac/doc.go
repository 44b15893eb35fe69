// Package rbac provides role-based access control for curator.
//
// # Overview
//
// The package implements two things and deliberately nothing more:
//
//  1. Check: a pure decision function mapping (principal, action,
//     resource ownership) to an allow/deny decision with a reason.
//  2. OwnershipFilter: the SQL predicate that scopes every listing query
//     to the rows a principal may see.
//
// It owns the Role and Principal types so that both the auth service and
// the HTTP layer gate through the same decision point instead of
// comparing role strings ad hoc.
//
// # Roles
//
// Three fixed roles form a strict hierarchy for reads:
//
//	RoleAdmin   - full access; the only role that may manage users
//	RoleUser    - may create resources and modify/delete/share its own
//	RoleViewer  - read-only, regardless of ownership
//
// # Actions
//
//	ActionReadResource    - view a resource
//	ActionWriteResource   - modify a resource
//	ActionDeleteResource  - remove a resource
//	ActionShareResource   - toggle a resource's shared flag
//	ActionManageUsers     - create, list, deactivate users
//
// # Usage
//
//	res := &rbac.Resource{OwnerUserID: article.OwnerUserID, IsShared: article.IsShared}
//	if !rbac.Can(principal, rbac.ActionWriteResource, res) {
//		// deny
//	}
//
//	filter := rbac.OwnershipFilter(principal, 1)
//	rows, err := db.Query("SELECT ... FROM articles WHERE "+filter.Clause, filter.Args...)
//
// The decision function fails closed: any action it does not recognize is
// denied, and there is no default-allow branch to misconfigure.
package rbac
