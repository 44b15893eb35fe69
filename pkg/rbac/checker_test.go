package rbac

import "testing"

var (
	admin  = Principal{UserID: 1, Username: "root", Role: RoleAdmin}
	alice  = Principal{UserID: 2, Username: "alice", Role: RoleUser}
	bob    = Principal{UserID: 3, Username: "bob", Role: RoleUser}
	viewer = Principal{UserID: 4, Username: "carol", Role: RoleViewer}
)

func TestCheck_ManageUsers(t *testing.T) {
	if !Check(admin, ActionManageUsers, nil).Allowed {
		t.Error("admin should be allowed to manage users")
	}
	if Check(alice, ActionManageUsers, nil).Allowed {
		t.Error("regular user should not manage users")
	}
	if Check(viewer, ActionManageUsers, nil).Allowed {
		t.Error("viewer should not manage users")
	}
}

func TestCheck_ReadResource(t *testing.T) {
	owned := &Resource{OwnerUserID: alice.UserID}
	shared := &Resource{OwnerUserID: alice.UserID, IsShared: true}

	tests := []struct {
		name      string
		principal Principal
		resource  *Resource
		want      bool
	}{
		{"owner reads own private", alice, owned, true},
		{"other user denied private", bob, owned, false},
		{"viewer denied private", viewer, owned, false},
		{"admin reads any private", admin, owned, true},
		{"other user reads shared", bob, shared, true},
		{"viewer reads shared", viewer, shared, true},
		{"nil resource denied", alice, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Check(tt.principal, ActionReadResource, tt.resource)
			if got.Allowed != tt.want {
				t.Errorf("Check() = %v (%s), want allowed=%v", got.Allowed, got.Reason, tt.want)
			}
		})
	}
}

func TestCheck_Mutations(t *testing.T) {
	owned := &Resource{OwnerUserID: alice.UserID}
	viewerOwned := &Resource{OwnerUserID: viewer.UserID}
	// Sharing a resource grants reads, never writes.
	shared := &Resource{OwnerUserID: alice.UserID, IsShared: true}

	for _, action := range []Action{ActionWriteResource, ActionDeleteResource, ActionShareResource} {
		t.Run(string(action), func(t *testing.T) {
			if !Check(alice, action, owned).Allowed {
				t.Error("owner should modify own resource")
			}
			if Check(bob, action, owned).Allowed {
				t.Error("non-owner should not modify")
			}
			if Check(bob, action, shared).Allowed {
				t.Error("shared grants read only, not modification")
			}
			if !Check(admin, action, owned).Allowed {
				t.Error("admin should modify any resource")
			}
			if Check(viewer, action, viewerOwned).Allowed {
				t.Error("viewer should be read-only even for owned resources")
			}
			if Check(alice, action, nil).Allowed {
				t.Error("nil resource should deny")
			}
		})
	}
}

func TestCheck_UnknownActionDenied(t *testing.T) {
	got := Check(admin, Action("resource:transmogrify"), &Resource{OwnerUserID: admin.UserID})
	if got.Allowed {
		t.Error("unknown action should be denied even for admin")
	}
}

func TestCan(t *testing.T) {
	if !Can(admin, ActionManageUsers, nil) {
		t.Error("Can() should mirror Check().Allowed")
	}
	if Can(alice, ActionManageUsers, nil) {
		t.Error("Can() should mirror denial")
	}
}
