package rbac

import "testing"

func TestOwnershipFilter_Admin(t *testing.T) {
	expr := OwnershipFilter(Principal{UserID: 1, Role: RoleAdmin}, 1)
	if expr.Clause != "1=1" {
		t.Errorf("admin clause = %q, want 1=1", expr.Clause)
	}
	if len(expr.Args) != 0 {
		t.Errorf("admin filter should bind no args, got %d", len(expr.Args))
	}
}

func TestOwnershipFilter_User(t *testing.T) {
	expr := OwnershipFilter(Principal{UserID: 42, Role: RoleUser}, 1)
	want := "(owner_user_id = $1 OR is_shared = $2)"
	if expr.Clause != want {
		t.Errorf("clause = %q, want %q", expr.Clause, want)
	}
	if len(expr.Args) != 2 || expr.Args[0] != int64(42) || expr.Args[1] != true {
		t.Errorf("args = %v, want [42 true]", expr.Args)
	}
}

func TestOwnershipFilter_ArgOffset(t *testing.T) {
	expr := OwnershipFilter(Principal{UserID: 7, Role: RoleViewer}, 3)
	want := "(owner_user_id = $3 OR is_shared = $4)"
	if expr.Clause != want {
		t.Errorf("clause = %q, want %q", expr.Clause, want)
	}
}
