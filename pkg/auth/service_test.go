package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/curatorhq/curator/pkg/rbac"
)

func TestService_LoginAndResolve(t *testing.T) {
	service, users, _ := newTestService(t)
	ctx := context.Background()
	user := createTestUser(t, service, users, "alice", "password123", rbac.RoleUser)

	token, session, err := service.Login(ctx, "alice", "password123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if token == "" {
		t.Fatal("Login() should return a raw token")
	}
	if session.UserID != user.ID {
		t.Errorf("session.UserID = %d, want %d", session.UserID, user.ID)
	}

	principal, err := service.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if principal.UserID != user.ID || principal.Username != "alice" || principal.Role != rbac.RoleUser {
		t.Errorf("Resolve() = %+v", principal)
	}

	// Successful login records last_login_at.
	found, err := users.FindByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if found.LastLoginAt == nil {
		t.Error("login should record last_login_at")
	}
}

func TestService_LoginFailuresAreUniform(t *testing.T) {
	service, users, _ := newTestService(t)
	ctx := context.Background()
	createTestUser(t, service, users, "alice", "password123", rbac.RoleUser)

	inactive := createTestUser(t, service, users, "mallory", "password123", rbac.RoleUser)
	if err := users.Deactivate(ctx, inactive.ID); err != nil {
		t.Fatalf("Deactivate() error = %v", err)
	}

	// Unknown username, wrong password, and deactivated account must be
	// indistinguishable to the caller.
	cases := []struct {
		name     string
		username string
		password string
	}{
		{"unknown username", "nobody", "password123"},
		{"wrong password", "alice", "wrong"},
		{"deactivated account", "mallory", "password123"},
		{"empty password", "alice", ""},
	}

	var messages []string
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := service.Login(ctx, tc.username, tc.password)
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Fatalf("Login() error = %v, want ErrInvalidCredentials", err)
			}
			messages = append(messages, err.Error())
		})
	}
	for i := 1; i < len(messages); i++ {
		if messages[i] != messages[0] {
			t.Errorf("failure messages differ: %q vs %q", messages[0], messages[i])
		}
	}
}

func TestService_ResolveUnknownToken(t *testing.T) {
	service, _, _ := newTestService(t)
	ctx := context.Background()

	// Well-formed but never issued.
	token, _, _, err := GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	if _, err := service.Resolve(ctx, token); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("Resolve(unknown) error = %v, want ErrInvalidSession", err)
	}

	// Malformed tokens short-circuit before any storage lookup.
	for _, bad := range []string{"", "garbage", "cur_"} {
		if _, err := service.Resolve(ctx, bad); !errors.Is(err, ErrInvalidSession) {
			t.Errorf("Resolve(%q) error = %v, want ErrInvalidSession", bad, err)
		}
	}
}

func TestService_ExpiredSessionRejectedAndDeleted(t *testing.T) {
	service, users, sessions := newTestService(t)
	ctx := context.Background()
	user := createTestUser(t, service, users, "alice", "password123", rbac.RoleUser)

	// Insert an already expired session directly; no sweep will run.
	session, token, err := sessions.Create(ctx, user.ID, -time.Minute)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := service.Resolve(ctx, token); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("Resolve(expired) error = %v, want ErrInvalidSession", err)
	}

	// Expiry is enforced at validation time and the row is reclaimed
	// opportunistically.
	found, err := sessions.Find(ctx, session.TokenHash)
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if found != nil {
		t.Error("expired session should be deleted on resolution")
	}
}

func TestService_DeactivatedOwnerSessionKept(t *testing.T) {
	service, users, sessions := newTestService(t)
	ctx := context.Background()

	admin := createTestUser(t, service, users, "root", "adminpass", rbac.RoleAdmin)
	user := createTestUser(t, service, users, "alice", "password123", rbac.RoleUser)

	token, session, err := service.Login(ctx, "alice", "password123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if err := service.DeactivateUser(ctx, admin.Principal(), user.ID); err != nil {
		t.Fatalf("DeactivateUser() error = %v", err)
	}

	if _, err := service.Resolve(ctx, token); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("Resolve() for deactivated owner = %v, want ErrInvalidSession", err)
	}

	// The session row survives: reactivating the account before expiry
	// makes it usable again. Only expiry deletes it.
	found, err := sessions.Find(ctx, session.TokenHash)
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if found == nil {
		t.Error("deactivated owner's unexpired session must not be deleted")
	}
}

func TestService_LogoutIdempotent(t *testing.T) {
	service, users, _ := newTestService(t)
	ctx := context.Background()
	createTestUser(t, service, users, "alice", "password123", rbac.RoleUser)

	token, _, err := service.Login(ctx, "alice", "password123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if err := service.Logout(ctx, token); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if _, err := service.Resolve(ctx, token); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("Resolve() after logout = %v, want ErrInvalidSession", err)
	}

	// Logging out again, or with garbage, succeeds quietly.
	if err := service.Logout(ctx, token); err != nil {
		t.Errorf("repeat Logout() error = %v, want nil", err)
	}
	if err := service.Logout(ctx, "not-a-token"); err != nil {
		t.Errorf("Logout(malformed) error = %v, want nil", err)
	}
}

func TestService_ConcurrentSessions(t *testing.T) {
	service, users, _ := newTestService(t)
	ctx := context.Background()
	createTestUser(t, service, users, "alice", "password123", rbac.RoleUser)

	token1, _, err := service.Login(ctx, "alice", "password123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	token2, _, err := service.Login(ctx, "alice", "password123")
	if err != nil {
		t.Fatalf("second Login() error = %v", err)
	}
	if token1 == token2 {
		t.Fatal("each login must issue a distinct token")
	}

	// Revoking one session leaves the other intact.
	if err := service.Logout(ctx, token1); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if _, err := service.Resolve(ctx, token2); err != nil {
		t.Errorf("Resolve(token2) after logout of token1 = %v, want nil", err)
	}
}

func TestService_CreateUserRequiresAdmin(t *testing.T) {
	service, users, _ := newTestService(t)
	ctx := context.Background()

	admin := createTestUser(t, service, users, "root", "adminpass", rbac.RoleAdmin)
	regular := createTestUser(t, service, users, "alice", "password123", rbac.RoleUser)
	viewer := createTestUser(t, service, users, "carol", "password123", rbac.RoleViewer)

	created, err := service.CreateUser(ctx, admin.Principal(), "bob", "", rbac.RoleUser, "bobpass")
	if err != nil {
		t.Fatalf("CreateUser() by admin error = %v", err)
	}
	if created.ID == 0 || created.Role != rbac.RoleUser {
		t.Errorf("created user = %+v", created)
	}

	for _, p := range []*User{regular, viewer} {
		if _, err := service.CreateUser(ctx, p.Principal(), "eve", "", rbac.RoleUser, "evepass"); !errors.Is(err, ErrPermissionDenied) {
			t.Errorf("CreateUser() by %s error = %v, want ErrPermissionDenied", p.Role, err)
		}
	}

	if _, err := service.CreateUser(ctx, admin.Principal(), "bob", "", rbac.RoleUser, "again"); !errors.Is(err, ErrDuplicateUsername) {
		t.Errorf("duplicate CreateUser() error = %v, want ErrDuplicateUsername", err)
	}

	if _, err := service.CreateUser(ctx, admin.Principal(), "dave", "", rbac.Role("owner"), "davepass"); err == nil {
		t.Error("CreateUser() with invalid role should fail")
	}
}

func TestService_DeactivateUser(t *testing.T) {
	service, users, _ := newTestService(t)
	ctx := context.Background()

	admin := createTestUser(t, service, users, "root", "adminpass", rbac.RoleAdmin)
	alice := createTestUser(t, service, users, "alice", "password123", rbac.RoleUser)

	if err := service.DeactivateUser(ctx, alice.Principal(), admin.ID); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("DeactivateUser() by non-admin = %v, want ErrPermissionDenied", err)
	}
	if err := service.DeactivateUser(ctx, admin.Principal(), admin.ID); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("self-deactivation = %v, want ErrPermissionDenied", err)
	}

	if err := service.DeactivateUser(ctx, admin.Principal(), alice.ID); err != nil {
		t.Fatalf("DeactivateUser() error = %v", err)
	}

	// Deactivation is reversible soft state, never row deletion.
	found, err := users.FindByID(ctx, alice.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if found == nil || found.IsActive {
		t.Errorf("deactivated user = %+v, want existing inactive row", found)
	}

	if _, _, err := service.Login(ctx, "alice", "password123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login() for deactivated account = %v, want ErrInvalidCredentials", err)
	}
}

func TestService_ChangePassword(t *testing.T) {
	service, users, _ := newTestService(t)
	ctx := context.Background()

	admin := createTestUser(t, service, users, "root", "adminpass", rbac.RoleAdmin)
	alice := createTestUser(t, service, users, "alice", "oldpass", rbac.RoleUser)
	bob := createTestUser(t, service, users, "bob", "bobpass", rbac.RoleUser)

	// Self-service change.
	if err := service.ChangePassword(ctx, alice.Principal(), alice.ID, "newpass"); err != nil {
		t.Fatalf("ChangePassword() self error = %v", err)
	}
	if _, _, err := service.Login(ctx, "alice", "oldpass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Error("old password should no longer log in")
	}
	if _, _, err := service.Login(ctx, "alice", "newpass"); err != nil {
		t.Errorf("new password should log in, got %v", err)
	}

	// Admins may reset anyone; peers may not.
	if err := service.ChangePassword(ctx, admin.Principal(), alice.ID, "reset-by-admin"); err != nil {
		t.Errorf("ChangePassword() by admin error = %v", err)
	}
	if err := service.ChangePassword(ctx, bob.Principal(), alice.ID, "hijack"); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("ChangePassword() by peer = %v, want ErrPermissionDenied", err)
	}
}

func TestService_ChangePasswordKeepsSessions(t *testing.T) {
	service, users, _ := newTestService(t)
	ctx := context.Background()
	alice := createTestUser(t, service, users, "alice", "oldpass", rbac.RoleUser)

	token, _, err := service.Login(ctx, "alice", "oldpass")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if err := service.ChangePassword(ctx, alice.Principal(), alice.ID, "newpass"); err != nil {
		t.Fatalf("ChangePassword() error = %v", err)
	}

	// Existing sessions survive a password change.
	if _, err := service.Resolve(ctx, token); err != nil {
		t.Errorf("Resolve() after password change = %v, want nil", err)
	}
}

func TestService_ListUsersRequiresAdmin(t *testing.T) {
	service, users, _ := newTestService(t)
	ctx := context.Background()

	admin := createTestUser(t, service, users, "root", "adminpass", rbac.RoleAdmin)
	alice := createTestUser(t, service, users, "alice", "password123", rbac.RoleUser)

	list, err := service.ListUsers(ctx, admin.Principal())
	if err != nil {
		t.Fatalf("ListUsers() error = %v", err)
	}
	if len(list) != 2 {
		t.Errorf("ListUsers() returned %d users, want 2", len(list))
	}

	if _, err := service.ListUsers(ctx, alice.Principal()); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("ListUsers() by non-admin = %v, want ErrPermissionDenied", err)
	}
}

func TestService_CacheInvalidation(t *testing.T) {
	cache := NewLRUCache(16, time.Minute)
	service, users, _ := newTestService(t, WithCache(cache))
	ctx := context.Background()

	admin := createTestUser(t, service, users, "root", "adminpass", rbac.RoleAdmin)
	alice := createTestUser(t, service, users, "alice", "password123", rbac.RoleUser)

	token, _, err := service.Login(ctx, "alice", "password123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	// Prime the cache.
	if _, err := service.Resolve(ctx, token); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if _, ok := cache.Get(ctx, HashToken(token)); !ok {
		t.Fatal("principal should be cached after Resolve()")
	}

	// Deactivation must take effect immediately despite the cache.
	if err := service.DeactivateUser(ctx, admin.Principal(), alice.ID); err != nil {
		t.Fatalf("DeactivateUser() error = %v", err)
	}
	if _, err := service.Resolve(ctx, token); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("Resolve() after deactivation = %v, want ErrInvalidSession", err)
	}

	// And logout drops the entry too.
	if err := service.Logout(ctx, token); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if _, ok := cache.Get(ctx, HashToken(token)); ok {
		t.Error("cache entry should be gone after logout")
	}
}

func TestService_CachedResolveHonorsSessionExpiry(t *testing.T) {
	cache := NewLRUCache(16, time.Minute)
	service, users, sessions := newTestService(t, WithCache(cache), WithSessionTTL(300*time.Millisecond))
	ctx := context.Background()
	createTestUser(t, service, users, "alice", "password123", rbac.RoleUser)

	token, _, err := service.Login(ctx, "alice", "password123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if _, err := service.Resolve(ctx, token); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	// Drop the row behind the cache's back so a success below can only
	// come from the cached entry.
	if err := sessions.Revoke(ctx, HashToken(token)); err != nil {
		t.Fatalf("Revoke() error = %v", err)
	}
	if _, err := service.Resolve(ctx, token); err != nil {
		t.Fatalf("Resolve() within the session lifetime should serve the cached entry: %v", err)
	}

	// The cache entry outlives the session. Resolve must still fail once
	// the session's own expiry passes.
	time.Sleep(400 * time.Millisecond)
	if _, err := service.Resolve(ctx, token); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("Resolve() after session expiry = %v, want ErrInvalidSession", err)
	}
	if _, ok := cache.Get(ctx, HashToken(token)); ok {
		t.Error("expired cache entry should be dropped on the failed Resolve()")
	}
}

func TestService_SweepExpired(t *testing.T) {
	service, users, sessions := newTestService(t)
	ctx := context.Background()
	user := createTestUser(t, service, users, "alice", "password123", rbac.RoleUser)

	for i := 0; i < 3; i++ {
		if _, _, err := sessions.Create(ctx, user.ID, -time.Hour); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}
	if _, _, err := sessions.Create(ctx, user.ID, time.Hour); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	n, err := service.SweepExpired(ctx)
	if err != nil {
		t.Fatalf("SweepExpired() error = %v", err)
	}
	if n != 3 {
		t.Errorf("SweepExpired() = %d, want 3", n)
	}
}
