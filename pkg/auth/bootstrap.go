package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/curatorhq/curator/pkg/rbac"
)

// Bootstrap credentials for a fresh installation. Deployments MUST rotate
// this password immediately after first login; the creation is logged
// loudly so it never happens silently.
const (
	BootstrapAdminUsername = "admin"
	BootstrapAdminPassword = "curator-admin"
)

// EnsureAdmin creates the bootstrap admin account if and only if no active
// admin exists. Returns true when one was created. Safe to call on every
// startup.
func EnsureAdmin(ctx context.Context, users *UserStore, hasher *Hasher, log *logrus.Logger) (bool, error) {
	n, err := users.CountActiveAdmins(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check for existing admins: %w", err)
	}
	if n > 0 {
		return false, nil
	}

	credentialHash, err := hasher.Hash(BootstrapAdminPassword)
	if err != nil {
		return false, fmt.Errorf("failed to hash bootstrap credential: %w", err)
	}

	user := &User{
		Username:       BootstrapAdminUsername,
		Role:           rbac.RoleAdmin,
		CredentialHash: credentialHash,
		IsActive:       true,
		CreatedAt:      time.Now().UTC(),
	}
	if err := users.Create(ctx, user); err != nil {
		// A concurrent instance may have won the race; that still leaves
		// an admin in place.
		if err == ErrDuplicateUsername {
			return false, nil
		}
		return false, err
	}

	log.WithFields(logrus.Fields{
		"username": BootstrapAdminUsername,
		"user_id":  user.ID,
	}).Warn("bootstrap admin created with the default password - rotate it immediately")
	return true, nil
}
