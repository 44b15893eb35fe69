package auth

import (
	"fmt"

	"github.com/curatorhq/curator/pkg/storage"
)

// Migrations returns the schema migrations for the auth tables, rendered
// for the given driver. PostgreSQL and SQLite disagree only on the
// auto-increment primary key syntax.
func Migrations(driver string) []storage.Migration {
	serialPK := "BIGSERIAL PRIMARY KEY"
	if driver == storage.DriverSQLite {
		serialPK = "INTEGER PRIMARY KEY AUTOINCREMENT"
	}

	return []storage.Migration{
		{
			Version:     1,
			Description: "Create users table",
			SQL: fmt.Sprintf(`
				CREATE TABLE IF NOT EXISTS users (
					id %s,
					username TEXT NOT NULL UNIQUE,
					email TEXT NOT NULL DEFAULT '',
					role TEXT NOT NULL,
					credential_hash TEXT NOT NULL,
					is_active BOOLEAN NOT NULL DEFAULT TRUE,
					created_at TIMESTAMP NOT NULL,
					last_login_at TIMESTAMP
				);

				CREATE INDEX IF NOT EXISTS idx_users_username ON users(username);
			`, serialPK),
		},
		{
			Version:     2,
			Description: "Create sessions table",
			SQL: `
				CREATE TABLE IF NOT EXISTS sessions (
					token_hash TEXT PRIMARY KEY,
					token_prefix TEXT NOT NULL,
					user_id BIGINT NOT NULL REFERENCES users(id),
					created_at TIMESTAMP NOT NULL,
					expires_at TIMESTAMP NOT NULL,
					last_seen_at TIMESTAMP
				);

				CREATE INDEX IF NOT EXISTS idx_sessions_user_id ON sessions(user_id);
				CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at);
			`,
		},
	}
}
