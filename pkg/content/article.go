package content

import (
	"fmt"
	"time"

	"github.com/curatorhq/curator/pkg/rbac"
	"github.com/curatorhq/curator/pkg/storage"
)

// Article is a captured piece of content. It is the canonical owned
// resource: visibility is owner-or-shared, mutation is owner-or-admin.
type Article struct {
	ID          int64     `json:"id"`
	OwnerUserID int64     `json:"owner_user_id"`
	Title       string    `json:"title"`
	URL         string    `json:"url,omitempty"`
	Body        string    `json:"body,omitempty"`
	IsShared    bool      `json:"is_shared"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Resource returns the ownership view used by permission checks.
func (a *Article) Resource() *rbac.Resource {
	return &rbac.Resource{OwnerUserID: a.OwnerUserID, IsShared: a.IsShared}
}

// Migrations returns the schema migrations for the content tables,
// rendered for the given driver.
func Migrations(driver string) []storage.Migration {
	serialPK := "BIGSERIAL PRIMARY KEY"
	if driver == storage.DriverSQLite {
		serialPK = "INTEGER PRIMARY KEY AUTOINCREMENT"
	}

	return []storage.Migration{
		{
			Version:     100,
			Description: "Create articles table",
			SQL: fmt.Sprintf(`
				CREATE TABLE IF NOT EXISTS articles (
					id %s,
					owner_user_id BIGINT NOT NULL REFERENCES users(id),
					title TEXT NOT NULL,
					url TEXT NOT NULL DEFAULT '',
					body TEXT NOT NULL DEFAULT '',
					is_shared BOOLEAN NOT NULL DEFAULT FALSE,
					created_at TIMESTAMP NOT NULL,
					updated_at TIMESTAMP NOT NULL
				);

				CREATE INDEX IF NOT EXISTS idx_articles_owner ON articles(owner_user_id);
				CREATE INDEX IF NOT EXISTS idx_articles_shared ON articles(is_shared);
			`, serialPK),
		},
	}
}
