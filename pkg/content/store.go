package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/curatorhq/curator/pkg/rbac"
)

// ErrNotFound is returned for articles that do not exist, and from the
// service layer for articles the caller is not allowed to see, so that
// a denied read is indistinguishable from a missing row.
var ErrNotFound = errors.New("article not found")

// Store handles article persistence. Listing requires an ownership filter
// argument: there is deliberately no unfiltered listing method, so no
// call path can forget row isolation.
type Store struct {
	db *sql.DB
}

// NewStore creates a Store over the given database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Create inserts a new article owned by ownerUserID.
func (s *Store) Create(ctx context.Context, article *Article) error {
	now := time.Now().UTC()
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO articles (owner_user_id, title, url, body, is_shared, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, article.OwnerUserID, article.Title, article.URL, article.Body, article.IsShared, now, now).Scan(&article.ID)
	if err != nil {
		return fmt.Errorf("failed to create article: %w", err)
	}
	article.CreatedAt = now
	article.UpdatedAt = now
	return nil
}

// Get retrieves an article by id regardless of ownership. Callers must
// permission-check the result before acting on or revealing it.
func (s *Store) Get(ctx context.Context, id int64) (*Article, error) {
	article := &Article{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, owner_user_id, title, url, body, is_shared, created_at, updated_at
		FROM articles
		WHERE id = $1
	`, id).Scan(
		&article.ID,
		&article.OwnerUserID,
		&article.Title,
		&article.URL,
		&article.Body,
		&article.IsShared,
		&article.CreatedAt,
		&article.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query article: %w", err)
	}
	return article, nil
}

// List returns the articles visible under the given ownership filter,
// newest first.
func (s *Store) List(ctx context.Context, filter rbac.FilterExpression) ([]Article, error) {
	query := fmt.Sprintf(`
		SELECT id, owner_user_id, title, url, body, is_shared, created_at, updated_at
		FROM articles
		WHERE %s
		ORDER BY created_at DESC, id DESC
	`, filter.Clause)

	rows, err := s.db.QueryContext(ctx, query, filter.Args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	defer rows.Close()

	var articles []Article
	for rows.Next() {
		var article Article
		if err := rows.Scan(
			&article.ID,
			&article.OwnerUserID,
			&article.Title,
			&article.URL,
			&article.Body,
			&article.IsShared,
			&article.CreatedAt,
			&article.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, article)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate articles: %w", err)
	}
	return articles, nil
}

// Update overwrites an article's mutable fields.
func (s *Store) Update(ctx context.Context, article *Article) error {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		UPDATE articles
		SET title = $1, url = $2, body = $3, updated_at = $4
		WHERE id = $5
	`, article.Title, article.URL, article.Body, now, article.ID)
	if err != nil {
		return fmt.Errorf("failed to update article: %w", err)
	}
	article.UpdatedAt = now
	return requireRowAffected(res)
}

// SetShared toggles an article's shared flag.
func (s *Store) SetShared(ctx context.Context, id int64, shared bool) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE articles SET is_shared = $1, updated_at = $2 WHERE id = $3
	`, shared, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update article sharing: %w", err)
	}
	return requireRowAffected(res)
}

// Delete removes an article.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete article: %w", err)
	}
	return requireRowAffected(res)
}

func requireRowAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
