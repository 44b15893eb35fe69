package content

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/curatorhq/curator/pkg/auth"
	"github.com/curatorhq/curator/pkg/observability"
	"github.com/curatorhq/curator/pkg/rbac"
)

// Service applies permission and ownership rules on top of the Store.
// Every operation takes the acting Principal explicitly.
//
// Read denial is reported as ErrNotFound rather than a permission error:
// a non-owner must not be able to learn that a private article exists.
type Service struct {
	store   *Store
	log     *logrus.Logger
	metrics *observability.Metrics
}

// NewService creates the content service.
func NewService(store *Store, log *logrus.Logger, metrics *observability.Metrics) *Service {
	if log == nil {
		log = logrus.New()
	}
	return &Service{store: store, log: log, metrics: metrics}
}

func (s *Service) check(principal rbac.Principal, action rbac.Action, resource *rbac.Resource) rbac.Decision {
	decision := rbac.Check(principal, action, resource)
	s.metrics.ObservePermissionCheck(string(action), decision.Allowed)
	return decision
}

// Create stores a new article owned by the principal. Viewers cannot
// create content.
func (s *Service) Create(ctx context.Context, principal rbac.Principal, title, url, body string) (*Article, error) {
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}

	// A new article is owned by its creator, so the write check reduces
	// to "is this principal allowed to write at all".
	self := &rbac.Resource{OwnerUserID: principal.UserID}
	if decision := s.check(principal, rbac.ActionWriteResource, self); !decision.Allowed {
		return nil, fmt.Errorf("%w: %s", auth.ErrPermissionDenied, decision.Reason)
	}

	article := &Article{
		OwnerUserID: principal.UserID,
		Title:       title,
		URL:         url,
		Body:        body,
	}
	if err := s.store.Create(ctx, article); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"article_id": article.ID,
		"owner_id":   principal.UserID,
	}).Info("article created")
	return article, nil
}

// Get returns an article the principal may read, or ErrNotFound, both
// for missing articles and for private articles of other users.
func (s *Service) Get(ctx context.Context, principal rbac.Principal, id int64) (*Article, error) {
	article, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if decision := s.check(principal, rbac.ActionReadResource, article.Resource()); !decision.Allowed {
		return nil, ErrNotFound
	}
	return article, nil
}

// List returns every article visible to the principal: all of them for
// admins, own plus shared for everyone else.
func (s *Service) List(ctx context.Context, principal rbac.Principal) ([]Article, error) {
	return s.store.List(ctx, rbac.OwnershipFilter(principal, 1))
}

// Update replaces an article's title, url, and body. All three fields are
// overwritten; title is required, same as on Create.
func (s *Service) Update(ctx context.Context, principal rbac.Principal, id int64, title, url, body string) (*Article, error) {
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}

	article, err := s.authorizeMutation(ctx, principal, id, rbac.ActionWriteResource)
	if err != nil {
		return nil, err
	}

	article.Title = title
	article.URL = url
	article.Body = body
	if err := s.store.Update(ctx, article); err != nil {
		return nil, err
	}
	return article, nil
}

// SetShared toggles an article's shared flag, which grants read access to
// all authenticated users.
func (s *Service) SetShared(ctx context.Context, principal rbac.Principal, id int64, shared bool) (*Article, error) {
	article, err := s.authorizeMutation(ctx, principal, id, rbac.ActionShareResource)
	if err != nil {
		return nil, err
	}

	if err := s.store.SetShared(ctx, id, shared); err != nil {
		return nil, err
	}
	article.IsShared = shared

	s.log.WithFields(logrus.Fields{
		"article_id": id,
		"shared":     shared,
		"by":         principal.UserID,
	}).Info("article sharing changed")
	return article, nil
}

// Delete removes an article.
func (s *Service) Delete(ctx context.Context, principal rbac.Principal, id int64) error {
	if _, err := s.authorizeMutation(ctx, principal, id, rbac.ActionDeleteResource); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

// authorizeMutation loads the article and runs the read check before the
// mutation check, so callers who may not even see the article get
// ErrNotFound while visible-but-forbidden mutations get a permission
// error.
func (s *Service) authorizeMutation(ctx context.Context, principal rbac.Principal, id int64, action rbac.Action) (*Article, error) {
	article, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	resource := article.Resource()
	if decision := s.check(principal, rbac.ActionReadResource, resource); !decision.Allowed {
		return nil, ErrNotFound
	}
	if decision := s.check(principal, action, resource); !decision.Allowed {
		return nil, fmt.Errorf("%w: %s", auth.ErrPermissionDenied, decision.Reason)
	}
	return article, nil
}
