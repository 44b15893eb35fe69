package content

import (
	"context"
	"errors"
	"testing"

	"github.com/curatorhq/curator/pkg/rbac"
)

func TestStore_CreateAndGet(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()

	article := &Article{OwnerUserID: 2, Title: "hello", URL: "https://example.com", Body: "world"}
	if err := store.Create(ctx, article); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if article.ID == 0 {
		t.Fatal("Create() should populate the ID")
	}
	if article.CreatedAt.IsZero() || article.UpdatedAt.IsZero() {
		t.Error("Create() should populate timestamps")
	}

	got, err := store.Get(ctx, article.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Title != "hello" || got.OwnerUserID != 2 {
		t.Errorf("Get() = %+v", got)
	}
}

func TestStore_GetMissing(t *testing.T) {
	store := NewStore(setupTestDB(t))

	_, err := store.Get(context.Background(), 42)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(42) error = %v, want ErrNotFound", err)
	}
}

func TestStore_ListAppliesFilter(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()

	rows := []*Article{
		{OwnerUserID: 2, Title: "alice private"},
		{OwnerUserID: 3, Title: "bob private"},
		{OwnerUserID: 3, Title: "bob shared", IsShared: true},
	}
	for _, a := range rows {
		if err := store.Create(ctx, a); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	listed, err := store.List(ctx, rbac.OwnershipFilter(rbac.Principal{UserID: 2, Role: rbac.RoleUser}, 1))
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("List() returned %d rows, want 2", len(listed))
	}
	for _, a := range listed {
		if a.Title == "bob private" {
			t.Error("filter failed: private row of another user returned")
		}
	}

	listed, err = store.List(ctx, rbac.OwnershipFilter(rbac.Principal{UserID: 1, Role: rbac.RoleAdmin}, 1))
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(listed) != 3 {
		t.Errorf("admin filter returned %d rows, want 3", len(listed))
	}
}

func TestStore_MutationsOnMissingRows(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()

	if err := store.Update(ctx, &Article{ID: 42, Title: "x"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update(missing) = %v, want ErrNotFound", err)
	}
	if err := store.SetShared(ctx, 42, true); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetShared(missing) = %v, want ErrNotFound", err)
	}
	if err := store.Delete(ctx, 42); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete(missing) = %v, want ErrNotFound", err)
	}
}
