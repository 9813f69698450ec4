package redisstore

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/ironslayer/parkingManagementBackend-sub001/internal/domain"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/repository"
)

func newRepo(t *testing.T) (*UserRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewUserRepository(client), mr
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	repo, mr := newRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.User{Username: "Alice", Password: "hash", FullName: "Alice Doe", Role: domain.RoleOperator, IsActive: true})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID != 1 {
		t.Errorf("id = %d, want 1", created.ID)
	}
	if !mr.Exists("users:username:alice") {
		t.Error("username index not written")
	}

	byName, err := repo.FindByUsername(ctx, "ALICE")
	if err != nil {
		t.Fatalf("FindByUsername: %v", err)
	}
	if byName.ID != created.ID || byName.Password != "hash" || byName.Role != domain.RoleOperator {
		t.Errorf("unexpected user: %+v", byName)
	}
}

func TestUserRepository_Duplicate(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	if _, err := repo.Create(ctx, &domain.User{Username: "bob", Password: "x"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := repo.Create(ctx, &domain.User{Username: "Bob", Password: "y"}); !errors.Is(err, repository.ErrDuplicateEntry) {
		t.Errorf("expected ErrDuplicateEntry, got %v", err)
	}
}

func TestUserRepository_NotFound(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()
	if _, err := repo.FindByID(ctx, 42); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("FindByID: expected ErrNotFound, got %v", err)
	}
	if _, err := repo.FindByUsername(ctx, "ghost"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("FindByUsername: expected ErrNotFound, got %v", err)
	}
}

func TestNewClient_Ping(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewClient(context.Background(), mr.Addr(), "")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	client.Close()

	if _, err := NewClient(context.Background(), "  ", ""); err == nil {
		t.Error("expected error for empty addr")
	}
}
