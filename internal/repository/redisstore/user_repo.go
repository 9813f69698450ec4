// Package redisstore keeps users in Redis as JSON documents.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ironslayer/parkingManagementBackend-sub001/internal/domain"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/repository"
)

const (
	userSeqKey = "users:seq"
)

type UserRepository struct {
	client *redis.Client
	now    func() time.Time
}

var _ repository.UserRepository = (*UserRepository)(nil)

func NewUserRepository(client *redis.Client) *UserRepository {
	return &UserRepository{client: client, now: time.Now}
}

func idKey(id int) string {
	return fmt.Sprintf("users:id:%d", id)
}

func usernameKey(username string) string {
	return fmt.Sprintf("users:username:%s", strings.ToLower(strings.TrimSpace(username)))
}

// Create claims the username with SETNX before writing the document, so two
// registrations of the same name cannot both succeed.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	id, err := r.client.Incr(ctx, userSeqKey).Result()
	if err != nil {
		return nil, fmt.Errorf("UserRepository.Create (sequence): %w", err)
	}

	claimed, err := r.client.SetNX(ctx, usernameKey(user.Username), id, 0).Result()
	if err != nil {
		return nil, fmt.Errorf("UserRepository.Create (claim username): %w", err)
	}
	if !claimed {
		return nil, fmt.Errorf("%w: username '%s' already exists", repository.ErrDuplicateEntry, user.Username)
	}

	now := r.now().UTC()
	user.ID = int(id)
	user.CreatedAt, user.UpdatedAt = now, now
	data, err := json.Marshal(storedUser{User: *user, PasswordHash: user.Password})
	if err != nil {
		return nil, fmt.Errorf("UserRepository.Create (encode): %w", err)
	}
	if err := r.client.Set(ctx, idKey(user.ID), data, 0).Err(); err != nil {
		r.client.Del(ctx, usernameKey(user.Username))
		return nil, fmt.Errorf("UserRepository.Create: %w", err)
	}
	return user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int) (*domain.User, error) {
	data, err := r.client.Get(ctx, idKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("UserRepository.FindByID: %w", err)
	}
	var su storedUser
	if err := json.Unmarshal(data, &su); err != nil {
		return nil, fmt.Errorf("UserRepository.FindByID (decode): %w", err)
	}
	user := su.User
	user.Password = su.PasswordHash
	return &user, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	raw, err := r.client.Get(ctx, usernameKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("UserRepository.FindByUsername: %w", err)
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("UserRepository.FindByUsername (index): %w", err)
	}
	return r.FindByID(ctx, id)
}

// storedUser carries the password hash, which domain.User hides from JSON.
type storedUser struct {
	domain.User
	PasswordHash string `json:"passwordHash"`
}
