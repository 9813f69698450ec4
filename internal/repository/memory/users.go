package memory

import (
	"context"
	"fmt"

	"github.com/ironslayer/parkingManagementBackend-sub001/internal/domain"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/repository"
)

type userRepo struct{ s *Store }

func (r *userRepo) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	err := r.s.read(ctx, func(st *state) error {
		for _, u := range st.users {
			if fold(u.Username) == fold(user.Username) {
				return fmt.Errorf("%w: username '%s' already exists", repository.ErrDuplicateEntry, user.Username)
			}
		}
		st.userSeq++
		now := r.s.timestamp()
		user.ID = st.userSeq
		user.CreatedAt, user.UpdatedAt = now, now
		st.users[user.ID] = *user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepo) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var out *domain.User
	err := r.s.read(ctx, func(st *state) error {
		for _, u := range st.users {
			if fold(u.Username) == fold(username) {
				out = &u
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return out, err
}

func (r *userRepo) FindByID(ctx context.Context, id int) (*domain.User, error) {
	var out *domain.User
	err := r.s.read(ctx, func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = &u
		return nil
	})
	return out, err
}
