package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AdamBeresnev/tourney/internal/bracket"
	"github.com/AdamBeresnev/tourney/internal/store"
	users "github.com/AdamBeresnev/tourney/internal/user"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type UserService struct {
	db    *sqlx.DB
	store *store.UserStore
}

func NewUserService(db *sqlx.DB, store *store.UserStore) *UserService {
	return &UserService{db: db, store: store}
}

// EnsureUser returns the organizer with the given id, creating a guest
// organizer with a generated name when the id is nil or unknown.
func (s *UserService) EnsureUser(ctx context.Context, id uuid.UUID) (*users.User, error) {
	if id != uuid.Nil {
		user, err := s.store.GetUser(ctx, id)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, store.ErrUserNotFound) {
			return nil, storeError("get user", err)
		}
	}

	guest := &users.User{
		ID:        uuid.New(),
		Username:  gofakeit.Username(),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateUser(ctx, guest); err != nil {
		return nil, storeError("create user", err)
	}
	return guest, nil
}

// FindUser returns the organizer with the given id without creating one.
func (s *UserService) FindUser(ctx context.Context, id uuid.UUID) (*users.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if errors.Is(err, store.ErrUserNotFound) {
		return nil, fmt.Errorf("user %s: %w", id, bracket.ErrNotFound)
	}
	if err != nil {
		return nil, storeError("get user", err)
	}
	return user, nil
}

func (s *UserService) Rename(ctx context.Context, id uuid.UUID, username string) (*users.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, bracket.Validationf("username is required")
	}

	user, err := s.FindUser(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Username = username
	if err := s.store.UpdateUsername(ctx, user); err != nil {
		return nil, storeError("update username", err)
	}
	return user, nil
}
