package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/AdamBeresnev/tourney/internal/bracket"
	users "github.com/AdamBeresnev/tourney/internal/user"
	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"
)

type ContextKey string

const UserIDKey ContextKey = "userID"

const sessionUserKey = "userID"

// UserResolver loads organizers. EnsureUser creates a fresh one when id is
// nil or unknown; FindUser never creates.
type UserResolver interface {
	FindUser(ctx context.Context, id uuid.UUID) (*users.User, error)
	EnsureUser(ctx context.Context, id uuid.UUID) (*users.User, error)
}

func isSafeMethod(method string) bool {
	return method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions
}

// Organizer attaches the session's organizer to the request context. Reads
// only look the organizer up; the first write from a visitor without one
// creates a guest organizer bound to their session.
func Organizer(sessionManager *scs.SessionManager, resolver UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := uuid.Nil
			if s := sessionManager.GetString(r.Context(), sessionUserKey); s != "" {
				id, err := uuid.Parse(s)
				if err != nil {
					sessionManager.Remove(r.Context(), sessionUserKey)
				} else {
					userID = id
				}
			}

			var (
				user *users.User
				err  error
			)
			switch {
			case !isSafeMethod(r.Method):
				user, err = resolver.EnsureUser(r.Context(), userID)
			case userID != uuid.Nil:
				user, err = resolver.FindUser(r.Context(), userID)
				if errors.Is(err, bracket.ErrNotFound) {
					user, err = nil, nil
				}
			}
			if err != nil {
				slog.Error("failed to resolve organizer", "error", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			if user == nil {
				next.ServeHTTP(w, r)
				return
			}

			if user.ID != userID {
				if err := sessionManager.RenewToken(r.Context()); err != nil {
					slog.Error("failed to renew session token", "error", err)
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
					return
				}
				sessionManager.Put(r.Context(), sessionUserKey, user.ID.String())
			}

			ctx := context.WithValue(r.Context(), UserIDKey, user.ID)
			ctx = context.WithValue(ctx, users.UserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	val := ctx.Value(UserIDKey)
	if val == nil {
		return uuid.Nil, false
	}

	id, ok := val.(uuid.UUID)
	return id, ok
}

func GetAuthenticatedUser(ctx context.Context) *users.User {
	val := ctx.Value(users.UserKey)
	if val == nil {
		return nil
	}
	user, ok := val.(*users.User)
	if !ok {
		return nil
	}
	return user
}
