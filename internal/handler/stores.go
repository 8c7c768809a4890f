package handler

import (
	"context"

	"github.com/anime-dimension/api/internal/model"
)

// Handlers depend on small store interfaces instead of the concrete
// repository types so tests can swap in in-memory fakes. The repository
// structs satisfy these directly.

// UserStore reads and creates user accounts.
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (model.User, error)
	GetByUserID(ctx context.Context, userID string) (model.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	UsernameOrEmailExists(ctx context.Context, username, email string) (bool, error)
	UserIDExists(ctx context.Context, userID string) (bool, error)
	Create(ctx context.Context, u model.User) error
}

// SessionStore manages login sessions.
type SessionStore interface {
	GetByToken(ctx context.Context, token string) (model.UserSession, error)
	ListByUser(ctx context.Context, userID string) ([]model.UserSession, error)
	Create(ctx context.Context, s model.UserSession) error
	DeleteByID(ctx context.Context, id int64) error
	DeleteByToken(ctx context.Context, token string) error
}

// ProfileStore lazily materializes and reads profile aggregates.
type ProfileStore interface {
	Ensure(ctx context.Context, userID string) error
	Load(ctx context.Context, userID string) (model.UserProfile, error)
}

// CatalogStore serves anime detail and suggestion queries.
type CatalogStore interface {
	AnimeBySlug(ctx context.Context, slug string) (model.Anime, error)
	AllAnime(ctx context.Context) ([]model.Anime, error)
	Suggestions(ctx context.Context, q model.SuggestionQuery) ([]model.Suggestion, error)
}

// NotificationStore lists site announcements.
type NotificationStore interface {
	ListNewestFirst(ctx context.Context) ([]model.Notification, error)
}
