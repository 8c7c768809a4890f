package handler

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/anime-dimension/api/internal/model"
	"github.com/anime-dimension/api/internal/repository"
)

// In-memory store fakes backing the handler tests.

type fakeUserStore struct {
	mu    sync.Mutex
	users []model.User
}

func (f *fakeUserStore) GetByUsername(_ context.Context, username string) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (f *fakeUserStore) GetByUserID(_ context.Context, userID string) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.UserID == userID {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (f *fakeUserStore) UsernameExists(_ context.Context, username string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) UsernameOrEmailExists(_ context.Context, username, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) UserIDExists(_ context.Context, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) Create(_ context.Context, u model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u.ID = int64(len(f.users) + 1)
	f.users = append(f.users, u)
	return nil
}

type fakeSessionStore struct {
	mu       sync.Mutex
	nextID   int64
	sessions []model.UserSession
}

func (f *fakeSessionStore) GetByToken(_ context.Context, token string) (model.UserSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sessions {
		if s.SessionToken == token {
			return s, nil
		}
	}
	return model.UserSession{}, repository.ErrNotFound
}

func (f *fakeSessionStore) ListByUser(_ context.Context, userID string) ([]model.UserSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.UserSession
	for _, s := range f.sessions {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeSessionStore) Create(_ context.Context, s model.UserSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	s.ID = f.nextID
	f.sessions = append(f.sessions, s)
	return nil
}

func (f *fakeSessionStore) DeleteByID(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, s := range f.sessions {
		if s.ID == id {
			f.sessions = append(f.sessions[:i], f.sessions[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeSessionStore) DeleteByToken(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, s := range f.sessions {
		if s.SessionToken == token {
			f.sessions = append(f.sessions[:i], f.sessions[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeSessionStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sessions)
}

type fakeProfileStore struct {
	ensured  []string
	profiles map[string]model.UserProfile
}

func (f *fakeProfileStore) Ensure(_ context.Context, userID string) error {
	f.ensured = append(f.ensured, userID)
	return nil
}

func (f *fakeProfileStore) Load(_ context.Context, userID string) (model.UserProfile, error) {
	if p, ok := f.profiles[userID]; ok {
		return p, nil
	}
	p := model.UserProfile{Ratings: map[string]int64{}}
	for _, b := range model.RatingBuckets {
		p.Ratings[b] = 0
	}
	return p, nil
}

type fakeCatalogStore struct {
	anime       []model.Anime
	suggestions []model.Suggestion
	lastQuery   model.SuggestionQuery
}

func (f *fakeCatalogStore) AnimeBySlug(_ context.Context, slug string) (model.Anime, error) {
	for _, a := range f.anime {
		if strings.EqualFold(a.Slug, slug) {
			return a, nil
		}
	}
	return model.Anime{}, repository.ErrNotFound
}

func (f *fakeCatalogStore) AllAnime(_ context.Context) ([]model.Anime, error) {
	return f.anime, nil
}

func (f *fakeCatalogStore) Suggestions(_ context.Context, q model.SuggestionQuery) ([]model.Suggestion, error) {
	f.lastQuery = q
	if q.Limit < len(f.suggestions) {
		return f.suggestions[:q.Limit], nil
	}
	return f.suggestions, nil
}

type fakeNotificationStore struct {
	rows []model.Notification
}

func (f *fakeNotificationStore) ListNewestFirst(_ context.Context) ([]model.Notification, error) {
	return f.rows, nil
}
