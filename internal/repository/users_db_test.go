package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anime-dimension/api/internal/model"
)

func openUsersDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	// An in-memory database vanishes when its sole connection closes.
	db.SetMaxOpenConns(1)

	for _, ddl := range []string{
		`CREATE TABLE "Users" (
			"Id" INTEGER PRIMARY KEY AUTOINCREMENT,
			"UserId" TEXT NOT NULL UNIQUE,
			"Username" TEXT NOT NULL UNIQUE,
			"Email" TEXT NOT NULL UNIQUE,
			"PasswordHash" TEXT NOT NULL
		)`,
		`CREATE TABLE "UserSessions" (
			"Id" INTEGER PRIMARY KEY AUTOINCREMENT,
			"UserId" TEXT NOT NULL,
			"SessionToken" TEXT NOT NULL UNIQUE,
			"CreatedAt" TEXT NOT NULL,
			"ExpiresAt" TEXT NOT NULL
		)`,
	} {
		_, err := db.Exec(ddl)
		require.NoError(t, err)
	}
	return db
}

func TestUserRepoCreateAndGet(t *testing.T) {
	t.Parallel()
	repo := NewUserRepo(openUsersDB(t))
	ctx := context.Background()

	u := model.User{UserID: "123456", Username: "alice", Email: "a@example.com", PasswordHash: "salt.key"}
	require.NoError(t, repo.Create(ctx, u))

	got, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.NotZero(t, got.ID)
	assert.Equal(t, "123456", got.UserID)
	assert.Equal(t, "a@example.com", got.Email)

	got, err = repo.GetByUserID(ctx, "123456")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	_, err = repo.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.GetByUserID(ctx, "000000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepoExistenceChecks(t *testing.T) {
	t.Parallel()
	repo := NewUserRepo(openUsersDB(t))
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, model.User{
		UserID: "123456", Username: "alice", Email: "a@example.com", PasswordHash: "x",
	}))

	for _, tc := range []struct {
		name string
		got  func() (bool, error)
		want bool
	}{
		{"username taken", func() (bool, error) { return repo.UsernameExists(ctx, "alice") }, true},
		{"username free", func() (bool, error) { return repo.UsernameExists(ctx, "bob") }, false},
		{"email taken", func() (bool, error) { return repo.UsernameOrEmailExists(ctx, "bob", "a@example.com") }, true},
		{"both free", func() (bool, error) { return repo.UsernameOrEmailExists(ctx, "bob", "b@example.com") }, false},
		{"user id taken", func() (bool, error) { return repo.UserIDExists(ctx, "123456") }, true},
		{"user id free", func() (bool, error) { return repo.UserIDExists(ctx, "654321") }, false},
	} {
		got, err := tc.got()
		require.NoError(t, err, tc.name)
		assert.Equal(t, tc.want, got, tc.name)
	}
}

func TestSessionRepoRoundTrip(t *testing.T) {
	t.Parallel()
	repo := NewSessionRepo(openUsersDB(t))
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Millisecond)
	s := model.UserSession{UserID: "123456", SessionToken: "tok-1", CreatedAt: now, ExpiresAt: now.Add(24 * time.Hour)}
	require.NoError(t, repo.Create(ctx, s))

	got, err := repo.GetByToken(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "123456", got.UserID)
	assert.True(t, got.CreatedAt.Equal(now))
	assert.True(t, got.ExpiresAt.Equal(now.Add(24*time.Hour)))

	_, err = repo.GetByToken(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionRepoListByUserOldestFirst(t *testing.T) {
	t.Parallel()
	repo := NewSessionRepo(openUsersDB(t))
	ctx := context.Background()

	now := time.Now().UTC()
	// Inserted newest first; listing must come back oldest first.
	for i, tok := range []string{"newest", "middle", "oldest"} {
		require.NoError(t, repo.Create(ctx, model.UserSession{
			UserID:       "123456",
			SessionToken: tok,
			CreatedAt:    now.Add(time.Duration(-i) * time.Hour),
			ExpiresAt:    now.Add(24 * time.Hour),
		}))
	}
	require.NoError(t, repo.Create(ctx, model.UserSession{
		UserID: "other", SessionToken: "foreign", CreatedAt: now, ExpiresAt: now.Add(24 * time.Hour),
	}))

	list, err := repo.ListByUser(ctx, "123456")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "oldest", list[0].SessionToken)
	assert.Equal(t, "middle", list[1].SessionToken)
	assert.Equal(t, "newest", list[2].SessionToken)
}

func TestSessionRepoDelete(t *testing.T) {
	t.Parallel()
	repo := NewSessionRepo(openUsersDB(t))
	ctx := context.Background()

	now := time.Now().UTC()
	require.NoError(t, repo.Create(ctx, model.UserSession{
		UserID: "123456", SessionToken: "tok-1", CreatedAt: now, ExpiresAt: now.Add(time.Hour),
	}))
	require.NoError(t, repo.Create(ctx, model.UserSession{
		UserID: "123456", SessionToken: "tok-2", CreatedAt: now, ExpiresAt: now.Add(time.Hour),
	}))

	first, err := repo.GetByToken(ctx, "tok-1")
	require.NoError(t, err)
	require.NoError(t, repo.DeleteByID(ctx, first.ID))
	_, err = repo.GetByToken(ctx, "tok-1")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.DeleteByToken(ctx, "tok-2"))
	_, err = repo.GetByToken(ctx, "tok-2")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting a missing token is not an error.
	assert.NoError(t, repo.DeleteByToken(ctx, "gone"))
}

func TestParseDBTimeLayouts(t *testing.T) {
	t.Parallel()
	want := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	cases := []string{
		"2024-03-15T10:30:00Z",
		"2024-03-15T10:30:00.000000Z",
		"2024-03-15 10:30:00",
		"2024-03-15 10:30:00.0000000",
		"2024-03-15T10:30:00.0000000",
	}
	for _, raw := range cases {
		assert.True(t, parseDBTime(raw).Equal(want), "raw=%q", raw)
	}

	assert.True(t, parseDBTime("not a time").IsZero())
	assert.True(t, parseDBTime("").IsZero())
}

func TestFormatDBTimeRoundTrip(t *testing.T) {
	t.Parallel()
	now := time.Now().Truncate(time.Microsecond)
	assert.True(t, parseDBTime(formatDBTime(now)).Equal(now))
}

func TestProfileRepoEnsureAndLoad(t *testing.T) {
	t.Parallel()
	db := openUsersDB(t)
	repo := NewProfileRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Ensure(ctx, "123456"))
	// Idempotent: a second call must not duplicate rows.
	require.NoError(t, repo.Ensure(ctx, "123456"))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM UserProfiles WHERE UserId = ?`, "123456").Scan(&n))
	assert.Equal(t, 1, n)

	p, err := repo.Load(ctx, "123456")
	require.NoError(t, err)
	assert.NotEmpty(t, p.JoinedAt)
	assert.Zero(t, p.MinutesWatched)
	require.Len(t, p.Ratings, len(model.RatingBuckets))
	for _, bucket := range model.RatingBuckets {
		assert.Zero(t, p.Ratings[bucket])
	}
}

func TestProfileRepoLoadPopulated(t *testing.T) {
	t.Parallel()
	db := openUsersDB(t)
	repo := NewProfileRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Ensure(ctx, "123456"))
	_, err := db.Exec(`UPDATE UserWatchStats SET MinutesWatched = 4200, Watched = 10, Watching = 2 WHERE UserId = ?`, "123456")
	require.NoError(t, err)
	_, err = db.Exec(`UPDATE UserRatings SET R50 = 3, R05 = 1 WHERE UserId = ?`, "123456")
	require.NoError(t, err)

	p, err := repo.Load(ctx, "123456")
	require.NoError(t, err)
	assert.Equal(t, int64(4200), p.MinutesWatched)
	assert.Equal(t, int64(10), p.Stats.Watched)
	assert.Equal(t, int64(2), p.Stats.Watching)
	assert.Equal(t, int64(3), p.Ratings["5.0"])
	assert.Equal(t, int64(1), p.Ratings["0.5"])
	assert.Zero(t, p.Ratings["4.0"])
}

func TestProfileRepoLoadWithoutEnsure(t *testing.T) {
	t.Parallel()
	db := openUsersDB(t)
	repo := NewProfileRepo(db)
	ctx := context.Background()

	// Tables exist but hold no row for the user.
	require.NoError(t, repo.Ensure(ctx, "other"))
	p, err := repo.Load(ctx, "123456")
	require.NoError(t, err)
	assert.Zero(t, p.MinutesWatched)
	assert.Equal(t, int64(0), p.Ratings["5.0"])
}
