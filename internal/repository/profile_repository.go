package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/anime-dimension/api/internal/model"
)

// ProfileRepo manages the lazily-created per-user aggregate tables
// (UserProfiles, UserWatchStats, UserRatings) in the users database.
// The users database ships without them, so Ensure creates tables and
// zero rows on first profile read; both steps are idempotent.
type ProfileRepo struct{ DB *sql.DB }

func NewProfileRepo(db *sql.DB) *ProfileRepo { return &ProfileRepo{DB: db} }

var profileTableDDL = []string{
	`CREATE TABLE IF NOT EXISTS UserProfiles (
		UserId TEXT PRIMARY KEY,
		JoinedAt TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS UserWatchStats (
		UserId TEXT PRIMARY KEY,
		MinutesWatched INTEGER NOT NULL DEFAULT 0,
		Watched INTEGER NOT NULL DEFAULT 0,
		Watching INTEGER NOT NULL DEFAULT 0,
		Want INTEGER NOT NULL DEFAULT 0,
		Stalled INTEGER NOT NULL DEFAULT 0,
		Dropped INTEGER NOT NULL DEFAULT 0,
		Wont INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS UserRatings (
		UserId TEXT PRIMARY KEY,
		R50 INTEGER NOT NULL DEFAULT 0,
		R45 INTEGER NOT NULL DEFAULT 0,
		R40 INTEGER NOT NULL DEFAULT 0,
		R35 INTEGER NOT NULL DEFAULT 0,
		R30 INTEGER NOT NULL DEFAULT 0,
		R25 INTEGER NOT NULL DEFAULT 0,
		R20 INTEGER NOT NULL DEFAULT 0,
		R15 INTEGER NOT NULL DEFAULT 0,
		R10 INTEGER NOT NULL DEFAULT 0,
		R05 INTEGER NOT NULL DEFAULT 0
	)`,
}

// Ensure creates the aggregate tables if missing and inserts zero rows
// for the user where absent.
func (r *ProfileRepo) Ensure(ctx context.Context, userID string) error {
	for _, ddl := range profileTableDDL {
		if _, err := r.DB.ExecContext(ctx, ddl); err != nil {
			return err
		}
	}

	joined := time.Now().UTC().Format(time.RFC3339Nano)
	inserts := []struct {
		query string
		args  []any
	}{
		{`INSERT INTO UserProfiles (UserId, JoinedAt)
			SELECT ?, ?
			WHERE NOT EXISTS (SELECT 1 FROM UserProfiles WHERE UserId = ?)`, []any{userID, joined, userID}},
		{`INSERT INTO UserWatchStats (UserId)
			SELECT ?
			WHERE NOT EXISTS (SELECT 1 FROM UserWatchStats WHERE UserId = ?)`, []any{userID, userID}},
		{`INSERT INTO UserRatings (UserId)
			SELECT ?
			WHERE NOT EXISTS (SELECT 1 FROM UserRatings WHERE UserId = ?)`, []any{userID, userID}},
	}
	for _, ins := range inserts {
		if _, err := r.DB.ExecContext(ctx, ins.query, ins.args...); err != nil {
			return err
		}
	}
	return nil
}

// Load reads the aggregate rows for a user. Missing rows (possible only
// when Ensure was skipped) degrade to zero values, not errors.
func (r *ProfileRepo) Load(ctx context.Context, userID string) (model.UserProfile, error) {
	p := model.UserProfile{
		JoinedAt: time.Now().UTC().Format(time.RFC3339Nano),
		Ratings:  make(map[string]int64, len(model.RatingBuckets)),
	}
	for _, bucket := range model.RatingBuckets {
		p.Ratings[bucket] = 0
	}

	var joined sql.NullString
	err := r.DB.QueryRowContext(ctx,
		`SELECT JoinedAt FROM UserProfiles WHERE UserId = ? LIMIT 1`, userID).Scan(&joined)
	if err != nil && err != sql.ErrNoRows {
		return p, err
	}
	if joined.Valid {
		p.JoinedAt = joined.String
	}

	err = r.DB.QueryRowContext(ctx,
		`SELECT MinutesWatched, Watched, Watching, Want, Stalled, Dropped, Wont FROM UserWatchStats WHERE UserId = ? LIMIT 1`,
		userID).Scan(&p.MinutesWatched, &p.Stats.Watched, &p.Stats.Watching, &p.Stats.Want,
		&p.Stats.Stalled, &p.Stats.Dropped, &p.Stats.Wont)
	if err != nil && err != sql.ErrNoRows {
		return p, err
	}

	var r50, r45, r40, r35, r30, r25, r20, r15, r10, r05 int64
	err = r.DB.QueryRowContext(ctx,
		`SELECT R50, R45, R40, R35, R30, R25, R20, R15, R10, R05 FROM UserRatings WHERE UserId = ? LIMIT 1`,
		userID).Scan(&r50, &r45, &r40, &r35, &r30, &r25, &r20, &r15, &r10, &r05)
	if err != nil && err != sql.ErrNoRows {
		return p, err
	}
	if err == nil {
		p.Ratings["5.0"] = r50
		p.Ratings["4.5"] = r45
		p.Ratings["4.0"] = r40
		p.Ratings["3.5"] = r35
		p.Ratings["3.0"] = r30
		p.Ratings["2.5"] = r25
		p.Ratings["2.0"] = r20
		p.Ratings["1.5"] = r15
		p.Ratings["1.0"] = r10
		p.Ratings["0.5"] = r05
	}
	return p, nil
}
