package repository

import (
	"context"
	"database/sql"

	"github.com/anime-dimension/api/internal/model"
)

// NotificationRepo lists the read-only `Notifications` table of the
// catalog database. There is no write path; announcements are inserted
// by the upstream database orchestrator.
type NotificationRepo struct{ DB *sql.DB }

func NewNotificationRepo(db *sql.DB) *NotificationRepo { return &NotificationRepo{DB: db} }

// ListNewestFirst returns every notification ordered by creation time
// descending.
func (r *NotificationRepo) ListNewestFirst(ctx context.Context) ([]model.Notification, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT "Id", "UserAccountId", "TypeId", "CreatedAt", "DocJson", "ProfileUrl", "State"
		 FROM "Notifications" ORDER BY "CreatedAt" DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Notification
	for rows.Next() {
		var (
			n       model.Notification
			userID  sql.NullInt64
			created string
			doc     sql.NullString
			profile sql.NullString
			state   sql.NullString
		)
		if err := rows.Scan(&n.ID, &userID, &n.TypeID, &created, &doc, &profile, &state); err != nil {
			return nil, err
		}
		if userID.Valid {
			v := userID.Int64
			n.UserAccountID = &v
		}
		n.CreatedAt = parseDBTime(created)
		if doc.Valid {
			v := doc.String
			n.DocJSON = &v
		}
		if profile.Valid {
			v := profile.String
			n.ProfileURL = &v
		}
		if state.Valid {
			v := state.String
			n.State = &v
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
