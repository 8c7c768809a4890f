package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/anime-dimension/api/internal/model"
)

// NotificationsHandler serves the site announcement feed.
type NotificationsHandler struct {
	Notifications NotificationStore
}

func NewNotificationsHandler(n NotificationStore) *NotificationsHandler {
	return &NotificationsHandler{Notifications: n}
}

// ----- DTOs -----

type notificationBody struct {
	ID            int64                  `json:"id"`
	UserAccountID int64                  `json:"user_account_id"`
	TypeID        int64                  `json:"type_id"`
	CreatedAt     string                 `json:"created_at"`
	Doc           *model.NotificationDoc `json:"doc"`
	ProfileURL    *string                `json:"profile_url"`
	TimeAgo       string                 `json:"time_ago"`
}

type notificationItem struct {
	State        *string          `json:"state"`
	Notification notificationBody `json:"notification"`
}

type notificationsData struct {
	Notifications []notificationItem `json:"notifications"`
	NewCount      int64              `json:"new_count"`
}

// List returns every announcement, newest first. Per-user read state is
// not tracked, so new_count stays 0.
func (h *NotificationsHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rows, err := h.Notifications.ListNewestFirst(ctx)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "An error occurred while loading notifications")
	}

	now := time.Now().UTC()
	items := make([]notificationItem, 0, len(rows))
	for _, n := range rows {
		var doc model.NotificationDoc
		raw := "{}"
		if n.DocJSON != nil {
			raw = *n.DocJSON
		}
		// Malformed doc payloads degrade to an empty doc.
		_ = json.Unmarshal([]byte(raw), &doc)

		var accountID int64
		if n.UserAccountID != nil {
			accountID = *n.UserAccountID
		}

		items = append(items, notificationItem{
			State: n.State,
			Notification: notificationBody{
				ID:            n.ID,
				UserAccountID: accountID,
				TypeID:        n.TypeID,
				CreatedAt:     n.CreatedAt.UTC().Format(time.RFC3339Nano),
				Doc:           &doc,
				ProfileURL:    n.ProfileURL,
				TimeAgo:       timeAgo(n.CreatedAt, now),
			},
		})
	}

	return okJSON(c, http.StatusOK, notificationsData{Notifications: items, NewCount: 0})
}

// timeAgo renders the compact relative timestamp shown in the
// notification tray.
func timeAgo(created, now time.Time) string {
	diff := now.Sub(created)
	days := diff.Hours() / 24

	switch {
	case days >= 60:
		return fmt.Sprintf("%dmo", int(days/30))
	case days >= 30:
		return "1mo"
	case days >= 14:
		return fmt.Sprintf("%dw", int(days/7))
	case days >= 1:
		return fmt.Sprintf("%dd", int(days))
	case diff.Hours() >= 1:
		return fmt.Sprintf("%dh", int(diff.Hours()))
	case diff.Minutes() >= 1:
		return fmt.Sprintf("%dm", int(diff.Minutes()))
	default:
		return "just now"
	}
}
