package model

import "time"

// Notification mirrors a row of the catalog database's `Notifications`
// table. Listing is read-only; there is no write path in this service.
//
// Fields:
//  ID            – primary key.
//  UserAccountID – owning user, nil for site-wide announcements.
//  TypeID        – notification category discriminator.
//  CreatedAt     – creation time (UTC).
//  DocJSON       – free-form JSON payload stored as text.
//  ProfileURL    – link target shown next to the notification.
//  State         – "READ" or "UNREAD".
type Notification struct {
	ID            int64
	UserAccountID *int64
	TypeID        int64
	CreatedAt     time.Time
	DocJSON       *string
	ProfileURL    *string
	State         *string
}

// NotificationDoc is the decoded shape of Notification.DocJSON.
type NotificationDoc struct {
	AnnouncementLink   *string `json:"announcement_link"`
	AnnouncementHeader *string `json:"announcement_header"`
}
