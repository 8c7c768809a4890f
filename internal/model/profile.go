package model

// WatchStats holds the per-status counters of a user's watch list.
// The JSON names are returned verbatim inside the profile payload.
type WatchStats struct {
	Watched  int64 `json:"watched"`
	Watching int64 `json:"watching"`
	Want     int64 `json:"want"`
	Stalled  int64 `json:"stalled"`
	Dropped  int64 `json:"dropped"`
	Wont     int64 `json:"wont"`
}

// RatingBuckets enumerates the fixed histogram keys from highest to
// lowest, matching the UserRatings columns R50 down to R05.
var RatingBuckets = []string{"5.0", "4.5", "4.0", "3.5", "3.0", "2.5", "2.0", "1.5", "1.0", "0.5"}

// UserProfile aggregates the lazily-created per-user rows
// (UserProfiles, UserWatchStats, UserRatings) for the profile endpoint.
// Ratings always contains every bucket of RatingBuckets, zero-filled.
type UserProfile struct {
	JoinedAt       string
	MinutesWatched int64
	Stats          WatchStats
	Ratings        map[string]int64
}
