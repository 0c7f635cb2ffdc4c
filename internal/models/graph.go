package models

import "time"

// Follow is one edge of the social graph: FollowerID follows FollowingID.
// The same row is the follower's "following" entry and the target's
// "followers" entry.
type Follow struct {
	FollowerID  string `gorm:"primaryKey;type:varchar(36)"`
	FollowingID string `gorm:"primaryKey;type:varchar(36);index"`
	CreatedAt   time.Time
}

// Like records that UserID liked PostID.
type Like struct {
	PostID    string `gorm:"primaryKey;type:varchar(36)"`
	UserID    string `gorm:"primaryKey;type:varchar(36);index"`
	CreatedAt time.Time
}
