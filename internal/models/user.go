package models

import "time"

// User is a registered account. Graph and like associations are derived from
// the follows and likes tables and are only populated when preloaded.
type User struct {
	ID         string `gorm:"primaryKey;type:varchar(36)"`
	Username   string `gorm:"uniqueIndex;type:varchar(100);not null"`
	Email      string `gorm:"uniqueIndex;type:varchar(255);not null"`
	FullName   string `gorm:"type:varchar(255);not null"`
	Password   string `gorm:"type:varchar(255);not null"`
	Bio        string `gorm:"type:text"`
	Link       string `gorm:"type:varchar(255)"`
	ProfileImg string `gorm:"type:varchar(512)"`
	CoverImg   string `gorm:"type:varchar(512)"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Followers  []Follow `gorm:"foreignKey:FollowingID"`
	Following  []Follow `gorm:"foreignKey:FollowerID"`
	LikedPosts []Like   `gorm:"foreignKey:UserID"`
}

// PublicUser is the only user shape that leaves the server. It has no
// password field.
type PublicUser struct {
	ID         string    `json:"_id"`
	FullName   string    `json:"fullName"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Bio        string    `json:"bio"`
	Link       string    `json:"link"`
	ProfileImg string    `json:"profileImg"`
	CoverImg   string    `json:"coverImg"`
	Followers  []string  `json:"followers"`
	Following  []string  `json:"following"`
	LikedPosts []string  `json:"likedPosts"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Public projects u into its client-facing view.
func (u *User) Public() PublicUser {
	followers := make([]string, 0, len(u.Followers))
	for _, f := range u.Followers {
		followers = append(followers, f.FollowerID)
	}
	following := make([]string, 0, len(u.Following))
	for _, f := range u.Following {
		following = append(following, f.FollowingID)
	}
	liked := make([]string, 0, len(u.LikedPosts))
	for _, l := range u.LikedPosts {
		liked = append(liked, l.PostID)
	}
	return PublicUser{
		ID:         u.ID,
		FullName:   u.FullName,
		Username:   u.Username,
		Email:      u.Email,
		Bio:        u.Bio,
		Link:       u.Link,
		ProfileImg: u.ProfileImg,
		CoverImg:   u.CoverImg,
		Followers:  followers,
		Following:  following,
		LikedPosts: liked,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

// IsFollowing reports whether targetID is in u's preloaded following set.
func (u *User) IsFollowing(targetID string) bool {
	for _, f := range u.Following {
		if f.FollowingID == targetID {
			return true
		}
	}
	return false
}

// PublicUsers projects a slice of users.
func PublicUsers(users []User) []PublicUser {
	out := make([]PublicUser, 0, len(users))
	for i := range users {
		out = append(out, users[i].Public())
	}
	return out
}
