package models

import "time"

// Post is a piece of content owned by a user. At least one of Text and Img
// is non-empty.
type Post struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `gorm:"type:varchar(36);index;not null"`
	Text      string    `gorm:"type:text"`
	Img       string    `gorm:"type:varchar(512)"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time

	User     *User     `gorm:"foreignKey:UserID"`
	Likes    []Like    `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	Comments []Comment `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
}

// Comment is appended to a post and never edited.
type Comment struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	PostID    string `gorm:"type:varchar(36);index;not null"`
	UserID    string `gorm:"type:varchar(36);not null"`
	Text      string `gorm:"type:text;not null"`
	CreatedAt time.Time

	User *User `gorm:"foreignKey:UserID"`
}

// CommentView is a comment with its author joined.
type CommentView struct {
	ID        string      `json:"_id"`
	Text      string      `json:"text"`
	User      *PublicUser `json:"user"`
	CreatedAt time.Time   `json:"createdAt"`
}

// PostView is a post with owner, comment authors and likers resolved.
type PostView struct {
	ID        string        `json:"_id"`
	User      *PublicUser   `json:"user"`
	Text      string        `json:"text,omitempty"`
	Img       string        `json:"img,omitempty"`
	Likes     []string      `json:"likes"`
	Comments  []CommentView `json:"comments"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// View projects p, joining whatever associations were preloaded.
func (p *Post) View() PostView {
	v := PostView{
		ID:        p.ID,
		Text:      p.Text,
		Img:       p.Img,
		Likes:     make([]string, 0, len(p.Likes)),
		Comments:  make([]CommentView, 0, len(p.Comments)),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.User != nil {
		owner := p.User.Public()
		v.User = &owner
	}
	for _, l := range p.Likes {
		v.Likes = append(v.Likes, l.UserID)
	}
	for _, c := range p.Comments {
		cv := CommentView{ID: c.ID, Text: c.Text, CreatedAt: c.CreatedAt}
		if c.User != nil {
			author := c.User.Public()
			cv.User = &author
		}
		v.Comments = append(v.Comments, cv)
	}
	return v
}

// PostViews projects a slice of posts, preserving order.
func PostViews(posts []Post) []PostView {
	out := make([]PostView, 0, len(posts))
	for i := range posts {
		out = append(out, posts[i].View())
	}
	return out
}
