package models

import "time"

// PostPreviewLength is how many characters of the text String() shows.
const PostPreviewLength = 15

// Post is a text entry written by an author, optionally filed under a group.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	AuthorID  uint      `gorm:"not null;index" json:"author_id"`
	Author    User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	GroupID   *uint     `gorm:"index" json:"group_id,omitempty"`
	Group     *Group    `gorm:"foreignKey:GroupID;constraint:OnDelete:SET NULL" json:"group,omitempty"`
	Image     string    `gorm:"size:512" json:"image,omitempty"`
	Comments  []Comment `gorm:"foreignKey:PostID" json:"-"`
}

// String returns the first characters of the post text.
func (p *Post) String() string {
	r := []rune(p.Text)
	if len(r) <= PostPreviewLength {
		return p.Text
	}
	return string(r[:PostPreviewLength])
}
