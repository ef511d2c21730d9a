package models

import (
	"time"
)

// Post is a blog entry. Slug is derived from the title and addresses the
// post publicly. Date is the author-chosen publication date as YYYY-MM-DD;
// ISO dates sort lexically, so ordering by the column is chronological.
type Post struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	Slug      string    `gorm:"uniqueIndex;not null" json:"slug"`
	Excerpt   string    `gorm:"not null" json:"excerpt"`
	Content   string    `gorm:"not null" json:"content"`
	Date      string    `gorm:"index;not null" json:"date"`
	AuthorID  int64     `gorm:"not null" json:"authorId"`
	Published bool      `gorm:"index;default:false" json:"published"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:modified_at" json:"modifiedAt"`

	Tags []Tag `gorm:"many2many:post_tags;constraint:OnDelete:CASCADE" json:"-"`
}

func (Post) TableName() string {
	return "posts"
}

// TagNames returns the post's tag set as plain names.
func (p *Post) TagNames() []string {
	names := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		names = append(names, t.Name)
	}
	return names
}

// Tag is a vocabulary entry. Tags are created lazily the first time a post
// references them and are never deleted, even when no post links to them.
type Tag struct {
	ID   int64  `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`

	Posts []Post `gorm:"many2many:post_tags" json:"-"`
}

func (Tag) TableName() string {
	return "tags"
}
