package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post is a blog post. AuthorID is set once at creation and never changes.
type Post struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string     `gorm:"not null" json:"title"`
	Body      string     `gorm:"type:text;not null" json:"body"`
	AuthorID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"authorId"`
	IsDeleted bool       `gorm:"not null;default:false;index" json:"isDeleted"`
	DeletedAt *time.Time `json:"deletedAt"`
	DeletedBy *uuid.UUID `gorm:"type:uuid" json:"deletedBy,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`

	// Relationships
	Author *PostAuthor `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

// TableName overrides the table name
func (Post) TableName() string {
	return "posts"
}

// BeforeCreate hook to generate UUID before creating a new post
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// IsOwnedBy reports whether userID authored the post.
func (p *Post) IsOwnedBy(userID uuid.UUID) bool {
	return p.AuthorID == userID
}

// PostAuthor is the public projection of a post's author.
type PostAuthor struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

// TableName points the projection at the users table
func (PostAuthor) TableName() string {
	return "users"
}
