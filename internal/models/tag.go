package models

import "time"

// DefaultTagColor is used when a tag is created without a color
const DefaultTagColor = "#9333EA"

// Tag is a user-scoped label attached to saved papers
type Tag struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"-" gorm:"not null;index"`
	Name      string    `json:"name" gorm:"size:100;not null;index"`
	Color     string    `json:"color" gorm:"size:7"`
	CreatedAt time.Time `json:"created_at"`

	Papers []SavedPaper `json:"-" gorm:"many2many:saved_paper_tags;constraint:OnDelete:CASCADE"`
}

type CreateTagRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Color string `json:"color" validate:"omitempty,hexcolor,max=7"`
}
