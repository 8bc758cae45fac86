package models

import "time"

// Interaction kinds recorded for a paper
const (
	InteractionView    = "view"
	InteractionLike    = "like"
	InteractionDislike = "dislike"
	InteractionSave    = "save"
)

// PaperInteraction is an append-only record of a user seeing or rating a paper
type PaperInteraction struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	UserID          uint      `json:"user_id" gorm:"not null;index"`
	ArxivID         string    `json:"arxiv_id" gorm:"size:100;not null;index"`
	InteractionType string    `json:"interaction_type" gorm:"size:20;not null"`
	CreatedAt       time.Time `json:"created_at"`
}

type CreateInteractionRequest struct {
	ArxivID         string `json:"arxiv_id" validate:"required,max=100"`
	InteractionType string `json:"interaction_type" validate:"required,oneof=view like dislike save"`
}
