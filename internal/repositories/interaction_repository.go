package repositories

import (
	"github.com/paperswipe/backend/internal/models"
	"gorm.io/gorm"
)

// InteractionRepository records how users reacted to papers
type InteractionRepository interface {
	CreateInteraction(interaction *models.PaperInteraction) error
	GetInteractedArxivIDs(userID uint) (map[string]bool, error)
}

// GormInteractionRepository implements InteractionRepository
type GormInteractionRepository struct {
	db *gorm.DB
}

func NewGormInteractionRepository(db *gorm.DB) *GormInteractionRepository {
	return &GormInteractionRepository{db: db}
}

func (r *GormInteractionRepository) CreateInteraction(interaction *models.PaperInteraction) error {
	return r.db.Create(interaction).Error
}

// GetInteractedArxivIDs returns the set of paper ids the user has any interaction with
func (r *GormInteractionRepository) GetInteractedArxivIDs(userID uint) (map[string]bool, error) {
	var ids []string
	err := r.db.Model(&models.PaperInteraction{}).
		Where("user_id = ?", userID).
		Distinct().
		Pluck("arxiv_id", &ids).Error
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		seen[id] = true
	}
	return seen, nil
}
