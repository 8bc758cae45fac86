package repositories

import (
	"errors"

	"github.com/paperswipe/backend/internal/models"
	"gorm.io/gorm"
)

// TagRepository defines the interface for per-user tag operations
type TagRepository interface {
	CreateTag(tag *models.Tag) error
	GetTagsByUser(userID uint) ([]models.Tag, error)
	TagExists(userID uint, name string) (bool, error)
	DeleteTag(userID, tagID uint) error
}

// GormTagRepository implements TagRepository
type GormTagRepository struct {
	db *gorm.DB
}

func NewGormTagRepository(db *gorm.DB) *GormTagRepository {
	return &GormTagRepository{db: db}
}

func (r *GormTagRepository) CreateTag(tag *models.Tag) error {
	if tag.Color == "" {
		tag.Color = models.DefaultTagColor
	}
	return r.db.Create(tag).Error
}

func (r *GormTagRepository) GetTagsByUser(userID uint) ([]models.Tag, error) {
	tags := []models.Tag{}
	err := r.db.Where("user_id = ?", userID).Order("id").Find(&tags).Error
	return tags, err
}

func (r *GormTagRepository) TagExists(userID uint, name string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Tag{}).Where("user_id = ? AND name = ?", userID, name).Count(&count).Error
	return count > 0, err
}

// DeleteTag removes a tag owned by userID and detaches it from every paper
func (r *GormTagRepository) DeleteTag(userID, tagID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var tag models.Tag
		if err := tx.Where("id = ? AND user_id = ?", tagID, userID).First(&tag).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTagNotFound
			}
			return err
		}
		if err := tx.Model(&tag).Association("Papers").Clear(); err != nil {
			return err
		}
		return tx.Delete(&tag).Error
	})
}

// findOrCreateTags resolves names to the user's tags, creating missing ones
// with the default color. Duplicate names collapse to one tag.
func findOrCreateTags(tx *gorm.DB, userID uint, names []string) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true

		var tag models.Tag
		err := tx.Where("user_id = ? AND name = ?", userID, name).First(&tag).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			tag = models.Tag{UserID: userID, Name: name, Color: models.DefaultTagColor}
			err = tx.Create(&tag).Error
		}
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}
