package repositories

import (
	"github.com/paperswipe/backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MigrationRepository imports state a client kept before it had an account
type MigrationRepository interface {
	ImportPreferences(user *models.User, prefs models.MigrationPreferences) error
	ImportSavedPaper(userID uint, paper models.LocalSavedPaper) error
}

// GormMigrationRepository implements MigrationRepository
type GormMigrationRepository struct {
	db *gorm.DB
}

func NewGormMigrationRepository(db *gorm.DB) *GormMigrationRepository {
	return &GormMigrationRepository{db: db}
}

// ImportPreferences records seen and disliked papers as interactions (once per
// id and kind) and replaces the research interests when topics are given. It
// runs in a single transaction.
func (r *GormMigrationRepository) ImportPreferences(user *models.User, prefs models.MigrationPreferences) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := recordInteractions(tx, user.ID, prefs.SeenPaperIDs, models.InteractionView); err != nil {
			return err
		}
		if err := recordInteractions(tx, user.ID, prefs.DislikedPaperIDs, models.InteractionDislike); err != nil {
			return err
		}

		if prefs.SelectedTopics != nil {
			topics := datatypes.JSONSlice[string](*prefs.SelectedTopics)
			if topics == nil {
				topics = datatypes.JSONSlice[string]{}
			}
			if err := tx.Model(user).Update("research_interests", topics).Error; err != nil {
				return err
			}
			user.ResearchInterests = topics
		}
		return nil
	})
}

func recordInteractions(tx *gorm.DB, userID uint, arxivIDs []string, kind string) error {
	for _, id := range arxivIDs {
		var count int64
		err := tx.Model(&models.PaperInteraction{}).
			Where("user_id = ? AND arxiv_id = ? AND interaction_type = ?", userID, id, kind).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		interaction := models.PaperInteraction{UserID: userID, ArxivID: id, InteractionType: kind}
		if err := tx.Create(&interaction).Error; err != nil {
			return err
		}
	}
	return nil
}

// ImportSavedPaper inserts one paper with its tags in its own transaction.
// It returns ErrAlreadySaved when the user already has the paper.
func (r *GormMigrationRepository) ImportSavedPaper(userID uint, local models.LocalSavedPaper) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&models.SavedPaper{}).Where("user_id = ? AND arxiv_id = ?", userID, local.ID).Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadySaved
		}

		paper := models.SavedPaper{
			UserID:        userID,
			ArxivID:       local.ID,
			Title:         local.Title,
			Authors:       datatypes.JSONSlice[string](local.Authors),
			Abstract:      local.Abstract,
			Categories:    datatypes.JSONSlice[string](local.Categories),
			PublishedDate: local.PublishedDate,
			PDFURL:        local.PDFURL,
			SourceURL:     local.SourceURL,
			Notes:         local.Notes,
			IsLiked:       1,
			IsPublic:      true,
		}
		if err := tx.Create(&paper).Error; err != nil {
			return err
		}

		if len(local.Tags) == 0 {
			return nil
		}
		tags, err := findOrCreateTags(tx, userID, local.Tags)
		if err != nil {
			return err
		}
		return tx.Model(&paper).Association("Tags").Append(tags)
	})
}

