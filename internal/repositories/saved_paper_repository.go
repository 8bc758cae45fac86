package repositories

import (
	"errors"
	"time"

	"github.com/paperswipe/backend/internal/models"
	"gorm.io/gorm"
)

// SavedPaperRepository defines the interface for saved paper operations
type SavedPaperRepository interface {
	CreateSavedPaper(paper *models.SavedPaper) error
	IsPaperSaved(userID uint, arxivID string) (bool, error)
	GetSavedPaper(userID, paperID uint) (*models.SavedPaper, error)
	GetSavedPapersByUser(userID uint, tag string) ([]models.SavedPaper, error)
	UpdateSavedPaper(paper *models.SavedPaper, tags *[]string) error
	DeleteSavedPaper(userID, paperID uint) error
	CountSavedPapers(userID uint) (int64, error)
	GetPublicSavesByUsers(userIDs []uint, limit int) ([]models.SavedPaper, error)
	GetTrending(since time.Time, limit int) ([]models.TrendingPaper, error)
}

// GormSavedPaperRepository implements SavedPaperRepository
type GormSavedPaperRepository struct {
	db *gorm.DB
}

func NewGormSavedPaperRepository(db *gorm.DB) *GormSavedPaperRepository {
	return &GormSavedPaperRepository{db: db}
}

func (r *GormSavedPaperRepository) CreateSavedPaper(paper *models.SavedPaper) error {
	return r.db.Create(paper).Error
}

func (r *GormSavedPaperRepository) IsPaperSaved(userID uint, arxivID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.SavedPaper{}).Where("user_id = ? AND arxiv_id = ?", userID, arxivID).Count(&count).Error
	return count > 0, err
}

// GetSavedPaper returns the paper only when it belongs to userID
func (r *GormSavedPaperRepository) GetSavedPaper(userID, paperID uint) (*models.SavedPaper, error) {
	var paper models.SavedPaper
	err := r.db.Preload("Tags").Where("id = ? AND user_id = ?", paperID, userID).First(&paper).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSavedPaperNotFound
		}
		return nil, err
	}
	return &paper, nil
}

// GetSavedPapersByUser lists a user's papers newest first, optionally only
// those carrying the named tag
func (r *GormSavedPaperRepository) GetSavedPapersByUser(userID uint, tag string) ([]models.SavedPaper, error) {
	papers := []models.SavedPaper{}
	q := r.db.Preload("Tags").Where("saved_papers.user_id = ?", userID)
	if tag != "" {
		q = q.Where("saved_papers.id IN (?)",
			r.db.Table("saved_paper_tags").
				Select("saved_paper_tags.saved_paper_id").
				Joins("JOIN tags ON tags.id = saved_paper_tags.tag_id").
				Where("tags.user_id = ? AND tags.name = ?", userID, tag),
		)
	}
	err := q.Order("saved_papers.saved_at DESC, saved_papers.id DESC").Find(&papers).Error
	return papers, err
}

// UpdateSavedPaper persists notes and visibility. When tags is non-nil the
// tag set is cleared and rebuilt from the given names.
func (r *GormSavedPaperRepository) UpdateSavedPaper(paper *models.SavedPaper, tags *[]string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(paper).Select("notes", "is_public", "updated_at").Updates(map[string]interface{}{
			"notes":      paper.Notes,
			"is_public":  paper.IsPublic,
			"updated_at": time.Now().UTC(),
		}).Error
		if err != nil {
			return err
		}

		if tags != nil {
			resolved, err := findOrCreateTags(tx, paper.UserID, *tags)
			if err != nil {
				return err
			}
			if err := tx.Model(paper).Association("Tags").Clear(); err != nil {
				return err
			}
			if len(resolved) > 0 {
				if err := tx.Model(paper).Association("Tags").Append(resolved); err != nil {
					return err
				}
			}
		}

		return tx.Preload("Tags").First(paper, paper.ID).Error
	})
}

// DeleteSavedPaper removes a paper owned by userID and its tag links; the tags
// themselves are kept
func (r *GormSavedPaperRepository) DeleteSavedPaper(userID, paperID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var paper models.SavedPaper
		if err := tx.Where("id = ? AND user_id = ?", paperID, userID).First(&paper).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSavedPaperNotFound
			}
			return err
		}
		if err := tx.Model(&paper).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&paper).Error
	})
}

func (r *GormSavedPaperRepository) CountSavedPapers(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.SavedPaper{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// GetPublicSavesByUsers returns the most recent public saves across userIDs
func (r *GormSavedPaperRepository) GetPublicSavesByUsers(userIDs []uint, limit int) ([]models.SavedPaper, error) {
	papers := []models.SavedPaper{}
	if len(userIDs) == 0 {
		return papers, nil
	}
	err := r.db.Where("user_id IN ? AND is_public = ?", userIDs, true).
		Order("saved_at DESC, id DESC").
		Limit(limit).
		Find(&papers).Error
	return papers, err
}

type trendingRow struct {
	ArxivID     string
	SaveCount   int64
	RecentSaves int64
	LatestID    uint
}

// GetTrending ranks public papers by saves since the cutoff, then by all-time
// saves. Metadata comes from the most recent public save of each paper.
func (r *GormSavedPaperRepository) GetTrending(since time.Time, limit int) ([]models.TrendingPaper, error) {
	var rows []trendingRow
	err := r.db.Model(&models.SavedPaper{}).
		Select("arxiv_id, COUNT(*) AS save_count, "+
			"SUM(CASE WHEN saved_at >= ? THEN 1 ELSE 0 END) AS recent_saves, "+
			"MAX(id) AS latest_id", since.UTC()).
		Where("is_public = ?", true).
		Group("arxiv_id").
		Order("recent_saves DESC, save_count DESC, arxiv_id").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	trending := make([]models.TrendingPaper, 0, len(rows))
	if len(rows) == 0 {
		return trending, nil
	}

	ids := make([]uint, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.LatestID)
	}
	var papers []models.SavedPaper
	if err := r.db.Where("id IN ?", ids).Find(&papers).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]*models.SavedPaper, len(papers))
	for i := range papers {
		byID[papers[i].ID] = &papers[i]
	}

	for _, row := range rows {
		p, ok := byID[row.LatestID]
		if !ok {
			continue
		}
		trending = append(trending, models.TrendingPaper{
			ArxivID:       row.ArxivID,
			Title:         p.Title,
			Authors:       p.AuthorList(),
			Abstract:      p.Abstract,
			Categories:    p.CategoryList(),
			PublishedDate: p.PublishedDate,
			PDFURL:        p.PDFURL,
			SourceURL:     p.SourceURL,
			SaveCount:     row.SaveCount,
			RecentSaves:   row.RecentSaves,
		})
	}
	return trending, nil
}
