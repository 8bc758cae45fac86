package repositories

import (
	"errors"
	"fmt"

	"github.com/paperswipe/backend/internal/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(user *models.User) error
	GetUserByID(id uint) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUsersByIDs(ids []uint) (map[uint]models.User, error)
	UpdateUser(user *models.User) error
	SetActive(email string, active bool) (*models.User, error)
	DeleteUser(id uint) error
}

// GormUserRepository implements UserRepository on top of gorm
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) CreateUser(user *models.User) error {
	return r.db.Create(user).Error
}

// GetUserByID returns ErrUserNotFound when no row matches
func (r *GormUserRepository) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetUsersByIDs loads users keyed by id; unknown ids are absent from the map
func (r *GormUserRepository) GetUsersByIDs(ids []uint) (map[uint]models.User, error) {
	result := make(map[uint]models.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var users []models.User
	if err := r.db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		result[u.ID] = u
	}
	return result, nil
}

func (r *GormUserRepository) UpdateUser(user *models.User) error {
	return r.db.Save(user).Error
}

// SetActive toggles the is_active flag of the account with the given email
func (r *GormUserRepository) SetActive(email string, active bool) (*models.User, error) {
	user, err := r.GetUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if err := r.db.Model(user).Update("is_active", active).Error; err != nil {
		return nil, fmt.Errorf("update user %d: %w", user.ID, err)
	}
	return user, nil
}

// DeleteUser removes the user together with everything it owns
func (r *GormUserRepository) DeleteUser(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&models.User{}, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		var paperIDs, tagIDs []uint
		if err := tx.Model(&models.SavedPaper{}).Where("user_id = ?", id).Pluck("id", &paperIDs).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Tag{}).Where("user_id = ?", id).Pluck("id", &tagIDs).Error; err != nil {
			return err
		}
		if len(paperIDs) > 0 {
			if err := tx.Exec("DELETE FROM saved_paper_tags WHERE saved_paper_id IN ?", paperIDs).Error; err != nil {
				return err
			}
		}
		if len(tagIDs) > 0 {
			if err := tx.Exec("DELETE FROM saved_paper_tags WHERE tag_id IN ?", tagIDs).Error; err != nil {
				return err
			}
		}

		steps := []struct {
			model interface{}
			where string
			args  []interface{}
		}{
			{&models.SavedPaper{}, "user_id = ?", []interface{}{id}},
			{&models.Tag{}, "user_id = ?", []interface{}{id}},
			{&models.PaperInteraction{}, "user_id = ?", []interface{}{id}},
			{&models.Follow{}, "follower_id = ? OR following_id = ?", []interface{}{id, id}},
		}
		for _, s := range steps {
			if err := tx.Where(s.where, s.args...).Delete(s.model).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&models.User{}, id).Error
	})
}
