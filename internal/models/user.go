package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"gorm.io/datatypes"
)

type User struct {
	ID                uint                        `json:"id" gorm:"primaryKey"`
	Email             string                      `json:"email" gorm:"size:255;uniqueIndex;not null"`
	HashedPassword    string                      `json:"-" gorm:"size:255;not null"`
	FullName          string                      `json:"full_name" gorm:"size:255"`
	Bio               string                      `json:"bio"`
	ResearchInterests datatypes.JSONSlice[string] `json:"research_interests"`
	IsActive          bool                        `json:"is_active"`
	IsVerified        bool                        `json:"is_verified"`
	CreatedAt         time.Time                   `json:"created_at"`
	UpdatedAt         time.Time                   `json:"updated_at"`

	SavedPapers  []SavedPaper       `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Tags         []Tag              `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Interactions []PaperInteraction `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// Interests returns the research interests, never nil
func (u *User) Interests() []string {
	if u.ResearchInterests == nil {
		return []string{}
	}
	return []string(u.ResearchInterests)
}

type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"omitempty,max=255"`
	Password string `json:"password" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type UpdateUserRequest struct {
	FullName          *string   `json:"full_name" validate:"omitempty,max=255"`
	Bio               *string   `json:"bio"`
	ResearchInterests *[]string `json:"research_interests"`
}

// UserResponse is the account view returned to its owner
type UserResponse struct {
	ID                uint      `json:"id"`
	Email             string    `json:"email"`
	FullName          string    `json:"full_name"`
	Bio               string    `json:"bio"`
	ResearchInterests []string  `json:"research_interests"`
	IsActive          bool      `json:"is_active"`
	IsVerified        bool      `json:"is_verified"`
	CreatedAt         time.Time `json:"created_at"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:                u.ID,
		Email:             u.Email,
		FullName:          u.FullName,
		Bio:               u.Bio,
		ResearchInterests: u.Interests(),
		IsActive:          u.IsActive,
		IsVerified:        u.IsVerified,
		CreatedAt:         u.CreatedAt,
	}
}

// UserProfile is the public view of a user with social counts
type UserProfile struct {
	ID                uint     `json:"id"`
	Email             string   `json:"email"`
	FullName          string   `json:"full_name"`
	Bio               string   `json:"bio"`
	ResearchInterests []string `json:"research_interests"`
	FollowersCount    int64    `json:"followers_count"`
	FollowingCount    int64    `json:"following_count"`
	SavedPapersCount  int64    `json:"saved_papers_count"`
	IsFollowing       bool     `json:"is_following"`
}

// ToProfile returns the profile view with zeroed counts
func (u *User) ToProfile() UserProfile {
	return UserProfile{
		ID:                u.ID,
		Email:             u.Email,
		FullName:          u.FullName,
		Bio:               u.Bio,
		ResearchInterests: u.Interests(),
	}
}

// TokenPair is returned by login and refresh
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims.
// The user id travels as the subject.
type JwtCustomClaims struct {
	Type string `json:"type"`
	jwt.RegisteredClaims
}
