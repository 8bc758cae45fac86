package models

import "time"

// Follow is a directed edge from follower to followed user
type Follow struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	FollowerID  uint      `json:"follower_id" gorm:"not null;index;uniqueIndex:idx_follower_following"`
	FollowingID uint      `json:"following_id" gorm:"not null;index;uniqueIndex:idx_follower_following"`
	CreatedAt   time.Time `json:"created_at"`

	Follower  User `json:"-" gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE"`
	Following User `json:"-" gorm:"foreignKey:FollowingID;constraint:OnDelete:CASCADE"`
}

type FollowersResponse struct {
	Followers []UserProfile `json:"followers"`
	Total     int           `json:"total"`
}

type FollowingResponse struct {
	Following []UserProfile `json:"following"`
	Total     int           `json:"total"`
}
