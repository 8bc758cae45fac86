package repositories

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrSavedPaperNotFound = errors.New("saved paper not found")
	ErrTagNotFound        = errors.New("tag not found")
	ErrFollowNotFound     = errors.New("follow relationship not found")
	ErrAlreadySaved       = errors.New("paper already saved")
)
