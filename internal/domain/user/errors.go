package user

import "errors"

var (
	ErrInvalidEmail = errors.New("invalid email")
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
	ErrWeakPassword = errors.New("password too short")
)
