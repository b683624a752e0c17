package user

import "context"

type Creator interface {
	CreateUser(ctx context.Context, record Record) (string, error)
}

type QueryRepository interface {
	GetByID(ctx context.Context, userID string) (*User, error)
}
