package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	domain "github.com/mohammadpnp/rendimientos-admin/internal/domain/user"
	"github.com/mohammadpnp/rendimientos-admin/internal/infrastructure/db/models"
)

type UserQueryRepository struct {
	db *gorm.DB
}

func NewUserQueryRepository(db *gorm.DB) *UserQueryRepository {
	return &UserQueryRepository{db: db}
}

func (r *UserQueryRepository) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	var row models.User

	err := r.db.WithContext(ctx).First(&row, "id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}

	return &domain.User{
		ID:          row.ID,
		Email:       row.Email,
		DisplayName: row.DisplayName,
		PhoneNumber: row.PhoneNumber,
		CreatedAt:   row.CreatedAt,
	}, nil
}
