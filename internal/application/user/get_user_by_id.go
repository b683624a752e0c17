package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	contractapp "github.com/mohammadpnp/rendimientos-admin/internal/application/contract"
	"github.com/mohammadpnp/rendimientos-admin/internal/domain/contract"
	domain "github.com/mohammadpnp/rendimientos-admin/internal/domain/user"
)

type GetUserByIDInput struct {
	ID string
}

type GetUserByIDOutput struct {
	ID          string                       `json:"id"`
	Email       string                       `json:"email"`
	DisplayName string                       `json:"display_name"`
	PhoneNumber string                       `json:"phone_number"`
	CreatedAt   time.Time                    `json:"created_at"`
	Contracts   []contractapp.ContractOutput `json:"contracts"`
}

type GetUserByID interface {
	Execute(ctx context.Context, in GetUserByIDInput) (GetUserByIDOutput, error)
}

type getUserByID struct {
	repo      domain.QueryRepository
	contracts contract.Lister
	calc      contract.Calculator
	now       func() time.Time
}

func NewGetUserByID(repo domain.QueryRepository, contracts contract.Lister, calc contract.Calculator, now func() time.Time) GetUserByID {
	if now == nil {
		now = time.Now
	}
	return &getUserByID{repo: repo, contracts: contracts, calc: calc, now: now}
}

func (uc *getUserByID) Execute(ctx context.Context, in GetUserByIDInput) (GetUserByIDOutput, error) {
	if _, err := uuid.Parse(in.ID); err != nil {
		return GetUserByIDOutput{}, ErrInvalidUserID
	}

	u, err := uc.repo.GetByID(ctx, in.ID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return GetUserByIDOutput{}, ErrUserNotFound
		}
		return GetUserByIDOutput{}, fmt.Errorf("%w: %v", ErrGetUserByID, err)
	}

	contracts, err := uc.contracts.ListContractsByUser(ctx, u.ID)
	if err != nil {
		return GetUserByIDOutput{}, fmt.Errorf("%w: %v", ErrGetUserByID, err)
	}

	return GetUserByIDOutput{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		PhoneNumber: u.PhoneNumber,
		CreatedAt:   u.CreatedAt,
		Contracts:   contractapp.DescribeAll(contracts, uc.calc, uc.now()),
	}, nil
}
