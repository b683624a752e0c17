package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/mohammadpnp/rendimientos-admin/internal/domain/contract"
	"github.com/mohammadpnp/rendimientos-admin/internal/domain/user"
	"github.com/mohammadpnp/rendimientos-admin/internal/domain/yield"
	"github.com/mohammadpnp/rendimientos-admin/internal/infrastructure/db/models"
)

const uniqueViolation = "23505"

// DirectoryRepository writes the records accepted by batch imports and reads
// contracts back for listings.
type DirectoryRepository struct {
	db         *gorm.DB
	bcryptCost int
}

func NewDirectoryRepository(db *gorm.DB, bcryptCost int) *DirectoryRepository {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &DirectoryRepository{db: db, bcryptCost: bcryptCost}
}

func (r *DirectoryRepository) CreateUser(ctx context.Context, record user.Record) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(record.Password), r.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	row := models.User{
		ID:           uuid.NewString(),
		Email:        user.NormalizeEmail(record.Email),
		DisplayName:  record.DisplayName,
		PhoneNumber:  record.PhoneNumber,
		PasswordHash: string(hash),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return "", user.ErrEmailTaken
		}
		return "", fmt.Errorf("create user: %w", err)
	}
	return row.ID, nil
}

func (r *DirectoryRepository) CreateContract(ctx context.Context, c contract.Contract) (string, error) {
	row := models.Contract{
		ID:               uuid.NewString(),
		UserID:           c.UserID,
		UserEmail:        user.NormalizeEmail(c.UserEmail),
		ContractType:     c.ContractType,
		StartDate:        c.StartDate,
		ExpirationDate:   c.ExpirationDate,
		InvestmentAmount: c.InvestmentAmount,
		MonthlyReturn:    c.MonthlyReturn,
		Status:           string(c.Status),
		RendimientoPct:   c.RendimientoPct,
		RendimientoMxn:   c.RendimientoMxn,
		Balance:          c.Balance,
		PlazoMeses:       c.PlazoMeses,
		TipoPortafolio:   string(c.TipoPortafolio),
		ComisionRetiro:   c.ComisionRetiro,
		Notas:            c.Notas,
		DedupeKey:        contract.Key(c.UserEmail, c.ContractType, c.StartDate, c.ExpirationDate),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return "", contract.ErrAlreadyExists
		}
		return "", fmt.Errorf("create contract: %w", err)
	}
	return row.ID, nil
}

func (r *DirectoryRepository) CreateYield(ctx context.Context, y yield.Yield) (string, error) {
	row := models.Yield{
		ID:             uuid.NewString(),
		UserID:         y.UserID,
		Period:         y.Period,
		Capital:        y.Capital,
		RendimientoPct: y.RendimientoPct,
		RendimientoMxn: y.RendimientoMxn,
		Balance:        y.Balance,
		Notas:          y.Notas,
		DedupeKey:      yield.Key(y.UserEmail, y.Period),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return "", yield.ErrAlreadyExists
		}
		return "", fmt.Errorf("create yield: %w", err)
	}
	return row.ID, nil
}

func (r *DirectoryRepository) ListContracts(ctx context.Context) ([]contract.Contract, error) {
	var rows []models.Contract
	if err := r.db.WithContext(ctx).Order("expiration_date, id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list contracts: %w", err)
	}
	return toContracts(rows), nil
}

func (r *DirectoryRepository) ListContractsByUser(ctx context.Context, userID string) ([]contract.Contract, error) {
	var rows []models.Contract
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("expiration_date, id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list contracts by user: %w", err)
	}
	return toContracts(rows), nil
}

func toContracts(rows []models.Contract) []contract.Contract {
	out := make([]contract.Contract, 0, len(rows))
	for _, row := range rows {
		c := contract.Contract{
			ID:               row.ID,
			UserID:           row.UserID,
			UserEmail:        row.UserEmail,
			ContractType:     row.ContractType,
			StartDate:        row.StartDate,
			ExpirationDate:   row.ExpirationDate,
			InvestmentAmount: row.InvestmentAmount,
			MonthlyReturn:    row.MonthlyReturn,
			Status:           contract.Status(row.Status),
			RendimientoPct:   row.RendimientoPct,
			RendimientoMxn:   row.RendimientoMxn,
			Balance:          row.Balance,
			PlazoMeses:       row.PlazoMeses,
			TipoPortafolio:   contract.Portfolio(row.TipoPortafolio),
			ComisionRetiro:   row.ComisionRetiro,
			Notas:            row.Notas,
			CreatedAt:        row.CreatedAt,
		}
		if row.LastNotification != nil {
			c.LastNotification = row.LastNotification.Format(contract.DateLayout)
		}
		out = append(out, c)
	}
	return out
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
