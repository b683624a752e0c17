package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	batchdomain "github.com/mohammadpnp/rendimientos-admin/internal/domain/batch"
	"github.com/mohammadpnp/rendimientos-admin/internal/domain/contract"
	"github.com/mohammadpnp/rendimientos-admin/internal/domain/user"
	"github.com/mohammadpnp/rendimientos-admin/internal/domain/yield"
	"github.com/mohammadpnp/rendimientos-admin/internal/infrastructure/db/models"
	"github.com/mohammadpnp/rendimientos-admin/internal/infrastructure/repository"
)

func TestDirectoryRepositoryIntegration(t *testing.T) {
	db, dsn := openTestDB(t)
	ctx := context.Background()

	const email = "dir-integration@example.com"
	if err := db.Exec("DELETE FROM yields WHERE dedupe_key LIKE ?", email+"%").Error; err != nil {
		t.Fatalf("cleanup yields failed: %v", err)
	}
	if err := db.Exec("DELETE FROM contracts WHERE user_email = ?", email).Error; err != nil {
		t.Fatalf("cleanup contracts failed: %v", err)
	}
	if err := db.Exec("DELETE FROM users WHERE email = ?", email).Error; err != nil {
		t.Fatalf("cleanup users failed: %v", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}
	defer pool.Close()

	repo := repository.NewDirectoryRepository(db, bcrypt.MinCost)
	lookup := repository.NewDirectoryLookup(pool)

	record, err := user.NewRecord(2, "Dir-Integration@example.com", "secret1", "", "")
	if err != nil {
		t.Fatalf("new record: %v", err)
	}
	userID, err := repo.CreateUser(ctx, record)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := repo.CreateUser(ctx, record); !errors.Is(err, user.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	var stored models.User
	if err := db.First(&stored, "id = ?", userID).Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret1")) != nil {
		t.Fatal("stored password hash does not match")
	}

	index, err := lookup.LookupExisting(ctx, batchdomain.EntityUsers, []string{email, "nobody@example.com"})
	if err != nil {
		t.Fatalf("lookup users: %v", err)
	}
	if index[email] != userID || len(index) != 1 {
		t.Fatalf("unexpected users index: %#v", index)
	}

	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC)
	c := contract.Contract{
		UserID:           userID,
		UserEmail:        email,
		ContractType:     "Plazo fijo",
		StartDate:        start,
		ExpirationDate:   end,
		InvestmentAmount: 1500.25,
		Status:           contract.StatusActive,
		TipoPortafolio:   contract.PortfolioConservador,
	}
	contractID, err := repo.CreateContract(ctx, c)
	if err != nil {
		t.Fatalf("create contract: %v", err)
	}
	if _, err := repo.CreateContract(ctx, c); !errors.Is(err, contract.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	key := contract.Key(email, "Plazo fijo", start, end)
	index, err = lookup.LookupExisting(ctx, batchdomain.EntityContracts, []string{key})
	if err != nil {
		t.Fatalf("lookup contracts: %v", err)
	}
	if index[key] != contractID {
		t.Fatalf("unexpected contracts index: %#v", index)
	}

	listed, err := repo.ListContractsByUser(ctx, userID)
	if err != nil {
		t.Fatalf("list contracts: %v", err)
	}
	if len(listed) != 1 || listed[0].InvestmentAmount != 1500.25 {
		t.Fatalf("unexpected contracts: %#v", listed)
	}

	y := yield.Yield{UserID: userID, UserEmail: email, Period: "2025-01", Capital: 1000}
	if _, err := repo.CreateYield(ctx, y); err != nil {
		t.Fatalf("create yield: %v", err)
	}
	if _, err := repo.CreateYield(ctx, y); !errors.Is(err, yield.ErrAlreadyExists) {
		t.Fatalf("expected yield ErrAlreadyExists, got %v", err)
	}
}
