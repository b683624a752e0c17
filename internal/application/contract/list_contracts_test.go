package contract_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app "github.com/mohammadpnp/rendimientos-admin/internal/application/contract"
	domain "github.com/mohammadpnp/rendimientos-admin/internal/domain/contract"
)

type fakeLister struct {
	contracts []domain.Contract
	err       error
}

func (f *fakeLister) ListContracts(context.Context) ([]domain.Contract, error) {
	return f.contracts, f.err
}

func (f *fakeLister) ListContractsByUser(context.Context, string) ([]domain.Contract, error) {
	return f.contracts, f.err
}

var listNow = time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

func clock() time.Time { return listNow }

func stored(id string, amount float64, daysLeft int) domain.Contract {
	return domain.Contract{
		ID:               id,
		InvestmentAmount: amount,
		StartDate:        listNow.AddDate(0, -6, 0),
		ExpirationDate:   listNow.AddDate(0, 0, daysLeft),
		Status:           domain.StatusActive,
	}
}

func fixture() *fakeLister {
	return &fakeLister{contracts: []domain.Contract{
		stored("active", 100000.10, 45),
		stored("expired", 2500.20, -10),
		stored("soon", 0.30, 5),
		stored("edge", 10, 30),
	}}
}

func TestListContractsSortedByRemainingDays(t *testing.T) {
	t.Parallel()

	uc := app.NewListContracts(fixture(), domain.Calculator{}, clock)
	out, err := uc.Execute(context.Background(), app.ListContractsInput{})
	require.NoError(t, err)

	ids := make([]string, 0, len(out.Contracts))
	for _, c := range out.Contracts {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"expired", "soon", "edge", "active"}, ids)
	assert.Equal(t, "Vencido", out.Contracts[0].ExpirationLabel)
	assert.Equal(t, -10, out.Contracts[0].RemainingDays)
	assert.Equal(t, domain.ExpirationActive, out.Contracts[3].ExpirationStatus)
}

func TestListContractsExpiringWithin(t *testing.T) {
	t.Parallel()

	within := 30
	uc := app.NewListContracts(fixture(), domain.Calculator{}, clock)
	out, err := uc.Execute(context.Background(), app.ListContractsInput{ExpiringWithinDays: &within})
	require.NoError(t, err)

	require.Len(t, out.Contracts, 2)
	assert.Equal(t, "soon", out.Contracts[0].ID)
	assert.Equal(t, "edge", out.Contracts[1].ID)
}

func TestListContractsRejectsNegativeWindow(t *testing.T) {
	t.Parallel()

	within := -1
	uc := app.NewListContracts(fixture(), domain.Calculator{}, clock)
	_, err := uc.Execute(context.Background(), app.ListContractsInput{ExpiringWithinDays: &within})
	assert.ErrorIs(t, err, app.ErrInvalidWindow)
}

func TestListContractsRepositoryError(t *testing.T) {
	t.Parallel()

	uc := app.NewListContracts(&fakeLister{err: errors.New("db down")}, domain.Calculator{}, clock)
	_, err := uc.Execute(context.Background(), app.ListContractsInput{})
	assert.ErrorIs(t, err, app.ErrListContracts)
}

func TestGetContractTotals(t *testing.T) {
	t.Parallel()

	uc := app.NewGetContractTotals(fixture(), domain.Calculator{}, clock)
	out, err := uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, out.Count)
	assert.True(t, decimal.RequireFromString("102510.6").Equal(out.TotalInvestment), out.TotalInvestment.String())
	assert.Equal(t, 1, out.Active)
	assert.Equal(t, 2, out.ExpiringSoon)
	assert.Equal(t, 1, out.Expired)
}

func TestDescribeHandlesMissingDates(t *testing.T) {
	t.Parallel()

	out := app.Describe(domain.Contract{ID: "broken"}, domain.Calculator{}, listNow)
	assert.Equal(t, domain.ExpirationExpired, out.ExpirationStatus)
	assert.Zero(t, out.RemainingDays)
}
