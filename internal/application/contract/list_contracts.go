package contract

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	domain "github.com/mohammadpnp/rendimientos-admin/internal/domain/contract"
)

var (
	ErrInvalidWindow = errors.New("invalid expiring window")
	ErrListContracts = errors.New("failed to list contracts")
)

type ContractOutput struct {
	ID               string                  `json:"id"`
	UserID           string                  `json:"user_id"`
	UserEmail        string                  `json:"user_email"`
	ContractType     string                  `json:"contract_type"`
	StartDate        string                  `json:"start_date"`
	ExpirationDate   string                  `json:"expiration_date"`
	InvestmentAmount decimal.Decimal         `json:"investment_amount"`
	MonthlyReturn    decimal.Decimal         `json:"monthly_return"`
	Status           domain.Status           `json:"status"`
	TipoPortafolio   domain.Portfolio        `json:"tipo_portafolio"`
	PlazoMeses       int                     `json:"plazo_meses,omitempty"`
	Notas            string                  `json:"notas,omitempty"`
	RemainingDays    int                     `json:"remaining_days"`
	DurationDays     int                     `json:"duration_days"`
	ExpirationStatus domain.ExpirationStatus `json:"expiration_status"`
	ExpirationLabel  string                  `json:"expiration_label"`
}

// Describe pairs a stored contract with its expiration as of now. Contracts
// with unusable dates are reported as expired with zero days.
func Describe(c domain.Contract, calc domain.Calculator, now time.Time) ContractOutput {
	exp, err := calc.Calculate(c.StartDate, c.ExpirationDate, now)
	if err != nil {
		exp = domain.Expiration{Status: domain.ExpirationExpired}
	}

	return ContractOutput{
		ID:               c.ID,
		UserID:           c.UserID,
		UserEmail:        c.UserEmail,
		ContractType:     c.ContractType,
		StartDate:        c.StartDate.Format(domain.DateLayout),
		ExpirationDate:   c.ExpirationDate.Format(domain.DateLayout),
		InvestmentAmount: decimal.NewFromFloat(c.InvestmentAmount),
		MonthlyReturn:    decimal.NewFromFloat(c.MonthlyReturn),
		Status:           c.Status,
		TipoPortafolio:   c.TipoPortafolio,
		PlazoMeses:       c.PlazoMeses,
		Notas:            c.Notas,
		RemainingDays:    exp.RemainingDays,
		DurationDays:     exp.DurationDays,
		ExpirationStatus: exp.Status,
		ExpirationLabel:  exp.Status.Label(),
	}
}

// DescribeAll returns the contracts ordered by remaining days, soonest first.
func DescribeAll(contracts []domain.Contract, calc domain.Calculator, now time.Time) []ContractOutput {
	out := make([]ContractOutput, 0, len(contracts))
	for _, c := range contracts {
		out = append(out, Describe(c, calc, now))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RemainingDays < out[j].RemainingDays })
	return out
}

type ListContractsInput struct {
	// ExpiringWithinDays keeps only contracts expiring in 0..N days when set.
	ExpiringWithinDays *int
}

type ListContractsOutput struct {
	Contracts []ContractOutput `json:"contracts"`
}

type ListContracts interface {
	Execute(ctx context.Context, in ListContractsInput) (ListContractsOutput, error)
}

type listContracts struct {
	repo domain.Lister
	calc domain.Calculator
	now  func() time.Time
}

func NewListContracts(repo domain.Lister, calc domain.Calculator, now func() time.Time) ListContracts {
	if now == nil {
		now = time.Now
	}
	return &listContracts{repo: repo, calc: calc, now: now}
}

func (uc *listContracts) Execute(ctx context.Context, in ListContractsInput) (ListContractsOutput, error) {
	if in.ExpiringWithinDays != nil && *in.ExpiringWithinDays < 0 {
		return ListContractsOutput{}, ErrInvalidWindow
	}

	contracts, err := uc.repo.ListContracts(ctx)
	if err != nil {
		return ListContractsOutput{}, fmt.Errorf("%w: %v", ErrListContracts, err)
	}

	all := DescribeAll(contracts, uc.calc, uc.now())
	if in.ExpiringWithinDays == nil {
		return ListContractsOutput{Contracts: all}, nil
	}

	within := *in.ExpiringWithinDays
	filtered := make([]ContractOutput, 0, len(all))
	for _, c := range all {
		if c.RemainingDays >= 0 && c.RemainingDays <= within {
			filtered = append(filtered, c)
		}
	}
	return ListContractsOutput{Contracts: filtered}, nil
}

type ContractTotalsOutput struct {
	Count           int             `json:"count"`
	TotalInvestment decimal.Decimal `json:"total_investment"`
	Active          int             `json:"active"`
	ExpiringSoon    int             `json:"expiring_soon"`
	Expired         int             `json:"expired"`
}

type GetContractTotals interface {
	Execute(ctx context.Context) (ContractTotalsOutput, error)
}

type getContractTotals struct {
	repo domain.Lister
	calc domain.Calculator
	now  func() time.Time
}

func NewGetContractTotals(repo domain.Lister, calc domain.Calculator, now func() time.Time) GetContractTotals {
	if now == nil {
		now = time.Now
	}
	return &getContractTotals{repo: repo, calc: calc, now: now}
}

func (uc *getContractTotals) Execute(ctx context.Context) (ContractTotalsOutput, error) {
	contracts, err := uc.repo.ListContracts(ctx)
	if err != nil {
		return ContractTotalsOutput{}, fmt.Errorf("%w: %v", ErrListContracts, err)
	}

	out := ContractTotalsOutput{TotalInvestment: decimal.Zero}
	now := uc.now()
	for _, c := range contracts {
		out.Count++
		out.TotalInvestment = out.TotalInvestment.Add(decimal.NewFromFloat(c.InvestmentAmount))

		switch Describe(c, uc.calc, now).ExpirationStatus {
		case domain.ExpirationExpired:
			out.Expired++
		case domain.ExpirationExpiringSoon:
			out.ExpiringSoon++
		default:
			out.Active++
		}
	}
	return out, nil
}
