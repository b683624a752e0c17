package contract

import (
	"context"
	"strings"
	"time"

	"github.com/mohammadpnp/rendimientos-admin/internal/domain/user"
)

const DateLayout = "2006-01-02"

type Portfolio string

const (
	PortfolioConservador Portfolio = "Conservador"
	PortfolioModerado    Portfolio = "Moderado"
	PortfolioAgresivo    Portfolio = "Agresivo"
)

var portfolios = []Portfolio{PortfolioConservador, PortfolioModerado, PortfolioAgresivo}

// ParsePortfolio matches case-insensitively; an empty value selects the
// conservative portfolio.
func ParsePortfolio(value string) (Portfolio, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return PortfolioConservador, true
	}
	for _, p := range portfolios {
		if strings.EqualFold(string(p), value) {
			return p, true
		}
	}
	return "", false
}

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusExpired  Status = "expired"
)

// Record is a contract row that passed validation.
type Record struct {
	UserEmail          string
	ContractType       string
	InvestmentAmount   float64
	StartDate          time.Time
	ExpirationDate     time.Time
	RendimientoPct     float64
	RendimientoMxn     float64
	Balance            float64
	PlazoMeses         int
	TipoPortafolio     Portfolio
	RendimientoMensual float64
	ComisionRetiro     float64
	Notas              string
	Row                int
}

func (r Record) RowNumber() int {
	return r.Row
}

// UniqueKey identifies a contract by owner, type and term.
func (r Record) UniqueKey() string {
	return Key(r.UserEmail, r.ContractType, r.StartDate, r.ExpirationDate)
}

func Key(userEmail, contractType string, start, expiration time.Time) string {
	return strings.Join([]string{
		user.NormalizeEmail(userEmail),
		strings.TrimSpace(contractType),
		start.Format(DateLayout),
		expiration.Format(DateLayout),
	}, "|")
}

// Contract is a stored contract.
type Contract struct {
	ID               string
	UserID           string
	UserEmail        string
	ContractType     string
	StartDate        time.Time
	ExpirationDate   time.Time
	InvestmentAmount float64
	MonthlyReturn    float64
	Status           Status
	RendimientoPct   float64
	RendimientoMxn   float64
	Balance          float64
	PlazoMeses       int
	TipoPortafolio   Portfolio
	ComisionRetiro   float64
	Notas            string
	LastNotification string
	CreatedAt        time.Time
}

// FromRecord builds the contract to store for a validated row owned by userID.
func FromRecord(userID string, r Record) Contract {
	return Contract{
		UserID:           userID,
		UserEmail:        r.UserEmail,
		ContractType:     r.ContractType,
		StartDate:        r.StartDate,
		ExpirationDate:   r.ExpirationDate,
		InvestmentAmount: r.InvestmentAmount,
		MonthlyReturn:    r.RendimientoMensual,
		Status:           StatusActive,
		RendimientoPct:   r.RendimientoPct,
		RendimientoMxn:   r.RendimientoMxn,
		Balance:          r.Balance,
		PlazoMeses:       r.PlazoMeses,
		TipoPortafolio:   r.TipoPortafolio,
		ComisionRetiro:   r.ComisionRetiro,
		Notas:            r.Notas,
	}
}

type Creator interface {
	CreateContract(ctx context.Context, c Contract) (string, error)
}

type Lister interface {
	ListContracts(ctx context.Context) ([]Contract, error)
	ListContractsByUser(ctx context.Context, userID string) ([]Contract, error)
}
