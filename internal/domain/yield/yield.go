package yield

import (
	"context"
	"errors"
	"time"

	"github.com/mohammadpnp/rendimientos-admin/internal/domain/user"
)

const PeriodLayout = "2006-01"

var ErrAlreadyExists = errors.New("yield already registered for period")

// ParsePeriod accepts a YYYY-MM month token.
func ParsePeriod(value string) (string, bool) {
	t, err := time.Parse(PeriodLayout, value)
	if err != nil {
		return "", false
	}
	return t.Format(PeriodLayout), true
}

// Record is a yield row that passed validation.
type Record struct {
	UserEmail      string
	Period         string
	Capital        float64
	RendimientoPct float64
	RendimientoMxn float64
	Balance        float64
	Notas          string
	Row            int
}

func (r Record) RowNumber() int {
	return r.Row
}

func (r Record) UniqueKey() string {
	return Key(r.UserEmail, r.Period)
}

func Key(userEmail, period string) string {
	return user.NormalizeEmail(userEmail) + "|" + period
}

type Yield struct {
	ID             string
	UserID         string
	UserEmail      string
	Period         string
	Capital        float64
	RendimientoPct float64
	RendimientoMxn float64
	Balance        float64
	Notas          string
	CreatedAt      time.Time
}

func FromRecord(userID string, r Record) Yield {
	return Yield{
		UserID:         userID,
		UserEmail:      r.UserEmail,
		Period:         r.Period,
		Capital:        r.Capital,
		RendimientoPct: r.RendimientoPct,
		RendimientoMxn: r.RendimientoMxn,
		Balance:        r.Balance,
		Notas:          r.Notas,
	}
}

type Creator interface {
	CreateYield(ctx context.Context, y Yield) (string, error)
}
