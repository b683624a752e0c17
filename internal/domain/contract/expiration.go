package contract

import (
	"errors"
	"math"
	"time"
)

const DefaultExpiringWithinDays = 30

var (
	ErrInvalidDate   = errors.New("invalid contract date")
	ErrAlreadyExists = errors.New("contract already registered")
)

type ExpirationStatus string

const (
	ExpirationExpired      ExpirationStatus = "expired"
	ExpirationExpiringSoon ExpirationStatus = "expiring soon"
	ExpirationActive       ExpirationStatus = "active"
)

// Label is the wording shown in contract listings.
func (s ExpirationStatus) Label() string {
	switch s {
	case ExpirationExpired:
		return "Vencido"
	case ExpirationExpiringSoon:
		return "Próximo a vencer"
	default:
		return "Activo"
	}
}

type Expiration struct {
	RemainingDays int              `json:"remaining_days"`
	DurationDays  int              `json:"duration_days"`
	Status        ExpirationStatus `json:"status"`
}

// Calculator derives the remaining days and display bucket of a contract.
// The zero value uses DefaultExpiringWithinDays.
type Calculator struct {
	ExpiringWithinDays int
}

func (c Calculator) threshold() int {
	if c.ExpiringWithinDays <= 0 {
		return DefaultExpiringWithinDays
	}
	return c.ExpiringWithinDays
}

func (c Calculator) Calculate(start, expiration, now time.Time) (Expiration, error) {
	if start.IsZero() || expiration.IsZero() {
		return Expiration{}, ErrInvalidDate
	}

	remaining := ceilDays(expiration.Sub(now))
	out := Expiration{
		RemainingDays: remaining,
		DurationDays:  ceilDays(expiration.Sub(start)),
	}

	switch {
	case remaining < 0:
		out.Status = ExpirationExpired
	case remaining <= c.threshold():
		out.Status = ExpirationExpiringSoon
	default:
		out.Status = ExpirationActive
	}
	return out, nil
}

// CalculateISO accepts YYYY-MM-DD dates, interpreted as UTC midnight.
func (c Calculator) CalculateISO(start, expiration string, now time.Time) (Expiration, error) {
	startDate, err := time.Parse(DateLayout, start)
	if err != nil {
		return Expiration{}, ErrInvalidDate
	}
	expirationDate, err := time.Parse(DateLayout, expiration)
	if err != nil {
		return Expiration{}, ErrInvalidDate
	}
	return c.Calculate(startDate, expirationDate, now)
}

func ceilDays(d time.Duration) int {
	return int(math.Ceil(d.Hours() / 24))
}
