package models

import "time"

// Contract rows are unique on DedupeKey: owner email, type and term.
type Contract struct {
	ID               string    `gorm:"type:uuid;primaryKey"`
	UserID           string    `gorm:"type:uuid;index;not null"`
	UserEmail        string    `gorm:"size:320;not null"`
	ContractType     string    `gorm:"size:100;not null"`
	StartDate        time.Time `gorm:"type:date;not null"`
	ExpirationDate   time.Time `gorm:"type:date;not null;index"`
	InvestmentAmount float64   `gorm:"type:numeric(18,2);not null"`
	MonthlyReturn    float64   `gorm:"type:numeric(9,4);not null;default:0"`
	Status           string    `gorm:"size:16;not null"`
	RendimientoPct   float64   `gorm:"type:numeric(9,4);not null;default:0"`
	RendimientoMxn   float64   `gorm:"type:numeric(18,2);not null;default:0"`
	Balance          float64   `gorm:"type:numeric(18,2);not null;default:0"`
	PlazoMeses       int       `gorm:"not null;default:0"`
	TipoPortafolio   string    `gorm:"size:16;not null"`
	ComisionRetiro   float64   `gorm:"type:numeric(9,4);not null;default:0"`
	Notas            string    `gorm:"type:text;not null;default:''"`
	LastNotification *time.Time
	DedupeKey        string `gorm:"type:text;not null;uniqueIndex"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (Contract) TableName() string {
	return "contracts"
}
