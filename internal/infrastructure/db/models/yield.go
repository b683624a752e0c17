package models

import "time"

type Yield struct {
	ID             string  `gorm:"type:uuid;primaryKey"`
	UserID         string  `gorm:"type:uuid;not null;uniqueIndex:idx_yields_user_period"`
	Period         string  `gorm:"size:7;not null;uniqueIndex:idx_yields_user_period"`
	Capital        float64 `gorm:"type:numeric(18,2);not null;default:0"`
	RendimientoPct float64 `gorm:"type:numeric(9,4);not null;default:0"`
	RendimientoMxn float64 `gorm:"type:numeric(18,2);not null;default:0"`
	Balance        float64 `gorm:"type:numeric(18,2);not null;default:0"`
	Notas          string  `gorm:"type:text;not null;default:''"`
	DedupeKey      string  `gorm:"type:text;not null;uniqueIndex"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Yield) TableName() string {
	return "yields"
}
