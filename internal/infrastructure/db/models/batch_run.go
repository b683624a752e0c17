package models

import "time"

type RowError struct {
	Row     int    `json:"row"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type BatchRun struct {
	ID            string     `gorm:"type:uuid;primaryKey"`
	Entity        string     `gorm:"size:16;not null;index"`
	FileName      string     `gorm:"type:text;not null"`
	Checksum      string     `gorm:"size:16;not null;index"`
	Status        string     `gorm:"size:16;not null"`
	TotalRows     int        `gorm:"not null;default:0"`
	CreatedCount  int        `gorm:"not null;default:0"`
	SkippedCount  int        `gorm:"not null;default:0"`
	FailedCount   int        `gorm:"not null;default:0"`
	RejectedCount int        `gorm:"not null;default:0"`
	OmittedErrors int        `gorm:"not null;default:0"`
	Errors        []RowError `gorm:"type:jsonb;serializer:json"`
	ErrorMessage  *string    `gorm:"type:text"`
	StartedAt     time.Time
	FinishedAt    time.Time
	CreatedAt     time.Time
}

func (BatchRun) TableName() string {
	return "batch_runs"
}
