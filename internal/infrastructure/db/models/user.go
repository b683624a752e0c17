package models

import "time"

type User struct {
	ID           string     `gorm:"type:uuid;primaryKey"`
	Email        string     `gorm:"size:320;not null;uniqueIndex"`
	DisplayName  string     `gorm:"size:255;not null"`
	PhoneNumber  string     `gorm:"size:32;not null;default:''"`
	PasswordHash string     `gorm:"type:text;not null"`
	Contracts    []Contract `gorm:"foreignKey:UserID"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (User) TableName() string {
	return "users"
}
