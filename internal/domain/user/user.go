package user

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

const MinPasswordLength = 6

// MaxPasswordBytes is the longest password bcrypt will hash.
const MaxPasswordBytes = 72

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// NormalizeEmail is the form under which emails are compared and indexed.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Record is a user row that passed validation and is ready to be created.
type Record struct {
	Email       string
	Password    string
	DisplayName string
	PhoneNumber string
	Row         int
}

func (r Record) RowNumber() int {
	return r.Row
}

func (r Record) UniqueKey() string {
	return NormalizeEmail(r.Email)
}

func NewRecord(row int, email, password, displayName, phoneNumber string) (Record, error) {
	email = strings.TrimSpace(email)
	if !ValidEmail(email) {
		return Record{}, ErrInvalidEmail
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return Record{}, ErrWeakPassword
	}

	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = email
	}

	return Record{
		Email:       email,
		Password:    password,
		DisplayName: displayName,
		PhoneNumber: strings.TrimSpace(phoneNumber),
		Row:         row,
	}, nil
}

type User struct {
	ID          string
	Email       string
	DisplayName string
	PhoneNumber string
	CreatedAt   time.Time
}
