package user_test

import (
	"testing"

	domain "github.com/mohammadpnp/rendimientos-admin/internal/domain/user"
)

func TestNewRecordValid(t *testing.T) {
	t.Parallel()

	r, err := domain.NewRecord(2, " alice@example.com ", "secret1", "", "5551234567")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if r.Email != "alice@example.com" {
		t.Fatalf("unexpected email: %s", r.Email)
	}
	if r.DisplayName != "alice@example.com" {
		t.Fatalf("expected display name to default to email, got %s", r.DisplayName)
	}
	if r.RowNumber() != 2 {
		t.Fatalf("unexpected row: %d", r.RowNumber())
	}
}

func TestNewRecordInvalidEmail(t *testing.T) {
	t.Parallel()

	_, err := domain.NewRecord(2, "alice-at-example.com", "secret1", "Alice", "")
	if err == nil {
		t.Fatal("expected error")
	}
	if err != domain.ErrInvalidEmail {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
}

func TestNewRecordWeakPassword(t *testing.T) {
	t.Parallel()

	_, err := domain.NewRecord(2, "alice@example.com", "abc", "Alice", "")
	if err != domain.ErrWeakPassword {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
}

func TestUniqueKeyIgnoresCase(t *testing.T) {
	t.Parallel()

	a := domain.Record{Email: "Alice@Example.com"}
	b := domain.Record{Email: "alice@example.com "}
	if a.UniqueKey() != b.UniqueKey() {
		t.Fatalf("expected equal keys, got %q and %q", a.UniqueKey(), b.UniqueKey())
	}
}

func TestValidEmail(t *testing.T) {
	t.Parallel()

	cases := map[string]bool{
		"alice@example.com":   true,
		"a.b+c@sub.domain.mx": true,
		"alice@example":       false,
		"alice example@x.com": false,
		"":                    false,
	}
	for email, want := range cases {
		if got := domain.ValidEmail(email); got != want {
			t.Fatalf("ValidEmail(%q) = %v, want %v", email, got, want)
		}
	}
}
