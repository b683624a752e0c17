package batch

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/xuri/excelize/v2"

	domain "github.com/mohammadpnp/rendimientos-admin/internal/domain/batch"
	"github.com/mohammadpnp/rendimientos-admin/internal/domain/user"
)

const dateLayout = "2006-01-02"

// Schema describes the columns of an entity and how a raw row becomes a
// typed record.
type Schema[T domain.Record] struct {
	Columns  Columns
	Validate func(row domain.RawRow) (T, domain.Violations)
}

// Rejection is a row that failed validation together with every violation
// found on it.
type Rejection struct {
	Row        int
	Violations domain.Violations
}

func validateRows[T domain.Record](rows []domain.RawRow, validate func(domain.RawRow) (T, domain.Violations)) ([]T, []Rejection) {
	valid := make([]T, 0, len(rows))
	var rejected []Rejection
	for _, row := range rows {
		record, violations := validate(row)
		if len(violations) > 0 {
			rejected = append(rejected, Rejection{Row: row.Number, Violations: violations})
			continue
		}
		valid = append(valid, record)
	}
	return valid, rejected
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		if name := field.Tag.Get("col"); name != "" {
			return name
		}
		return field.Name
	})
	if err := v.RegisterValidation("mailbox", func(fl validator.FieldLevel) bool {
		return user.ValidEmail(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// Coercer turns the loosely typed cells of one row into typed values,
// collecting a violation for every cell that does not fit instead of
// stopping at the first one.
type Coercer struct {
	row        domain.RawRow
	violations domain.Violations
}

func NewCoercer(row domain.RawRow) *Coercer {
	return &Coercer{row: row}
}

func (c *Coercer) Violations() domain.Violations {
	return c.violations
}

// Reject records a violation. Only the first violation of a field is kept.
func (c *Coercer) Reject(field, reason string) {
	if c.Rejected(field) {
		return
	}
	c.violations = append(c.violations, domain.FieldViolation{Field: field, Reason: reason})
}

func (c *Coercer) Rejected(field string) bool {
	for _, v := range c.violations {
		if v.Field == field {
			return true
		}
	}
	return false
}

// Check runs the struct-tag rules of a staging struct whose fields carry a
// `col` tag naming the source column.
func (c *Coercer) Check(staging any) {
	err := validate.Struct(staging)
	if err == nil {
		return
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		c.Reject("row", err.Error())
		return
	}
	for _, fe := range fieldErrs {
		c.Reject(fe.Field(), tagReason(fe))
	}
}

func tagReason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "mailbox":
		return "is not a valid email address"
	case "min":
		return fmt.Sprintf("too short: minimum %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("too long: maximum %s characters", fe.Param())
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return fmt.Sprintf("failed %s check", fe.Tag())
	}
}

func (c *Coercer) Text(field string) string {
	return c.row.Get(field)
}

// Float parses an optional numeric cell; an empty cell is zero.
func (c *Coercer) Float(field string) float64 {
	raw := c.row.Get(field)
	if raw == "" {
		return 0
	}
	value, ok := parseNumber(raw)
	if !ok {
		c.Reject(field, "must be a number")
		return 0
	}
	return value
}

// Amount parses a monetary cell that must be strictly positive. Empty cells
// are left to the required rule.
func (c *Coercer) Amount(field string) float64 {
	raw := c.row.Get(field)
	if raw == "" {
		return 0
	}
	value, ok := parseNumber(raw)
	if !ok {
		c.Reject(field, "must be a number")
		return 0
	}
	if value <= 0 {
		c.Reject(field, "must be greater than 0")
	}
	return value
}

func (c *Coercer) Int(field string) int {
	raw := c.row.Get(field)
	if raw == "" {
		return 0
	}
	value, ok := parseNumber(raw)
	if !ok || value != math.Trunc(value) || value < math.MinInt32 || value > math.MaxInt32 {
		c.Reject(field, "must be a whole number")
		return 0
	}
	return int(value)
}

// Date accepts YYYY-MM-DD or a spreadsheet serial date.
func (c *Coercer) Date(field string) time.Time {
	raw := c.row.Get(field)
	if raw == "" {
		return time.Time{}
	}
	value, ok := parseDate(raw)
	if !ok {
		c.Reject(field, "must be a valid date (YYYY-MM-DD)")
		return time.Time{}
	}
	return value
}

func parseNumber(raw string) (float64, bool) {
	cleaned := strings.TrimPrefix(strings.TrimSpace(raw), "$")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}

func parseDate(raw string) (time.Time, bool) {
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t, true
	}
	serial, err := strconv.ParseFloat(raw, 64)
	if err != nil || serial < 1 {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, false
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
}
