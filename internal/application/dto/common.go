package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"` // campo -> regla de validación incumplida
}

// DateLayout formato de fechas en query params (as_of).
const DateLayout = "2006-01-02"

// ParseAsOf acepta YYYY-MM-DD o RFC3339; vacío = def.
func ParseAsOf(s string, def time.Time) (time.Time, error) {
	if s == "" {
		return def, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse(DateLayout, s)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func decimalPtr(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}
