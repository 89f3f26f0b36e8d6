package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/almacen-api/internal/domain"
)

// DateLayout formato de fechas en la API.
const DateLayout = "2006-01-02"

// ParseDate interpreta YYYY-MM-DD (o RFC3339). Cadena vacía → nil.
func ParseDate(field, s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return &t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	return nil, fmt.Errorf("%w: %s debe tener formato YYYY-MM-DD", domain.ErrInvalidInput, field)
}
