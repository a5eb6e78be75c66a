package domain

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fd1az/swap-explorer/internal/apperror"
)

// ParseThreshold reads a profit threshold in percent. Any number is
// accepted, including negative values and values above 100.
func ParseThreshold(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, apperror.New(apperror.CodeInvalidThreshold,
			apperror.WithContext(s), apperror.WithCause(err))
	}
	return d, nil
}
