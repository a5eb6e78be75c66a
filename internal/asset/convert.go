package asset

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// HumanPrecision is the maximum number of fractional digits shown to users.
const HumanPrecision = 6

// ErrInvalidAmount is returned for amounts that are unparsable, not positive
// or too large to send.
var ErrInvalidAmount = errors.New("asset: amount must be a positive number")

// maxBaseUnitDigits is the number of decimal digits of the largest u64, the
// widest amount the quote API accepts.
const maxBaseUnitDigits = 20

// ToBaseUnits converts a human amount to integer base units, rounding half
// away from zero. The result can be zero when the amount is finer than the
// token precision.
func ToBaseUnits(human string, decimals uint8) (*big.Int, error) {
	s := strings.TrimSpace(human)
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, human)
	}
	if !d.IsPositive() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, human)
	}

	// Scientific notation lets a short string carry an int32 exponent, so
	// the magnitude is checked before any scaling happens.
	intDigits := int64(len(d.Coefficient().String())) + int64(d.Exponent()) + int64(decimals)
	if intDigits > maxBaseUnitDigits {
		return nil, fmt.Errorf("%w: %q out of range", ErrInvalidAmount, human)
	}
	if intDigits < 0 {
		// Below 0.1 base units.
		return big.NewInt(0), nil
	}

	raw := d.Shift(int32(decimals)).Round(0).BigInt()
	if raw.BitLen() > 64 {
		return nil, fmt.Errorf("%w: %q out of range", ErrInvalidAmount, human)
	}
	return raw, nil
}

// ToHuman renders base units with at most HumanPrecision fractional digits
// and no trailing zeros. Missing values and zero decimals render as "0".
func ToHuman(baseUnits *big.Int, decimals uint8) string {
	if baseUnits == nil || baseUnits.Sign() == 0 || decimals == 0 {
		return "0"
	}
	return decimal.NewFromBigInt(baseUnits, -int32(decimals)).Round(HumanPrecision).String()
}

// ToHumanGrouped is ToHuman with comma thousands separators.
func ToHumanGrouped(baseUnits *big.Int, decimals uint8) string {
	return GroupThousands(ToHuman(baseUnits, decimals))
}

// GroupThousands inserts comma separators into the integer part of a
// decimal string. The fraction is kept as written. Strings whose integer
// part is wider than a u64 are returned unchanged.
func GroupThousands(s string) string {
	sign, unsigned := "", s
	if strings.HasPrefix(s, "-") {
		sign, unsigned = "-", s[1:]
	}

	intPart, frac, hasFrac := strings.Cut(unsigned, ".")
	n, err := strconv.ParseUint(intPart, 10, 64)
	if err != nil {
		return s
	}

	grouped := sign + message.NewPrinter(language.English).Sprintf("%d", n)
	if hasFrac {
		return grouped + "." + frac
	}
	return grouped
}
