package asset

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// Common errors
var (
	ErrNilAsset       = errors.New("asset: nil asset")
	ErrNilRaw         = errors.New("asset: nil raw value")
	ErrNegativeAmount = errors.New("asset: negative amount")
	ErrAssetMismatch  = errors.New("asset: cannot operate on different assets")
)

// Amount is an immutable Value Object representing a quantity of a token.
// The raw value is always in base units (lamports for SOL).
type Amount struct {
	raw   *big.Int
	asset *Asset
}

// NewAmount creates a new Amount from a raw base-unit value.
func NewAmount(asset *Asset, raw *big.Int) Amount {
	if asset == nil {
		panic(ErrNilAsset)
	}
	if raw == nil {
		panic(ErrNilRaw)
	}
	if raw.Sign() < 0 {
		panic(ErrNegativeAmount)
	}

	return Amount{
		raw:   new(big.Int).Set(raw),
		asset: asset,
	}
}

// Zero creates a zero Amount for the given asset.
func Zero(asset *Asset) Amount {
	return NewAmount(asset, big.NewInt(0))
}

// ParseString converts user input into an Amount of asset using
// ToBaseUnits rounding.
func ParseString(asset *Asset, s string) (Amount, error) {
	if asset == nil {
		return Amount{}, ErrNilAsset
	}
	raw, err := ToBaseUnits(s, asset.Decimals())
	if err != nil {
		return Amount{}, err
	}
	return NewAmount(asset, raw), nil
}

// Raw returns a copy of the raw big.Int value.
func (a Amount) Raw() *big.Int {
	if a.raw == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(a.raw)
}

// Asset returns the token this amount is denominated in.
func (a Amount) Asset() *Asset {
	return a.asset
}

// IsZero returns true if the amount is zero.
func (a Amount) IsZero() bool {
	return a.raw == nil || a.raw.Sign() == 0
}

// Cmp compares two amounts of the same token.
func (a Amount) Cmp(b Amount) (int, error) {
	if err := a.checkSameAsset(b); err != nil {
		return 0, err
	}
	return a.raw.Cmp(b.raw), nil
}

// Equals returns true if both amounts are equal (same token and value).
func (a Amount) Equals(b Amount) bool {
	if !a.asset.Equals(b.asset) {
		return false
	}
	return a.Raw().Cmp(b.Raw()) == 0
}

// ToDecimal converts the amount to decimal.Decimal.
// This is a BOUNDARY function - use only for UI/display, not calculations.
func (a Amount) ToDecimal() decimal.Decimal {
	if a.raw == nil || a.asset == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(a.raw, -int32(a.asset.Decimals()))
}

// Human renders the amount the way it is shown to users.
func (a Amount) Human() string {
	if a.asset == nil {
		return "0"
	}
	return ToHuman(a.raw, a.asset.Decimals())
}

// String returns a human-readable representation (e.g., "1.5 SOL").
func (a Amount) String() string {
	if a.asset == nil {
		return "0 ???"
	}
	return fmt.Sprintf("%s %s", a.Human(), a.asset.Symbol())
}

func (a Amount) checkSameAsset(b Amount) error {
	if a.asset == nil || b.asset == nil {
		return ErrNilAsset
	}
	if !a.asset.Equals(b.asset) {
		return fmt.Errorf("%w: %s vs %s", ErrAssetMismatch, a.asset.Symbol(), b.asset.Symbol())
	}
	return nil
}
