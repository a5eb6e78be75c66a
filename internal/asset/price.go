package asset

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RatePrecision is the number of fractional digits kept for rates.
const RatePrecision = 12

// Price is the effective exchange rate observed on a route: how many quote
// tokens one base token buys.
type Price struct {
	rate  decimal.Decimal
	base  *Asset
	quote *Asset
}

// NewPrice creates a price from a decimal rate.
func NewPrice(base, quote *Asset, rate decimal.Decimal) Price {
	if base == nil || quote == nil {
		panic("asset: nil base or quote in price")
	}
	if rate.IsNegative() {
		panic("asset: negative price rate")
	}
	return Price{rate: rate, base: base, quote: quote}
}

// PriceFromAmounts derives the rate implied by swapping in for out.
func PriceFromAmounts(in, out Amount) (Price, error) {
	if in.Asset() == nil || out.Asset() == nil {
		return Price{}, ErrNilAsset
	}
	if in.IsZero() {
		return Price{}, fmt.Errorf("asset: zero input amount for %s", in.Asset().Symbol())
	}
	rate := out.ToDecimal().DivRound(in.ToDecimal(), RatePrecision)
	return NewPrice(in.Asset(), out.Asset(), rate), nil
}

// Rate returns the price rate.
func (p Price) Rate() decimal.Decimal {
	return p.rate
}

// Base returns the base asset.
func (p Price) Base() *Asset {
	return p.base
}

// Quote returns the quote asset.
func (p Price) Quote() *Asset {
	return p.quote
}

// Pair returns the trading pair symbol (e.g., "BONK/SOL").
func (p Price) Pair() string {
	if p.base == nil || p.quote == nil {
		return "???/???"
	}
	return fmt.Sprintf("%s/%s", p.base.Symbol(), p.quote.Symbol())
}

// IsZero returns true if the price is zero.
func (p Price) IsZero() bool {
	return p.rate.IsZero()
}

// Invert returns the inverse price (e.g., BONK/SOL -> SOL/BONK).
func (p Price) Invert() Price {
	if p.IsZero() {
		return Price{rate: decimal.Zero, base: p.quote, quote: p.base}
	}
	return Price{
		rate:  decimal.NewFromInt(1).DivRound(p.rate, RatePrecision),
		base:  p.quote,
		quote: p.base,
	}
}

// String renders "1 BONK = 0.000000123 SOL".
func (p Price) String() string {
	if p.base == nil || p.quote == nil {
		return "n/a"
	}
	return fmt.Sprintf("1 %s = %s %s", p.base.Symbol(), p.rate.String(), p.quote.Symbol())
}
