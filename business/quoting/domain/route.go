// Package domain contains the core domain types for the quoting context.
package domain

import (
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/fd1az/swap-explorer/internal/apperror"
	"github.com/fd1az/swap-explorer/internal/asset"
)

// DefaultSlippage is the slippage sent with every quote request.
const DefaultSlippage = 1

// QuoteRequest is a validated request for swap routes.
type QuoteRequest struct {
	InputMint  asset.Mint
	OutputMint asset.Mint
	Amount     *big.Int // base units of the input token
	Slippage   int
}

// NewQuoteRequest builds a request, rejecting a non-positive amount.
func NewQuoteRequest(input, output asset.Mint, amount *big.Int, slippage int) (QuoteRequest, error) {
	if amount == nil || amount.Sign() <= 0 {
		return QuoteRequest{}, apperror.New(apperror.CodeInvalidAmount,
			apperror.WithContext("amount rounds to zero base units"))
	}
	return QuoteRequest{
		InputMint:  input,
		OutputMint: output,
		Amount:     new(big.Int).Set(amount),
		Slippage:   slippage,
	}, nil
}

// Hop is one market traversed by a route.
type Hop struct {
	Label      string
	InputMint  string
	OutputMint string
}

// RouteCandidate is one route returned by the aggregator.
type RouteCandidate struct {
	OutAmount   *big.Int        // base units of the output token
	PriceImpact decimal.Decimal // fraction, 0.01 means 1%
	Hops        []Hop
}

// Labels returns the market labels in hop order.
func (r RouteCandidate) Labels() []string {
	labels := make([]string, len(r.Hops))
	for i, h := range r.Hops {
		labels[i] = h.Label
	}
	return labels
}
