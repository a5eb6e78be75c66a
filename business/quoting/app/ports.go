// Package app contains port definitions for the quoting context.
package app

import (
	"context"

	"github.com/fd1az/swap-explorer/business/quoting/domain"
)

// RouteSource defines the interface for swap route aggregators.
type RouteSource interface {
	// FetchRoutes returns candidate routes in the aggregator's ranking
	// order. No routes is an empty slice, not an error.
	FetchRoutes(ctx context.Context, req domain.QuoteRequest) ([]domain.RouteCandidate, error)
}
