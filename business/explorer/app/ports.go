// Package app contains the query pipeline of the explorer.
package app

import (
	"context"

	tokens "github.com/fd1az/swap-explorer/business/tokens/domain"
)

// TokenResolver looks up catalog records by mint address.
type TokenResolver interface {
	Resolve(ctx context.Context, address string) (tokens.TokenInfo, error)
}
