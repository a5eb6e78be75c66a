// Package domain contains the swap mode and session state of the explorer.
package domain

import (
	"strings"

	"github.com/fd1az/swap-explorer/internal/apperror"
)

// SwapMode selects which side of the swap is the reference asset.
type SwapMode int

const (
	// TokenToReference sells a token for the reference asset.
	TokenToReference SwapMode = iota
	// ReferenceToToken buys a token with the reference asset.
	ReferenceToToken
)

func (m SwapMode) String() string {
	switch m {
	case TokenToReference:
		return "token_to_reference"
	case ReferenceToToken:
		return "reference_to_token"
	default:
		return "unknown"
	}
}

// Label renders the mode for display, e.g. "Token → SOL".
func (m SwapMode) Label(referenceSymbol string) string {
	if m == ReferenceToToken {
		return referenceSymbol + " → Token"
	}
	return "Token → " + referenceSymbol
}

// DefaultAmount is the amount a mode starts with.
func (m SwapMode) DefaultAmount() string {
	if m == ReferenceToToken {
		return "1"
	}
	return "1000"
}

// Toggle returns the other mode.
func (m SwapMode) Toggle() SwapMode {
	if m == ReferenceToToken {
		return TokenToReference
	}
	return ReferenceToToken
}

// ParseSwapMode accepts the String form of a mode. An empty string is
// TokenToReference.
func ParseSwapMode(s string) (SwapMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "token_to_reference":
		return TokenToReference, nil
	case "reference_to_token":
		return ReferenceToToken, nil
	default:
		return TokenToReference, apperror.New(apperror.CodeInvalidMode, apperror.WithContext(s))
	}
}
