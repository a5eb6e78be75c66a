// Package asset models Solana SPL tokens and their amounts.
// The core uses big.Int for exact on-chain representation.
// decimal.Decimal is only used at boundaries (UI, parsing, display).
package asset

import (
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
)

// MintLength is the size of a decoded Solana public key.
const MintLength = 32

// ErrInvalidMint is returned for strings that are not base58 public keys.
var ErrInvalidMint = errors.New("asset: invalid mint address")

// Mint is the base58 address of an SPL token mint.
// This is the TRUE identity of a token, not the symbol.
type Mint string

// ParseMint validates s as a base58-encoded 32-byte public key.
func ParseMint(s string) (Mint, error) {
	if s == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidMint)
	}
	raw, err := base58.Decode(s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidMint, err)
	}
	if len(raw) != MintLength {
		return "", fmt.Errorf("%w: decoded to %d bytes", ErrInvalidMint, len(raw))
	}
	return Mint(s), nil
}

// MustParseMint is ParseMint for package-level constants.
func MustParseMint(s string) Mint {
	m, err := ParseMint(s)
	if err != nil {
		panic(err)
	}
	return m
}

// IsValidMint reports whether s parses as a mint.
func IsValidMint(s string) bool {
	_, err := ParseMint(s)
	return err == nil
}

// Short returns the first n characters, used for compact route paths.
func (m Mint) Short(n int) string {
	return Prefix(string(m), n)
}

func (m Mint) String() string {
	return string(m)
}

// Prefix returns at most the first n bytes of s. Mint addresses are ASCII.
func Prefix(s string, n int) string {
	if n < 0 {
		n = 0
	}
	if len(s) <= n {
		return s
	}
	return s[:n]
}
