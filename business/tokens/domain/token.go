// Package domain holds the token catalog model.
package domain

import (
	"fmt"

	"github.com/fd1az/swap-explorer/internal/asset"
)

// TokenInfo is the catalog record for one SPL token.
type TokenInfo struct {
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name,omitempty"`
	Decimals uint8  `json:"decimals"`
}

// Asset converts the record into a registry entry.
func (t TokenInfo) Asset() (*asset.Asset, error) {
	mint, err := asset.ParseMint(t.Address)
	if err != nil {
		return nil, err
	}
	if t.Decimals > asset.MaxDecimals {
		return nil, fmt.Errorf("token %s: %d decimals out of range", t.Address, t.Decimals)
	}
	return asset.NewAssetWithName(mint, t.Symbol, t.Name, t.Decimals), nil
}

// TokenInfoFromAsset is the inverse of Asset.
func TokenInfoFromAsset(a *asset.Asset) TokenInfo {
	return TokenInfo{
		Address:  a.Mint().String(),
		Symbol:   a.Symbol(),
		Name:     a.Name(),
		Decimals: a.Decimals(),
	}
}

// Catalog is the persisted form of the token list, keyed by address.
type Catalog map[string]TokenInfo

// NewCatalog indexes tokens by address. Later duplicates are ignored.
func NewCatalog(tokens []TokenInfo) Catalog {
	c := make(Catalog, len(tokens))
	for _, t := range tokens {
		if _, dup := c[t.Address]; dup {
			continue
		}
		c[t.Address] = t
	}
	return c
}

// Tokens returns the catalog entries in no particular order.
func (c Catalog) Tokens() []TokenInfo {
	out := make([]TokenInfo, 0, len(c))
	for _, t := range c {
		out = append(out, t)
	}
	return out
}
