package asset

// MaxDecimals bounds what a token can declare before it is treated as junk.
const MaxDecimals = 30

// Asset is the metadata of an SPL token.
// It is a reference entity with stable identity (Mint).
// The symbol is NOT identity - just metadata for display.
type Asset struct {
	mint     Mint
	symbol   string
	name     string
	decimals uint8
}

// NewAsset creates a new Asset. A missing symbol falls back to the mint
// prefix so that catalog entries without metadata stay displayable.
func NewAsset(mint Mint, symbol string, decimals uint8) *Asset {
	if mint == "" {
		panic("asset: empty mint")
	}
	if decimals > MaxDecimals {
		panic("asset: suspicious decimals (>30)")
	}
	if symbol == "" {
		symbol = mint.Short(4)
	}

	return &Asset{
		mint:     mint,
		symbol:   symbol,
		decimals: decimals,
	}
}

// NewAssetWithName creates a new Asset with a human-readable name.
func NewAssetWithName(mint Mint, symbol, name string, decimals uint8) *Asset {
	a := NewAsset(mint, symbol, decimals)
	a.name = name
	return a
}

// Mint returns the token mint address.
func (a *Asset) Mint() Mint {
	return a.mint
}

// Symbol returns the ticker symbol (e.g., "SOL", "USDC").
func (a *Asset) Symbol() string {
	return a.symbol
}

// Name returns the human-readable name, or the symbol if none is known.
func (a *Asset) Name() string {
	if a.name == "" {
		return a.symbol
	}
	return a.name
}

// Decimals returns the number of decimal places.
func (a *Asset) Decimals() uint8 {
	return a.decimals
}

func (a *Asset) String() string {
	return a.symbol
}

// Equals compares two Assets by mint.
func (a *Asset) Equals(other *Asset) bool {
	if a == nil || other == nil {
		return a == other
	}
	return a.mint == other.mint
}
