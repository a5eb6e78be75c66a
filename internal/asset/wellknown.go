package asset

// Well-known mints on Solana mainnet.
const (
	MintSOL  = "So11111111111111111111111111111111111111112"
	MintUSDC = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	MintUSDT = "Es9vMFrzaCERmJfrF81KjrCGX5TwZS9DsQnCEXnJ6Vx8"
	MintBONK = "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263"
)

// Well-known Assets (pre-created instances)
var (
	SOL  = NewAssetWithName(MustParseMint(MintSOL), "SOL", "Wrapped SOL", 9)
	USDC = NewAssetWithName(MustParseMint(MintUSDC), "USDC", "USD Coin", 6)
	USDT = NewAssetWithName(MustParseMint(MintUSDT), "USDT", "USDT", 6)
	BONK = NewAssetWithName(MustParseMint(MintBONK), "Bonk", "Bonk", 5)
)

// WellKnown returns the pre-created assets, SOL first.
func WellKnown() []*Asset {
	return []*Asset{SOL, USDC, USDT, BONK}
}
