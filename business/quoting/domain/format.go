package domain

import (
	"strings"

	"github.com/fd1az/swap-explorer/internal/asset"
)

const mintPrefixLen = 4

// DisplayRow is the rendered form of one route.
type DisplayRow struct {
	DexLabels         string `json:"dexLabels"`
	OutputAmountHuman string `json:"outputAmount"`
	PriceImpactText   string `json:"priceImpact"`
	PathText          string `json:"path"`
}

// Format renders each candidate in order. outputDecimals scales the
// output amount.
func Format(candidates []RouteCandidate, outputDecimals uint8) []DisplayRow {
	rows := make([]DisplayRow, 0, len(candidates))
	for _, c := range candidates {
		rows = append(rows, DisplayRow{
			DexLabels:         strings.Join(c.Labels(), ", "),
			OutputAmountHuman: asset.ToHuman(c.OutAmount, outputDecimals),
			PriceImpactText:   c.PriceImpact.Mul(hundred).StringFixed(2) + "%",
			PathText:          pathText(c.Hops),
		})
	}
	return rows
}

func pathText(hops []Hop) string {
	parts := make([]string, len(hops))
	for i, h := range hops {
		parts[i] = asset.Prefix(h.InputMint, mintPrefixLen) + "→" + asset.Prefix(h.OutputMint, mintPrefixLen)
	}
	return strings.Join(parts, " → ")
}
