package asset_test

import (
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/fd1az/swap-explorer/internal/asset"
	"github.com/shopspring/decimal"
)

func TestToBaseUnits(t *testing.T) {
	tests := []struct {
		name     string
		human    string
		decimals uint8
		want     string
	}{
		{"integer amount", "1000", 5, "100000000"},
		{"fractional SOL", "1.5", 9, "1500000000"},
		{"zero decimals", "42", 0, "42"},
		{"exponent notation", "1e3", 2, "100000"},
		{"surrounding spaces", " 2 ", 6, "2000000"},
		{"half rounds up", "0.000015", 5, "2"},
		{"half rounds away from zero", "0.000025", 5, "3"},
		{"below half rounds down", "0.0000149", 5, "1"},
		{"finer than precision", "0.0000001", 5, "0"},
		{"tiny exponent", "1e-100000000", 9, "0"},
		{"largest u64", "18446744073.709551615", 9, "18446744073709551615"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := asset.ToBaseUnits(tt.human, tt.decimals)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.String() != tt.want {
				t.Errorf("ToBaseUnits(%q, %d) = %s, want %s", tt.human, tt.decimals, got, tt.want)
			}
		})
	}
}

func TestToBaseUnits_Invalid(t *testing.T) {
	for _, in := range []string{"0", "-5", "abc", "", "   ", "0.0", "NaN", "1,000",
		"1e100000000", "18446744073.709551616", "99999999999999999999999"} {
		t.Run(in, func(t *testing.T) {
			_, err := asset.ToBaseUnits(in, 6)
			if !errors.Is(err, asset.ErrInvalidAmount) {
				t.Errorf("ToBaseUnits(%q) error = %v, want ErrInvalidAmount", in, err)
			}
		})
	}
}

func TestToBaseUnits_HugeExponentReturnsPromptly(t *testing.T) {
	done := make(chan error, 1)
	go func() {
		_, err := asset.ToBaseUnits("1e100000000", 9)
		done <- err
	}()

	select {
	case err := <-done:
		if !errors.Is(err, asset.ErrInvalidAmount) {
			t.Fatalf("error = %v, want ErrInvalidAmount", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("ToBaseUnits did not return for a huge exponent")
	}
}

func TestToHuman(t *testing.T) {
	tests := []struct {
		name     string
		raw      *big.Int
		decimals uint8
		want     string
	}{
		{"half SOL", big.NewInt(500000000), 9, "0.5"},
		{"nil base units", nil, 9, "0"},
		{"zero base units", big.NewInt(0), 9, "0"},
		{"zero decimals", big.NewInt(123), 0, "0"},
		{"exact six digits", big.NewInt(1234567), 6, "1.234567"},
		{"rounded to six digits", big.NewInt(1234567891), 9, "1.234568"},
		{"below display precision", big.NewInt(1), 9, "0"},
		{"trailing zeros trimmed", big.NewInt(1500000), 9, "0.0015"},
		{"whole number", big.NewInt(1000_00000), 5, "1000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := asset.ToHuman(tt.raw, tt.decimals); got != tt.want {
				t.Errorf("ToHuman(%v, %d) = %q, want %q", tt.raw, tt.decimals, got, tt.want)
			}
		})
	}
}

func TestToHumanGrouped(t *testing.T) {
	tests := []struct {
		raw      int64
		decimals uint8
		want     string
	}{
		{1234567_000000, 6, "1,234,567"},
		{1000_000000000, 9, "1,000"},
		{999_500000, 6, "999.5"},
		{12345678_123456, 6, "12,345,678.123456"},
	}

	for _, tt := range tests {
		if got := asset.ToHumanGrouped(big.NewInt(tt.raw), tt.decimals); got != tt.want {
			t.Errorf("ToHumanGrouped(%d, %d) = %q, want %q", tt.raw, tt.decimals, got, tt.want)
		}
	}

	maxU64, _ := new(big.Int).SetString("18446744073709551615", 10)
	if got := asset.ToHumanGrouped(maxU64, 0); got != "18,446,744,073,709,551,615" {
		t.Errorf("ToHumanGrouped(max u64) = %q", got)
	}
}

func TestGroupThousands(t *testing.T) {
	tests := map[string]string{
		"0":                     "0",
		"999":                   "999",
		"12345":                 "12,345",
		"-1234.5":               "-1,234.5",
		"1000000.000001":        "1,000,000.000001",
		"184467440737095516150": "184467440737095516150",
		"abc":                   "abc",
	}

	for in, want := range tests {
		if got := asset.GroupThousands(in); got != want {
			t.Errorf("GroupThousands(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestConversion_RoundTrip(t *testing.T) {
	amounts := []string{"1", "0.5", "123.25", "1000"}

	for d := uint8(2); d <= 18; d++ {
		for _, a := range amounts {
			raw, err := asset.ToBaseUnits(a, d)
			if err != nil {
				t.Fatalf("ToBaseUnits(%q, %d): %v", a, d, err)
			}
			back := decimal.RequireFromString(asset.ToHuman(raw, d))
			if !back.Equal(decimal.RequireFromString(a)) {
				t.Errorf("round trip %q at %d decimals gave %s", a, d, back)
			}
		}
	}
}

func TestAmount_ParseString(t *testing.T) {
	amt, err := asset.ParseString(asset.SOL, "1.5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if amt.Raw().Cmp(big.NewInt(1_500_000_000)) != 0 {
		t.Errorf("expected 1500000000 lamports, got %s", amt.Raw())
	}
	if amt.String() != "1.5 SOL" {
		t.Errorf("expected '1.5 SOL', got %q", amt.String())
	}

	if _, err := asset.ParseString(asset.SOL, "-1"); !errors.Is(err, asset.ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestAmount_CannotCompareDifferentAssets(t *testing.T) {
	oneSOL := asset.NewAmount(asset.SOL, big.NewInt(1e9))
	oneUSDC := asset.NewAmount(asset.USDC, big.NewInt(1e6))

	if _, err := oneSOL.Cmp(oneUSDC); !errors.Is(err, asset.ErrAssetMismatch) {
		t.Errorf("expected ErrAssetMismatch, got %v", err)
	}
	if oneSOL.Equals(oneUSDC) {
		t.Error("amounts of different tokens must not be equal")
	}
}

func TestPriceFromAmounts(t *testing.T) {
	in := asset.NewAmount(asset.BONK, big.NewInt(1000_00000))
	out := asset.NewAmount(asset.SOL, big.NewInt(500_000_000))

	price, err := asset.PriceFromAmounts(in, out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !price.Rate().Equal(decimal.RequireFromString("0.0005")) {
		t.Errorf("expected rate 0.0005, got %s", price.Rate())
	}
	if price.Pair() != "Bonk/SOL" {
		t.Errorf("unexpected pair %q", price.Pair())
	}
	if !price.Invert().Rate().Equal(decimal.NewFromInt(2000)) {
		t.Errorf("expected inverse 2000, got %s", price.Invert().Rate())
	}

	if _, err := asset.PriceFromAmounts(asset.Zero(asset.BONK), out); err == nil {
		t.Error("expected error for zero input")
	}
}
