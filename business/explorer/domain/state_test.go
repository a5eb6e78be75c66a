package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	quoting "github.com/fd1az/swap-explorer/business/quoting/domain"
	"github.com/fd1az/swap-explorer/internal/apperror"
	"github.com/fd1az/swap-explorer/internal/asset"
)

var sampleRows = []quoting.DisplayRow{{DexLabels: "Orca", OutputAmountHuman: "0.5", PriceImpactText: "1.00%", PathText: "Addr→Addr"}}

func TestNewState_Defaults(t *testing.T) {
	s := NewState()
	assert.Equal(t, TokenToReference, s.Mode)
	assert.Equal(t, "1000", s.Amount)
	assert.Equal(t, "0.5", s.Threshold)
	assert.False(t, s.Loading)
	assert.Empty(t, s.TokenMint())
}

func TestReduce_ModeSelectedResetsFields(t *testing.T) {
	s := NewState()
	s = Reduce(s, TokenMintEdited{Mint: asset.MintBONK})
	s = Reduce(s, AmountEdited{Amount: "42"})
	s = Reduce(s, QuerySubmitted{})
	s = Reduce(s, QuerySucceeded{Seq: s.Seq, Rows: sampleRows, Alarm: true})
	require.True(t, s.HasResults())

	s = Reduce(s, ModeSelected{Mode: ReferenceToToken})
	assert.Equal(t, ReferenceToToken, s.Mode)
	assert.Equal(t, "1", s.Amount)
	assert.Empty(t, s.OutputMint)
	assert.Equal(t, asset.MintBONK, s.InputMint, "the other side is left alone")
	assert.Empty(t, s.Rows)
	assert.False(t, s.Alarm)
	assert.Empty(t, s.Error)

	s = Reduce(s, TokenMintEdited{Mint: asset.MintUSDC})
	assert.Equal(t, asset.MintUSDC, s.TokenMint())

	s = Reduce(s, ModeSelected{Mode: TokenToReference})
	assert.Equal(t, "1000", s.Amount)
	assert.Empty(t, s.InputMint)
	assert.Equal(t, asset.MintUSDC, s.OutputMint)
}

func TestReduce_ModeSelectedSupersedesInFlightQuery(t *testing.T) {
	s := Reduce(NewState(), QuerySubmitted{})
	inFlight := s.Seq
	require.True(t, s.Loading)

	s = Reduce(s, ModeSelected{Mode: ReferenceToToken})
	assert.False(t, s.Loading)

	s = Reduce(s, QuerySucceeded{Seq: inFlight, Rows: sampleRows, Alarm: true})
	assert.Empty(t, s.Rows)
	assert.False(t, s.Alarm)
}

func TestReduce_QueryLifecycle(t *testing.T) {
	s := Reduce(NewState(), QueryFailed{Seq: 0, Message: "old failure"})
	s = Reduce(s, QuerySubmitted{})
	assert.True(t, s.Loading)
	assert.Empty(t, s.Error)
	assert.Equal(t, uint64(1), s.Seq)

	s = Reduce(s, QuerySucceeded{Seq: 1, Rows: sampleRows, Alarm: true, BestRate: "1 USDC = 0.005 SOL"})
	assert.False(t, s.Loading)
	assert.Equal(t, sampleRows, s.Rows)
	assert.True(t, s.Alarm)
	assert.Equal(t, "1 USDC = 0.005 SOL", s.BestRate)

	s = Reduce(s, QuerySubmitted{})
	assert.Empty(t, s.Rows, "a new query clears the previous result")
	assert.False(t, s.Alarm)

	s = Reduce(s, QueryFailed{Seq: 2, Message: apperror.Message(apperror.CodeNoRouteFound)})
	assert.False(t, s.Loading)
	assert.Empty(t, s.Rows)
	assert.False(t, s.Alarm)
	assert.Equal(t, "No swap route found, the token may be illiquid", s.Error)
}

func TestReduce_StaleResultsAreDiscarded(t *testing.T) {
	s := Reduce(NewState(), QuerySubmitted{})
	first := s.Seq
	s = Reduce(s, QuerySubmitted{})

	before := s
	s = Reduce(s, QuerySucceeded{Seq: first, Rows: sampleRows, Alarm: true})
	assert.Equal(t, before, s)

	s = Reduce(s, QueryFailed{Seq: first, Message: "late"})
	assert.Equal(t, before, s)
	assert.True(t, s.Loading)
}

func TestReduce_DoesNotShareRows(t *testing.T) {
	rows := append([]quoting.DisplayRow(nil), sampleRows...)
	s := Reduce(NewState(), QuerySubmitted{})
	s = Reduce(s, QuerySucceeded{Seq: s.Seq, Rows: rows})

	rows[0].DexLabels = "mutated"
	assert.Equal(t, "Orca", s.Rows[0].DexLabels)
}

func TestReduce_EditsKeepResults(t *testing.T) {
	s := Reduce(NewState(), QuerySubmitted{})
	s = Reduce(s, QuerySucceeded{Seq: s.Seq, Rows: sampleRows})

	s = Reduce(s, ThresholdEdited{Threshold: "1.5"})
	s = Reduce(s, AmountEdited{Amount: "7"})
	assert.Equal(t, "1.5", s.Threshold)
	assert.Equal(t, "7", s.Amount)
	assert.Equal(t, sampleRows, s.Rows)
}

func TestParseSwapMode(t *testing.T) {
	tests := []struct {
		in      string
		want    SwapMode
		wantErr bool
	}{
		{"", TokenToReference, false},
		{"token_to_reference", TokenToReference, false},
		{" Reference_To_Token ", ReferenceToToken, false},
		{"sideways", TokenToReference, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSwapMode(tt.in)
			if tt.wantErr {
				assert.Equal(t, apperror.CodeInvalidMode, apperror.GetCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, mustParse(t, got.String()))
		})
	}
}

func mustParse(t *testing.T, s string) SwapMode {
	t.Helper()
	m, err := ParseSwapMode(s)
	require.NoError(t, err)
	return m
}

func TestSwapMode_Presentation(t *testing.T) {
	assert.Equal(t, "Token → SOL", TokenToReference.Label("SOL"))
	assert.Equal(t, "SOL → Token", ReferenceToToken.Label("SOL"))
	assert.Equal(t, ReferenceToToken, TokenToReference.Toggle())
	assert.Equal(t, TokenToReference, ReferenceToToken.Toggle())
}
