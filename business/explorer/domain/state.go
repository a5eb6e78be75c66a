package domain

import (
	quoting "github.com/fd1az/swap-explorer/business/quoting/domain"
)

// DefaultThreshold is the profit threshold a session starts with.
const DefaultThreshold = "0.5"

// State is the explorer session as seen by the user. It is only changed
// through Reduce.
type State struct {
	Mode       SwapMode
	InputMint  string // edited in TokenToReference
	OutputMint string // edited in ReferenceToToken
	Amount     string
	Threshold  string

	// Seq identifies the current query. Results carrying another value
	// belong to a superseded query.
	Seq     uint64
	Loading bool

	Rows     []quoting.DisplayRow
	Alarm    bool
	BestRate string
	Error    string
}

// NewState returns the initial session state.
func NewState() State {
	return State{
		Mode:      TokenToReference,
		Amount:    TokenToReference.DefaultAmount(),
		Threshold: DefaultThreshold,
	}
}

// TokenMint returns the mint the user edits in the current mode.
func (s State) TokenMint() string {
	if s.Mode == ReferenceToToken {
		return s.OutputMint
	}
	return s.InputMint
}

// HasResults reports whether there are routes to show.
func (s State) HasResults() bool {
	return len(s.Rows) > 0
}

// Event is an input to Reduce.
type Event interface {
	isEvent()
}

// ModeSelected switches the swap direction.
type ModeSelected struct{ Mode SwapMode }

// TokenMintEdited replaces the mint of the non-reference side.
type TokenMintEdited struct{ Mint string }

// AmountEdited replaces the amount text.
type AmountEdited struct{ Amount string }

// ThresholdEdited replaces the profit threshold text.
type ThresholdEdited struct{ Threshold string }

// QuerySubmitted starts a new query.
type QuerySubmitted struct{}

// QuerySucceeded delivers the result of query Seq.
type QuerySucceeded struct {
	Seq      uint64
	Rows     []quoting.DisplayRow
	Alarm    bool
	BestRate string
}

// QueryFailed delivers the failure of query Seq.
type QueryFailed struct {
	Seq     uint64
	Message string
}

func (ModeSelected) isEvent()    {}
func (TokenMintEdited) isEvent() {}
func (AmountEdited) isEvent()    {}
func (ThresholdEdited) isEvent() {}
func (QuerySubmitted) isEvent()  {}
func (QuerySucceeded) isEvent()  {}
func (QueryFailed) isEvent()     {}

// Reduce applies ev to s and returns the new state. It has no side effects
// and never mutates s.
func Reduce(s State, ev Event) State {
	switch ev := ev.(type) {
	case ModeSelected:
		s.Mode = ev.Mode
		s.clearResults()
		s.Seq++
		s.Loading = false
		if ev.Mode == ReferenceToToken {
			s.OutputMint = ""
		} else {
			s.InputMint = ""
		}
		s.Amount = ev.Mode.DefaultAmount()

	case TokenMintEdited:
		if s.Mode == ReferenceToToken {
			s.OutputMint = ev.Mint
		} else {
			s.InputMint = ev.Mint
		}

	case AmountEdited:
		s.Amount = ev.Amount

	case ThresholdEdited:
		s.Threshold = ev.Threshold

	case QuerySubmitted:
		s.Seq++
		s.Loading = true
		s.clearResults()

	case QuerySucceeded:
		if ev.Seq != s.Seq {
			return s
		}
		s.Loading = false
		s.Rows = append([]quoting.DisplayRow(nil), ev.Rows...)
		s.Alarm = ev.Alarm
		s.BestRate = ev.BestRate
		s.Error = ""

	case QueryFailed:
		if ev.Seq != s.Seq {
			return s
		}
		s.Loading = false
		s.clearResults()
		s.Error = ev.Message
	}
	return s
}

func (s *State) clearResults() {
	s.Rows = nil
	s.Alarm = false
	s.BestRate = ""
	s.Error = ""
}
