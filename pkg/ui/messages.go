package ui

import (
	"github.com/fd1az/swap-explorer/business/explorer/app"
)

// Message types for TUI updates

// QueryResultMsg delivers the result of the query started with Seq.
type QueryResultMsg struct {
	Seq     uint64
	Outcome *app.Outcome
	Err     error
}

// CatalogStatusMsg is sent after the token list was loaded or reloaded.
type CatalogStatusMsg struct {
	Tokens    int
	Refreshed bool
	Err       error
}
