package domain

import "time"

const (
	// Blockchain constants
	ETHEREUM_ZERO_ADDRESS = "0x0000000000000000000000000000000000000000"

	// SweepDelay is how long a tip balance must stay unclaimed before the
	// sweep recipient may claim it
	SweepDelay = 365 * 24 * time.Hour

	// MaxNoteLength bounds the note accepted by the ledger node's HTTP surface
	MaxNoteLength = 4096
)
