// Package models holds the row shapes the indexer writes to the database.
package models

import "time"

// Ledger is one row per observed ledger header.
type Ledger struct {
	Hash               string // not a key column: the ledgers table has no unique constraint on hash
	PreviousLedgerHash string
	ProtocolVersion    uint32
	Sequence           uint32 // primary key of the ledgers table; inserts conflict on it
	TotalCoins         int64
	FeePool            int64
	InflationSeq       uint32
	IDPool             uint64
	BaseFee            uint32
	BaseReserve        uint32
	MaxTxSetSize       uint32
	CreatedAt          time.Time
}
