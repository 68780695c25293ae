package models

import "time"

// Transaction is one row per processed transaction envelope (§3, §4.7).
type Transaction struct {
	ID               string // transaction hash string, primary key
	LedgerSequence   uint32
	ApplicationOrder int32 // 1-based within its ledger (txhistory.txindex)
	AccountID        string
	AccountSequence  int64
	OperationCount   int32
	CreatedAt        time.Time
}

// Operation is one row per operation within a transaction (§4.8).
type Operation struct {
	ID               int64 // auto-assigned by the database
	TransactionID    string
	ApplicationOrder int32 // 1-based within its transaction
	Type             string
	CreatedAt        time.Time
}

// Event is one row per Soroban contract event emitted inside a
// transaction (§4.9).
type Event struct {
	ID            int64 // auto-assigned by the database
	TransactionID string
	ContractID    string
	Topic         string
	Value         interface{} // JSON-serializable value tree, see internal/scval
	Type          string
	CreatedAt     time.Time
}
