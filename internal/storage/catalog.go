package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
)

// NodeCatalog is a read-only view of a stellar-core node's own Postgres
// catalog (spec.md §6.1) — a different database than the quasar database
// Repository writes to, reached through database/sql + pgx/v5/stdlib
// rather than pgxpool, since this side never needs pooled transactional
// writes.
type NodeCatalog struct {
	db *sql.DB
}

// OpenNodeCatalog opens a database/sql handle against the node catalog
// database using connStr (a standard postgres:// URL).
func OpenNodeCatalog(connStr string) (*NodeCatalog, error) {
	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening node catalog: %w", err)
	}
	return &NodeCatalog{db: db}, nil
}

func (c *NodeCatalog) Close() error { return c.db.Close() }

// LedgerHeaderRow is one row of the node's ledgerheaders table.
type LedgerHeaderRow struct {
	LedgerSeq uint32
	LedgerHash string
	PrevHash   string
	DataXDR   string // base64-encoded LedgerHeader
}

// NextLedgerHeader returns the first ledgerheaders row with
// ledgerseq > afterSeq, ordered ascending, or ok=false if none exists yet
// (spec.md §4.10's polling-mode walk).
func (c *NodeCatalog) NextLedgerHeader(ctx context.Context, afterSeq uint32) (row LedgerHeaderRow, ok bool, err error) {
	const q = `SELECT ledgerseq, ledgerhash, prevhash, data FROM ledgerheaders WHERE ledgerseq > $1 ORDER BY ledgerseq ASC LIMIT 1`
	err = c.db.QueryRowContext(ctx, q, afterSeq).Scan(&row.LedgerSeq, &row.LedgerHash, &row.PrevHash, &row.DataXDR)
	if err == sql.ErrNoRows {
		return LedgerHeaderRow{}, false, nil
	}
	if err != nil {
		return LedgerHeaderRow{}, false, fmt.Errorf("reading next ledger header: %w", err)
	}
	return row, true, nil
}

// TxHistoryRow is one row of the node's txhistory table.
type TxHistoryRow struct {
	TxID    string
	TxIndex int32
	TxBody  string // base64-encoded TransactionEnvelope
	TxMeta  string // base64-encoded TransactionMeta
}

// TxHistoryForLedger returns every transaction recorded against
// ledgerSeq, ordered by txindex — the set C7 ingests for that ledger.
func (c *NodeCatalog) TxHistoryForLedger(ctx context.Context, ledgerSeq uint32) ([]TxHistoryRow, error) {
	const q = `SELECT txid, txindex, txbody, txmeta FROM txhistory WHERE ledgerseq = $1 ORDER BY txindex ASC`
	rows, err := c.db.QueryContext(ctx, q, ledgerSeq)
	if err != nil {
		return nil, fmt.Errorf("reading txhistory for ledger %d: %w", ledgerSeq, err)
	}
	defer rows.Close()

	var out []TxHistoryRow
	for rows.Next() {
		var r TxHistoryRow
		if err := rows.Scan(&r.TxID, &r.TxIndex, &r.TxBody, &r.TxMeta); err != nil {
			return nil, fmt.Errorf("scanning txhistory row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// AccountRow is one row of the node's accounts table (polling path).
type AccountRow struct {
	AccountID          string
	Balance            int64
	SeqNum             int64
	NumSubEntries      uint32
	InflationDest      sql.NullString
	HomeDomain         string
	Thresholds         []byte
	BuyingLiabilities  sql.NullInt64
	SellingLiabilities sql.NullInt64
	LastModified       uint32
}

// AccountsModifiedAt returns every accounts row with lastmodified =
// ledgerSeq — the catalog-path equivalent of a bucket's live Account
// entries for that ledger.
func (c *NodeCatalog) AccountsModifiedAt(ctx context.Context, ledgerSeq uint32) ([]AccountRow, error) {
	const q = `
SELECT accountid, balance, seqnum, numsubentries, inflationdest, homedomain,
       thresholds, buyingliabilities, sellingliabilities, lastmodified
FROM accounts WHERE lastmodified = $1`

	rows, err := c.db.QueryContext(ctx, q, ledgerSeq)
	if err != nil {
		return nil, fmt.Errorf("reading accounts modified at %d: %w", ledgerSeq, err)
	}
	defer rows.Close()

	var out []AccountRow
	for rows.Next() {
		var r AccountRow
		if err := rows.Scan(&r.AccountID, &r.Balance, &r.SeqNum, &r.NumSubEntries,
			&r.InflationDest, &r.HomeDomain, &r.Thresholds,
			&r.BuyingLiabilities, &r.SellingLiabilities, &r.LastModified); err != nil {
			return nil, fmt.Errorf("scanning account row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ContractDataRow is one row of the node's contractdata table (polling
// path); EntryXDR carries the entry's XDR as stored by the node.
type ContractDataRow struct {
	EntryXDR     string // base64-encoded ContractDataEntry
	LastModified uint32
}

// ContractDataModifiedAt returns every contractdata row with lastmodified
// = ledgerSeq.
func (c *NodeCatalog) ContractDataModifiedAt(ctx context.Context, ledgerSeq uint32) ([]ContractDataRow, error) {
	const q = `SELECT ledgerentry, lastmodified FROM contractdata WHERE lastmodified = $1`
	rows, err := c.db.QueryContext(ctx, q, ledgerSeq)
	if err != nil {
		return nil, fmt.Errorf("reading contract data modified at %d: %w", ledgerSeq, err)
	}
	defer rows.Close()

	var out []ContractDataRow
	for rows.Next() {
		var r ContractDataRow
		if err := rows.Scan(&r.EntryXDR, &r.LastModified); err != nil {
			return nil, fmt.Errorf("scanning contract data row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ContractCodeRow is one row of the node's contractcode table.
type ContractCodeRow struct {
	Address      string
	WASM         []byte
	LastModified uint32
}

// ContractCodeModifiedAt returns every contractcode row with lastmodified
// = ledgerSeq, feeding C6's WASM spec extraction.
func (c *NodeCatalog) ContractCodeModifiedAt(ctx context.Context, ledgerSeq uint32) ([]ContractCodeRow, error) {
	const q = `SELECT address, code, lastmodified FROM contractcode WHERE lastmodified = $1`
	rows, err := c.db.QueryContext(ctx, q, ledgerSeq)
	if err != nil {
		return nil, fmt.Errorf("reading contract code modified at %d: %w", ledgerSeq, err)
	}
	defer rows.Close()

	var out []ContractCodeRow
	for rows.Next() {
		var r ContractCodeRow
		if err := rows.Scan(&r.Address, &r.WASM, &r.LastModified); err != nil {
			return nil, fmt.Errorf("scanning contract code row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
