// Package storage is the indexer's write side: upserts into the quasar
// database via pgx/v5, grounded on the teacher's direct-SQL repository
// pattern (no ORM, no query builder). Node-catalog reads live in
// catalog.go, against a separate database/sql handle registered with the
// pgx/v5/stdlib driver — the node's own database is read-only to us and
// reached over a different connection string.
package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"quasarindexer/internal/ledger/retry"
	"quasarindexer/internal/models"
)

// Repository is the full read/write surface the coordinator and its
// sub-components use. Every write below runs through retryStrategy, the
// same ExponentialBackoffStrategy/NoRetryStrategy the teacher built for
// its own DB operations — safe here because every write is an idempotent
// upsert or ON-CONFLICT-DO-NOTHING insert (InsertTransaction retries as
// one unit: a failed attempt rolls back before any commit, so retrying it
// from scratch never double-writes).
type Repository struct {
	pool  *pgxpool.Pool
	retry retry.Strategy
}

func New(pool *pgxpool.Pool, strategy retry.Strategy) *Repository {
	return &Repository{pool: pool, retry: strategy}
}

// UpsertAccount writes an accounts row (spec.md §4.4). On conflict,
// thresholds are intentionally NOT updated — matching the reference's own
// ON CONFLICT column list, which never re-touches master_weight or the
// threshold_* columns after first insert.
func (r *Repository) UpsertAccount(ctx context.Context, a models.Account) error {
	const q = `
INSERT INTO accounts (
	account_id, balance, buying_liabilities, selling_liabilities,
	sequence_number, number_of_subentries, inflation_destination,
	home_domain, master_weight, threshold_low, threshold_medium,
	threshold_high, last_modified
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
ON CONFLICT (account_id) DO UPDATE SET
	last_modified = EXCLUDED.last_modified,
	balance = EXCLUDED.balance,
	buying_liabilities = EXCLUDED.buying_liabilities,
	selling_liabilities = EXCLUDED.selling_liabilities,
	home_domain = EXCLUDED.home_domain,
	inflation_destination = EXCLUDED.inflation_destination,
	number_of_subentries = EXCLUDED.number_of_subentries,
	sequence_number = EXCLUDED.sequence_number`

	err := r.retry.Execute(ctx, func() error {
		_, err := r.pool.Exec(ctx, q,
			a.ID, a.Balance, a.BuyingLiabilities, a.SellingLiabilities,
			a.SequenceNumber, a.NumberOfSubentries, a.InflationDest,
			a.HomeDomain, a.MasterWeight, a.ThresholdLow, a.ThresholdMedium,
			a.ThresholdHigh, a.LastModified,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("upserting account %s: %w", a.ID, err)
	}
	return nil
}

// UpsertContract writes a contract-data row (spec.md §4.5). address alone
// is the primary key — one row per contract-data-bearing address, last
// write wins when a contract has more than one storage key. hash carries
// the preserved entry.ext-derived value, not a real code hash — see
// models.Contract's doc comment.
func (r *Repository) UpsertContract(ctx context.Context, c models.Contract) error {
	const q = `
INSERT INTO contracts (address, hash, key, type, last_modified)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (address) DO UPDATE SET
	last_modified = EXCLUDED.last_modified,
	hash = EXCLUDED.hash,
	key = EXCLUDED.key,
	type = EXCLUDED.type`

	err := r.retry.Execute(ctx, func() error {
		_, err := r.pool.Exec(ctx, q, c.Address, c.Hash, c.Key, c.Type, c.LastModified)
		return err
	})
	if err != nil {
		return fmt.Errorf("upserting contract %s: %w", c.Address, err)
	}
	return nil
}

// UpsertContractSpec writes a contract_spec row (spec.md §4.6).
func (r *Repository) UpsertContractSpec(ctx context.Context, s models.ContractSpec) error {
	const q = `
INSERT INTO contract_spec (address, spec, last_modified)
VALUES ($1,$2,$3)
ON CONFLICT (address) DO UPDATE SET
	last_modified = EXCLUDED.last_modified,
	spec = EXCLUDED.spec`

	spec, err := json.Marshal(s.Spec)
	if err != nil {
		return fmt.Errorf("encoding contract spec %s: %w", s.Address, err)
	}

	err = r.retry.Execute(ctx, func() error {
		_, err := r.pool.Exec(ctx, q, s.Address, spec, s.LastModified)
		return err
	})
	if err != nil {
		return fmt.Errorf("upserting contract spec %s: %w", s.Address, err)
	}
	return nil
}

// InsertLedger writes a ledgers row (spec.md §3/§4.10). Ledgers are
// immutable once written, so this is a plain insert guarded by
// ON CONFLICT DO NOTHING rather than an upsert.
func (r *Repository) InsertLedger(ctx context.Context, l models.Ledger) error {
	const q = `
INSERT INTO ledgers (
	sequence, hash, previous_ledger_hash, protocol_version, total_coins,
	fee_pool, inflation_seq, id_pool, base_fee, base_reserve, max_tx_set_size
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
ON CONFLICT (sequence) DO NOTHING`

	err := r.retry.Execute(ctx, func() error {
		_, err := r.pool.Exec(ctx, q,
			l.Sequence, l.Hash, l.PreviousLedgerHash, l.ProtocolVersion, l.TotalCoins,
			l.FeePool, l.InflationSeq, l.IDPool, l.BaseFee, l.BaseReserve, l.MaxTxSetSize,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("inserting ledger %d: %w", l.Sequence, err)
	}
	return nil
}

// InsertTransaction writes a transactions row, its operations and its
// events as one atomic unit (spec.md §4.7/§4.8/§4.9): all three statement
// groups run inside a single pgx.Tx, matching the teacher's own
// tx.Begin/Rollback/Commit pattern for multi-statement writes
// (internal/storage/postgres.go). A partial failure leaves nothing
// behind for ON CONFLICT (id) DO NOTHING to mistake for "already
// ingested" on retry.
func (r *Repository) InsertTransaction(ctx context.Context, tx models.Transaction, ops []models.Operation, events []models.Event) error {
	err := r.retry.Execute(ctx, func() error {
		pgTx, err := r.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("beginning transaction insert for %s: %w", tx.ID, err)
		}
		defer pgTx.Rollback(ctx)

		const txq = `
INSERT INTO transactions (
	id, ledger_sequence, application_order, account_id, account_sequence, operation_count
) VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (id) DO NOTHING`

		tag, err := pgTx.Exec(ctx, txq,
			tx.ID, tx.LedgerSequence, tx.ApplicationOrder, tx.AccountID, tx.AccountSequence, tx.OperationCount,
		)
		if err != nil {
			return fmt.Errorf("inserting transaction %s: %w", tx.ID, err)
		}
		if tag.RowsAffected() == 0 {
			// Already ingested: its operations and events were committed
			// together with it, so nothing is written again.
			return nil
		}

		const opq = `
INSERT INTO operations (transaction_id, application_order, type)
VALUES ($1,$2,$3)
ON CONFLICT (transaction_id, application_order) DO NOTHING`

		for _, op := range ops {
			if _, err := pgTx.Exec(ctx, opq, op.TransactionID, op.ApplicationOrder, op.Type); err != nil {
				return fmt.Errorf("inserting operation %d of %s: %w", op.ApplicationOrder, tx.ID, err)
			}
		}

		const evq = `
INSERT INTO events (transaction_id, contract_id, topic, value, type)
VALUES ($1,$2,$3,$4,$5)`

		for _, ev := range events {
			value, err := json.Marshal(ev.Value)
			if err != nil {
				return fmt.Errorf("encoding event value for %s: %w", ev.TransactionID, err)
			}
			if _, err := pgTx.Exec(ctx, evq, ev.TransactionID, ev.ContractID, ev.Topic, value, ev.Type); err != nil {
				return fmt.Errorf("inserting event for %s: %w", ev.TransactionID, err)
			}
		}

		if err := pgTx.Commit(ctx); err != nil {
			return fmt.Errorf("committing transaction insert for %s: %w", tx.ID, err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("inserting transaction %s: %w", tx.ID, err)
	}
	return nil
}

// LastIngestedLedger returns the highest ledger sequence already written,
// or 0 if the ledgers table is empty.
func (r *Repository) LastIngestedLedger(ctx context.Context) (uint32, error) {
	var seq uint32
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(MAX(sequence), 0) FROM ledgers`).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("reading last ingested ledger: %w", err)
	}
	return seq, nil
}
