// Package dispatch implements C3: it consumes decoded bucket entries off
// the watcher channel, routes live entries to the matching C4/C5
// transform, and invokes transaction ingestion (C7) with the ledger sequence
// of every successfully routed account or contract-data entry, whether or
// not that ledger was already ingested.
package dispatch

import (
	"context"
	"log/slog"

	"github.com/stellar/go/xdr"

	"quasarindexer/internal/ingest"
	"quasarindexer/internal/metrics"
	"quasarindexer/internal/models"
	"quasarindexer/internal/watcher"
)

// Store is the subset of internal/storage.Repository the dispatcher
// writes through.
type Store interface {
	UpsertAccount(ctx context.Context, account models.Account) error
	UpsertContract(ctx context.Context, contract models.Contract) error
	IngestLedgerTransactions(ctx context.Context, ledgerSeq uint32) error
}

// Dispatcher routes decoded bucket entries to their storage-side handlers.
type Dispatcher struct {
	log   *slog.Logger
	store Store
	m     *metrics.Metrics
}

func New(log *slog.Logger, store Store, m *metrics.Metrics) *Dispatcher {
	return &Dispatcher{log: log, store: store, m: m}
}

// Run drains entries until the channel closes or ctx is done.
func (d *Dispatcher) Run(ctx context.Context, entries <-chan watcher.Entry) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-entries:
			if !ok {
				return
			}
			d.handle(ctx, e)
		}
	}
}

func (d *Dispatcher) handle(ctx context.Context, e watcher.Entry) {
	// d.m.IncLedgers() runs on the failure path below for the exact same
	// reason it runs on success in route(): the reference dispatcher
	// increments its one ledgers counter on ANY per-entry failure, not
	// just ledger-header failures, and spec.md §9 open question 1 asks us
	// to preserve that behavior (not split it into a separate counter).
	if err := d.route(ctx, e); err != nil {
		d.m.IncLedgers()
		d.log.Debug("dispatch failed", "file", e.SourceFile, "error", err)
	}
}

func (d *Dispatcher) route(ctx context.Context, e watcher.Entry) error {
	if e.Record.Type != xdr.BucketEntryTypeLiveentry && e.Record.Type != xdr.BucketEntryTypeInitentry {
		return nil
	}
	liveEntry := e.Record.LiveEntry
	if liveEntry == nil {
		return nil
	}

	lastModified := uint32(liveEntry.LastModifiedLedgerSeq)

	switch liveEntry.Data.Type {
	case xdr.LedgerEntryTypeAccount:
		account, err := ingest.TransformAccountFromBucket(*liveEntry.Data.Account, lastModified)
		if err != nil {
			return err
		}
		if err := d.store.UpsertAccount(ctx, account); err != nil {
			return err
		}
		d.m.IncAccounts()

	case xdr.LedgerEntryTypeContractData:
		contract, err := ingest.TransformContractData(*liveEntry.Data.ContractData, lastModified)
		if err != nil {
			return err
		}
		if err := d.store.UpsertContract(ctx, contract); err != nil {
			return err
		}
		d.m.IncContracts()

	default:
		d.log.Debug("skipping unhandled ledger entry type", "type", liveEntry.Data.Type.String())
		return nil
	}

	// C7 runs once per live entry carrying this ledger sequence, not once
	// per ledger — redundant re-ingestion across entries from the same
	// ledger, left as-is because every downstream write is an idempotent
	// upsert (spec.md §9, open question 5).
	if err := d.store.IngestLedgerTransactions(ctx, lastModified); err != nil {
		return err
	}
	d.m.IncLedgers()
	return nil
}
