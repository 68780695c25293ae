// Package headeringest implements C10 (ledger headers) and the
// catalog-backed half of C7 (transaction ingestion): reading a node's
// Postgres catalog and writing the corresponding quasar rows.
package headeringest

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/stellar/go/xdr"

	"quasarindexer/internal/ingest"
	"quasarindexer/internal/metrics"
	"quasarindexer/internal/models"
	"quasarindexer/internal/storage"
	"quasarindexer/internal/txingest"
	"quasarindexer/internal/xdrcodec"
)

// Ingester bridges a read-only node catalog and the quasar write-side
// repository.
type Ingester struct {
	repo    *storage.Repository
	catalog *storage.NodeCatalog
	m       *metrics.Metrics
}

func New(repo *storage.Repository, catalog *storage.NodeCatalog, m *metrics.Metrics) *Ingester {
	return &Ingester{repo: repo, catalog: catalog, m: m}
}

// UpsertAccount and UpsertContract pass straight through to the
// underlying repository. They exist so an *Ingester alone can satisfy
// internal/dispatch.Store, keeping the dispatcher's dependency to a
// single object instead of threading both a repository and an ingester
// through the coordinator.
func (ig *Ingester) UpsertAccount(ctx context.Context, a models.Account) error {
	return ig.repo.UpsertAccount(ctx, a)
}

func (ig *Ingester) UpsertContract(ctx context.Context, c models.Contract) error {
	return ig.repo.UpsertContract(ctx, c)
}

// IngestLedgerTransactions ingests every transaction the catalog has
// recorded for ledgerSeq (C7). Called once per live bucket entry that
// names this ledger sequence (see internal/dispatch's open-question-5
// note) — always safe to call more than once, since every write below is
// an idempotent upsert/ON-CONFLICT-DO-NOTHING.
func (ig *Ingester) IngestLedgerTransactions(ctx context.Context, ledgerSeq uint32) error {
	rows, err := ig.catalog.TxHistoryForLedger(ctx, ledgerSeq)
	if err != nil {
		return err
	}

	for _, row := range rows {
		env, err := xdrcodec.DecodeTransactionEnvelopeBase64(row.TxBody)
		if err != nil {
			return fmt.Errorf("ledger %d tx %s: %w", ledgerSeq, row.TxID, err)
		}
		meta, err := xdrcodec.DecodeTransactionMetaBase64(row.TxMeta)
		if err != nil {
			return fmt.Errorf("ledger %d tx %s: %w", ledgerSeq, row.TxID, err)
		}

		tx, err := txingest.TransformTransaction(row.TxID, env, ledgerSeq, row.TxIndex)
		if err != nil {
			return fmt.Errorf("ledger %d tx %s: %w", ledgerSeq, row.TxID, err)
		}
		ops, err := txingest.TransformOperations(row.TxID, env)
		if err != nil {
			return fmt.Errorf("ledger %d tx %s: %w", ledgerSeq, row.TxID, err)
		}
		events, err := txingest.TransformEvents(row.TxID, meta)
		if err != nil {
			return fmt.Errorf("ledger %d tx %s: %w", ledgerSeq, row.TxID, err)
		}

		if err := ig.repo.InsertTransaction(ctx, tx, ops, events); err != nil {
			return err
		}
		ig.m.IncTransactions()
		ig.m.AddOperations(len(ops))
		ig.m.AddEvents(len(events))
	}
	return nil
}

// PollNext advances the polling-mode walk by exactly one ledger: it reads
// the next unseen ledgerheaders row, writes the ledgers row itself, then
// ingests the accounts/contract-data/contract-code/transactions the
// catalog recorded for that ledger — ledger-row insertion precedes the
// cascade it triggers, per spec.md §5's ordering guarantee. It reports
// ok=false once the catalog has nothing newer to offer.
func (ig *Ingester) PollNext(ctx context.Context) (ok bool, err error) {
	last, err := ig.repo.LastIngestedLedger(ctx)
	if err != nil {
		return false, err
	}

	header, found, err := ig.catalog.NextLedgerHeader(ctx, last)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}

	ledger, err := decodeLedger(header)
	if err != nil {
		return false, err
	}

	if err := ig.repo.InsertLedger(ctx, ledger); err != nil {
		return false, err
	}
	ig.m.IncLedgers()

	if err := ig.ingestAccounts(ctx, header.LedgerSeq); err != nil {
		return false, err
	}
	if err := ig.ingestContractData(ctx, header.LedgerSeq); err != nil {
		return false, err
	}
	if err := ig.ingestContractCode(ctx, header.LedgerSeq); err != nil {
		return false, err
	}
	if err := ig.IngestLedgerTransactions(ctx, header.LedgerSeq); err != nil {
		return false, err
	}

	return true, nil
}

func decodeLedger(row storage.LedgerHeaderRow) (models.Ledger, error) {
	header, err := xdrcodec.DecodeLedgerHeaderBase64(row.DataXDR)
	if err != nil {
		return models.Ledger{}, fmt.Errorf("ledger %d: %w", row.LedgerSeq, err)
	}
	return models.Ledger{
		Sequence:           row.LedgerSeq,
		Hash:               row.LedgerHash,
		PreviousLedgerHash: row.PrevHash,
		ProtocolVersion:    uint32(header.LedgerVersion),
		TotalCoins:         int64(header.TotalCoins),
		FeePool:            int64(header.FeePool),
		InflationSeq:       uint32(header.InflationSeq),
		IDPool:             uint64(header.IdPool),
		BaseFee:            uint32(header.BaseFee),
		BaseReserve:        uint32(header.BaseReserve),
		MaxTxSetSize:       uint32(header.MaxTxSetSize),
	}, nil
}

func (ig *Ingester) ingestAccounts(ctx context.Context, ledgerSeq uint32) error {
	rows, err := ig.catalog.AccountsModifiedAt(ctx, ledgerSeq)
	if err != nil {
		return err
	}
	for _, row := range rows {
		var inflationDest *string
		if row.InflationDest.Valid {
			inflationDest = &row.InflationDest.String
		}
		var buying, selling *int64
		if row.BuyingLiabilities.Valid {
			buying = &row.BuyingLiabilities.Int64
		}
		if row.SellingLiabilities.Valid {
			selling = &row.SellingLiabilities.Int64
		}
		thresholds, err := base64.StdEncoding.DecodeString(string(row.Thresholds))
		if err != nil {
			return fmt.Errorf("decoding thresholds base64 of account %s: %w", row.AccountID, err)
		}

		account, err := ingest.TransformAccountFromCatalog(ingest.CatalogAccountRow{
			AccountID:          row.AccountID,
			Balance:            row.Balance,
			SeqNum:             row.SeqNum,
			NumSubEntries:      row.NumSubEntries,
			InflationDest:      inflationDest,
			HomeDomain:         row.HomeDomain,
			Thresholds:         thresholds,
			BuyingLiabilities:  buying,
			SellingLiabilities: selling,
			LastModified:       row.LastModified,
		})
		if err != nil {
			return err
		}
		if err := ig.repo.UpsertAccount(ctx, account); err != nil {
			return err
		}
		ig.m.IncAccounts()
	}
	return nil
}

func (ig *Ingester) ingestContractData(ctx context.Context, ledgerSeq uint32) error {
	rows, err := ig.catalog.ContractDataModifiedAt(ctx, ledgerSeq)
	if err != nil {
		return err
	}
	for _, row := range rows {
		raw, err := base64.StdEncoding.DecodeString(row.EntryXDR)
		if err != nil {
			return fmt.Errorf("decoding contract data entry base64: %w", err)
		}
		var entry xdr.ContractDataEntry
		if err := entry.UnmarshalBinary(raw); err != nil {
			return fmt.Errorf("decoding contract data entry: %w", err)
		}

		contract, err := ingest.TransformContractData(entry, row.LastModified)
		if err != nil {
			return err
		}
		if err := ig.repo.UpsertContract(ctx, contract); err != nil {
			return err
		}
		ig.m.IncContracts()
	}
	return nil
}

func (ig *Ingester) ingestContractCode(ctx context.Context, ledgerSeq uint32) error {
	rows, err := ig.catalog.ContractCodeModifiedAt(ctx, ledgerSeq)
	if err != nil {
		return err
	}
	for _, row := range rows {
		spec, err := ingest.TransformContractSpec(row.Address, row.WASM, row.LastModified)
		if err != nil {
			return err
		}
		if err := ig.repo.UpsertContractSpec(ctx, spec); err != nil {
			return err
		}
	}
	return nil
}
