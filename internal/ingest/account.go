// Package ingest holds the per-entity transforms for C4 (accounts) and C5
// (contract data): turning decoded XDR ledger-entry variants into the row
// shapes internal/storage writes.
package ingest

import (
	"fmt"

	"github.com/stellar/go/xdr"

	"quasarindexer/internal/models"
)

// TransformAccountFromBucket builds an Account row from a bucket-path
// AccountEntry (spec.md §4.4).
//
// last_modified is threaded through from the enclosing BucketEntry's
// LastModifiedLedgerSeq rather than hardcoded to zero. The reference
// implementation hardcodes zero here (it never threads the value through);
// source marks it TODO. See DESIGN.md, open question 2.
//
// buying_liabilities/selling_liabilities are left nil: modern account
// entries encode these in AccountEntryExtensionV1, which this transform
// does not walk.
func TransformAccountFromBucket(entry xdr.AccountEntry, lastModifiedLedgerSeq uint32) (models.Account, error) {
	thresholds, err := models.ParseThresholds(entry.Thresholds[:])
	if err != nil {
		return models.Account{}, err
	}

	var inflationDest *string
	if entry.InflationDest != nil {
		addr := entry.InflationDest.Address()
		inflationDest = &addr
	}

	return models.Account{
		ID:                 entry.AccountId.Address(),
		Balance:             int64(entry.Balance),
		BuyingLiabilities:  nil,
		SellingLiabilities: nil,
		SequenceNumber:     int64(entry.SeqNum),
		NumberOfSubentries: uint32(entry.NumSubEntries),
		InflationDest:      inflationDest,
		HomeDomain:         string(entry.HomeDomain),
		MasterWeight:       thresholds.Master,
		ThresholdLow:       thresholds.Low,
		ThresholdMedium:    thresholds.Medium,
		ThresholdHigh:      thresholds.High,
		LastModified:       lastModifiedLedgerSeq,
	}, nil
}

// CatalogAccountRow is the shape of one row of the node's `accounts`
// catalog table (spec.md §6.1): wide columns as typed Go values rather
// than base64-encoded XDR, matching how a relational driver would decode
// them.
type CatalogAccountRow struct {
	AccountID          string
	Balance            int64
	SeqNum             int64
	NumSubEntries      uint32
	InflationDest      *string
	HomeDomain         string
	Thresholds         []byte // raw bytes; must be exactly 4 long
	BuyingLiabilities  *int64
	SellingLiabilities *int64
	LastModified       uint32
}

// TransformAccountFromCatalog builds an Account row from a node-catalog
// accounts row (polling path). Unlike the bucket path, liabilities and
// last_modified are both carried through verbatim from the catalog row.
func TransformAccountFromCatalog(row CatalogAccountRow) (models.Account, error) {
	thresholds, err := models.ParseThresholds(row.Thresholds)
	if err != nil {
		return models.Account{}, fmt.Errorf("%w: account %s", err, row.AccountID)
	}

	return models.Account{
		ID:                 row.AccountID,
		Balance:             row.Balance,
		BuyingLiabilities:  row.BuyingLiabilities,
		SellingLiabilities: row.SellingLiabilities,
		SequenceNumber:     row.SeqNum,
		NumberOfSubentries: row.NumSubEntries,
		InflationDest:      row.InflationDest,
		HomeDomain:         row.HomeDomain,
		MasterWeight:       thresholds.Master,
		ThresholdLow:       thresholds.Low,
		ThresholdMedium:    thresholds.Medium,
		ThresholdHigh:      thresholds.High,
		LastModified:       row.LastModified,
	}, nil
}
