package models

import (
	"time"

	"quasarindexer/internal/ingesterr"
)

// Account is one row per account id (§4.4).
//
// BuyingLiabilities/SellingLiabilities are nil when ingested from a bucket
// file: modern account entries encode these inside AccountEntryExtensionV1,
// not the top-level AccountEntry, and the bucket-path transform does not
// walk the extension.
type Account struct {
	ID                 string // strkey, primary key
	Balance            int64
	BuyingLiabilities  *int64
	SellingLiabilities *int64
	SequenceNumber     int64
	NumberOfSubentries uint32
	InflationDest      *string
	HomeDomain         string
	MasterWeight       uint8
	ThresholdLow       uint8
	ThresholdMedium    uint8
	ThresholdHigh      uint8
	LastModified       uint32
	CreatedAt          time.Time
}

// Thresholds is the fixed four-byte [master, low, medium, high] layout an
// AccountEntry's thresholds field always carries. InvalidThresholds is
// returned when a threshold payload (only possible on the catalog path,
// where the node DB stores it as base64 text of any length) is not
// exactly four bytes long.
type Thresholds struct {
	Master uint8
	Low    uint8
	Medium uint8
	High   uint8
}

// ParseThresholds validates and splits a raw thresholds byte slice. The
// bucket-path XDR AccountEntry.Thresholds is always exactly four bytes
// (it is a fixed-size XDR array), so this can only fail for the catalog
// path's base64-decoded byte column.
func ParseThresholds(raw []byte) (Thresholds, error) {
	if len(raw) != 4 {
		return Thresholds{}, ingesterr.ErrInvalidThresholds
	}
	return Thresholds{Master: raw[0], Low: raw[1], Medium: raw[2], High: raw[3]}, nil
}
