// Package xdrcodec is the XDR codec adapter (C1): it opens a bucket file
// and yields a lazy, finite sequence of framed BucketEntry records, and
// decodes the individual top-level XDR types the rest of the pipeline
// needs (TransactionEnvelope, TransactionMeta, LedgerHeader, ContractEvent,
// ScVal) from either base64 text (catalog rows) or raw bytes (buckets).
//
// No decoding size limit is enforced by choice: the adapter trusts the
// node that wrote the bucket/catalog data, matching spec.md §4.1.
package xdrcodec

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"

	"github.com/stellar/go/xdr"

	"quasarindexer/internal/ingesterr"
)

// BucketReader yields the framed BucketEntry records of one bucket file,
// in file order. It is not restartable; open a fresh one to re-read.
type BucketReader struct {
	file   *os.File
	stream *xdr.Stream
}

// OpenBucketFile opens path and prepares it for framed BucketEntry
// decoding.
func OpenBucketFile(path string) (*BucketReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening bucket file %s: %v", ingesterr.ErrBucket, path, err)
	}
	return &BucketReader{file: f, stream: xdr.NewStream(f)}, nil
}

// Next decodes the next framed BucketEntry, returning io.EOF once the file
// is exhausted.
func (r *BucketReader) Next() (xdr.BucketEntry, error) {
	var entry xdr.BucketEntry
	if err := r.stream.ReadOne(&entry); err != nil {
		if err == io.EOF {
			return xdr.BucketEntry{}, io.EOF
		}
		return xdr.BucketEntry{}, fmt.Errorf("%w: reading framed bucket entry: %v", ingesterr.ErrDecode, err)
	}
	return entry, nil
}

// Close releases the underlying file handle.
func (r *BucketReader) Close() error {
	return r.file.Close()
}

type binaryUnmarshaler interface {
	UnmarshalBinary([]byte) error
}

func decodeBase64(s string, dst binaryUnmarshaler) error {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return fmt.Errorf("%w: invalid base64: %v", ingesterr.ErrDecode, err)
	}
	if err := dst.UnmarshalBinary(raw); err != nil {
		return fmt.Errorf("%w: invalid xdr: %v", ingesterr.ErrDecode, err)
	}
	return nil
}

func decodeBytes(raw []byte, dst binaryUnmarshaler) error {
	if err := dst.UnmarshalBinary(raw); err != nil {
		return fmt.Errorf("%w: invalid xdr: %v", ingesterr.ErrDecode, err)
	}
	return nil
}

// DecodeTransactionEnvelopeBase64 decodes a catalog `txhistory.txbody`
// column.
func DecodeTransactionEnvelopeBase64(s string) (xdr.TransactionEnvelope, error) {
	var env xdr.TransactionEnvelope
	err := decodeBase64(s, &env)
	return env, err
}

// DecodeTransactionMetaBase64 decodes a catalog `txhistory.txmeta` column.
func DecodeTransactionMetaBase64(s string) (xdr.TransactionMeta, error) {
	var meta xdr.TransactionMeta
	err := decodeBase64(s, &meta)
	return meta, err
}

// DecodeLedgerHeaderBase64 decodes a catalog `ledgerheaders.data` column.
func DecodeLedgerHeaderBase64(s string) (xdr.LedgerHeader, error) {
	var header xdr.LedgerHeader
	err := decodeBase64(s, &header)
	return header, err
}

// DecodeContractEvent decodes a raw-byte ContractEvent (e.g. one already
// extracted from a decoded TransactionMeta, or read directly off a
// bucket-adjacent stream).
func DecodeContractEvent(raw []byte) (xdr.ContractEvent, error) {
	var event xdr.ContractEvent
	err := decodeBytes(raw, &event)
	return event, err
}

// DecodeScVal decodes a raw-byte ScVal.
func DecodeScVal(raw []byte) (xdr.ScVal, error) {
	var val xdr.ScVal
	err := decodeBytes(raw, &val)
	return val, err
}
