package txingest

import (
	"errors"
	"testing"

	"github.com/stellar/go/xdr"

	"quasarindexer/internal/ingesterr"
)

func symbolScVal(s string) xdr.ScVal {
	sym := xdr.ScSymbol(s)
	return xdr.ScVal{Type: xdr.ScValTypeScvSymbol, Sym: &sym}
}

func i128ScVal(hi int64, lo uint64) xdr.ScVal {
	return xdr.ScVal{Type: xdr.ScValTypeScvI128, I128: &xdr.Int128Parts{Hi: xdr.Int64(hi), Lo: xdr.Uint64(lo)}}
}

func contractHash(seed byte) xdr.Hash {
	var h xdr.Hash
	for i := range h {
		h[i] = seed
	}
	return h
}

// TestTransformEventsNonV3 is the §8 boundary case: a TransactionMeta that
// is not V3 produces no event rows.
func TestTransformEventsNonV3(t *testing.T) {
	meta := xdr.TransactionMeta{V: 2}
	events, err := TransformEvents("tx-hash", meta)
	if err != nil {
		t.Fatalf("TransformEvents() error = %v", err)
	}
	if events != nil {
		t.Errorf("events = %v, want nil", events)
	}
}

// TestTransformEventsEmptyTopics is the §8 boundary case: an entry with an
// empty topics array produces no event row and records the failure.
func TestTransformEventsEmptyTopics(t *testing.T) {
	hash := contractHash(9)
	meta := xdr.TransactionMeta{
		V: 3,
		V3: &xdr.TransactionMetaV3{
			SorobanMeta: &xdr.SorobanTransactionMeta{
				Events: []xdr.ContractEvent{
					{
						ContractId: &hash,
						Type:       xdr.ContractEventTypeContract,
						Body: xdr.ContractEventBody{
							Type: 0,
							V0: &xdr.ContractEventBodyV0{
								Topics: nil,
								Data:   xdr.ScVal{},
							},
						},
					},
				},
			},
		},
	}

	_, err := TransformEvents("tx-hash", meta)
	if !errors.Is(err, ingesterr.ErrInvalidEvent) {
		t.Fatalf("TransformEvents() error = %v, want ErrInvalidEvent", err)
	}
}

// TestTransformEventsSuccess is the S6 end-to-end scenario.
func TestTransformEventsSuccess(t *testing.T) {
	hash := contractHash(7)
	meta := xdr.TransactionMeta{
		V: 3,
		V3: &xdr.TransactionMetaV3{
			SorobanMeta: &xdr.SorobanTransactionMeta{
				Events: []xdr.ContractEvent{
					{
						ContractId: &hash,
						Type:       xdr.ContractEventTypeContract,
						Body: xdr.ContractEventBody{
							Type: 0,
							V0: &xdr.ContractEventBodyV0{
								Topics: []xdr.ScVal{symbolScVal("transfer")},
								Data:   i128ScVal(0, 100),
							},
						},
					},
				},
			},
		},
	}

	events, err := TransformEvents("tx-hash", meta)
	if err != nil {
		t.Fatalf("TransformEvents() error = %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}
	ev := events[0]
	if ev.TransactionID != "tx-hash" {
		t.Errorf("TransactionID = %s, want tx-hash", ev.TransactionID)
	}
	if ev.Topic != "transfer" {
		t.Errorf("Topic = %s, want transfer", ev.Topic)
	}
	value, ok := ev.Value.(map[string]interface{})
	if !ok {
		t.Fatalf("Value = %#v, want map[string]interface{}", ev.Value)
	}
	if value["hi"] != int64(0) || value["low"] != uint64(100) {
		t.Errorf("Value = %#v, want {hi:0 low:100}", value)
	}
}
