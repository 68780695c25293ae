package txingest

import (
	"testing"

	"github.com/stellar/go/strkey"
	"github.com/stellar/go/xdr"
)

func ed25519MuxedAccount(t *testing.T, seed byte) (xdr.MuxedAccount, string) {
	t.Helper()
	var key xdr.Uint256
	for i := range key {
		key[i] = seed
	}
	address, err := strkey.Encode(strkey.VersionByteAccountID, key[:])
	if err != nil {
		t.Fatalf("encoding fixture address: %v", err)
	}
	return xdr.MuxedAccount{Type: xdr.CryptoKeyTypeKeyTypeEd25519, Ed25519: &key}, address
}

func paymentOp() xdr.Operation {
	return xdr.Operation{Body: xdr.OperationBody{Type: xdr.OperationTypeOperationTypePayment}}
}

func TestResolveSourceAccountV1(t *testing.T) {
	muxed, wantAddress := ed25519MuxedAccount(t, 1)
	env := xdr.TransactionEnvelope{
		Type: xdr.EnvelopeTypeEnvelopeTypeTx,
		V1: &xdr.TransactionV1Envelope{
			Tx: xdr.Transaction{
				SourceAccount: muxed,
				SeqNum:        42,
				Operations:    []xdr.Operation{paymentOp(), paymentOp()},
			},
		},
	}

	src, err := resolveSourceAccount(env)
	if err != nil {
		t.Fatalf("resolveSourceAccount() error = %v", err)
	}
	if src.accountID != wantAddress {
		t.Errorf("accountID = %s, want %s", src.accountID, wantAddress)
	}
	if src.seqNum != 42 {
		t.Errorf("seqNum = %d, want 42", src.seqNum)
	}
	if len(src.ops) != 2 {
		t.Errorf("len(ops) = %d, want 2", len(src.ops))
	}
}

// TestResolveSourceAccountFeeBump covers spec.md §4.7 step 1 / S5: the
// fee-bump's account_id comes from the outer bump.tx.fee_source, never the
// inner transaction's own source account, and the inner transaction's
// operations are capped to exactly one regardless of how many it carries
// (§4.7 step 2, §8 boundary case).
func TestResolveSourceAccountFeeBump(t *testing.T) {
	feeSource, wantAddress := ed25519MuxedAccount(t, 1)
	innerSource, innerAddress := ed25519MuxedAccount(t, 2)
	if wantAddress == innerAddress {
		t.Fatal("fixture bug: fee source and inner source must differ")
	}

	env := xdr.TransactionEnvelope{
		Type: xdr.EnvelopeTypeEnvelopeTypeTxFeeBump,
		FeeBump: &xdr.FeeBumpTransactionEnvelope{
			Tx: xdr.FeeBumpTransaction{
				FeeSource: feeSource,
				InnerTx: xdr.FeeBumpTransactionInnerTx{
					Type: xdr.EnvelopeTypeEnvelopeTypeTx,
					V1: &xdr.TransactionV1Envelope{
						Tx: xdr.Transaction{
							SourceAccount: innerSource,
							SeqNum:        42,
							Operations:    []xdr.Operation{paymentOp(), paymentOp(), paymentOp()},
						},
					},
				},
			},
		},
	}

	src, err := resolveSourceAccount(env)
	if err != nil {
		t.Fatalf("resolveSourceAccount() error = %v", err)
	}
	if src.accountID != wantAddress {
		t.Errorf("accountID = %s, want fee source address %s (not inner source %s)", src.accountID, wantAddress, innerAddress)
	}
	if src.seqNum != 42 {
		t.Errorf("seqNum = %d, want 42 (inner tx's seq_num)", src.seqNum)
	}
	if len(src.ops) != 1 {
		t.Fatalf("len(ops) = %d, want exactly 1 regardless of the inner tx's 3 operations", len(src.ops))
	}
}

// TestTransformTransactionFeeBump is the S5 end-to-end scenario.
func TestTransformTransactionFeeBump(t *testing.T) {
	feeSource, wantAddress := ed25519MuxedAccount(t, 1)
	innerSource, _ := ed25519MuxedAccount(t, 2)

	env := xdr.TransactionEnvelope{
		Type: xdr.EnvelopeTypeEnvelopeTypeTxFeeBump,
		FeeBump: &xdr.FeeBumpTransactionEnvelope{
			Tx: xdr.FeeBumpTransaction{
				FeeSource: feeSource,
				InnerTx: xdr.FeeBumpTransactionInnerTx{
					Type: xdr.EnvelopeTypeEnvelopeTypeTx,
					V1: &xdr.TransactionV1Envelope{
						Tx: xdr.Transaction{
							SourceAccount: innerSource,
							SeqNum:        42,
							Operations:    []xdr.Operation{paymentOp()},
						},
					},
				},
			},
		},
	}

	tx, err := TransformTransaction("tx-hash", env, 100, 1)
	if err != nil {
		t.Fatalf("TransformTransaction() error = %v", err)
	}
	if tx.AccountID != wantAddress {
		t.Errorf("AccountID = %s, want %s", tx.AccountID, wantAddress)
	}
	if tx.AccountSequence != 42 {
		t.Errorf("AccountSequence = %d, want 42", tx.AccountSequence)
	}
	if tx.OperationCount != 1 {
		t.Errorf("OperationCount = %d, want 1", tx.OperationCount)
	}
}
