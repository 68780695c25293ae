// Package txingest implements C7 (transactions), C8 (operations) and C9
// (events): decoding a catalog txhistory row's envelope/meta pair into the
// rows spec.md §4.7-§4.9 describe.
package txingest

import (
	"fmt"

	"github.com/stellar/go/strkey"
	"github.com/stellar/go/xdr"

	"quasarindexer/internal/ingesterr"
	"quasarindexer/internal/models"
)

// sourceAccount is the per-variant (source account, sequence number,
// operation list) triple every downstream step needs. For a fee-bump
// envelope, account_id comes from the outer bump.tx.fee_source (spec.md
// §4.7 step 1), while seqNum/ops still come from the inner transaction —
// the fee source pays the fee but isn't the inner transaction's author.
type sourceAccount struct {
	accountID string
	seqNum    int64
	ops       []xdr.Operation
}

func resolveSourceAccount(env xdr.TransactionEnvelope) (sourceAccount, error) {
	switch env.Type {
	case xdr.EnvelopeTypeEnvelopeTypeTxV0:
		if env.V0 == nil {
			return sourceAccount{}, fmt.Errorf("%w: v0 envelope missing body", ingesterr.ErrDecode)
		}
		id, err := strkey.Encode(strkey.VersionByteAccountID, env.V0.Tx.SourceAccountEd25519[:])
		if err != nil {
			return sourceAccount{}, fmt.Errorf("%w: encoding v0 source account: %v", ingesterr.ErrDecode, err)
		}
		return sourceAccount{
			accountID: id,
			seqNum:    int64(env.V0.Tx.SeqNum),
			ops:       env.V0.Tx.Operations,
		}, nil

	case xdr.EnvelopeTypeEnvelopeTypeTx:
		if env.V1 == nil {
			return sourceAccount{}, fmt.Errorf("%w: v1 envelope missing body", ingesterr.ErrDecode)
		}
		accID, err := env.V1.Tx.SourceAccount.ToAccountId()
		if err != nil {
			return sourceAccount{}, fmt.Errorf("%w: resolving v1 source account: %v", ingesterr.ErrDecode, err)
		}
		return sourceAccount{
			accountID: accID.Address(),
			seqNum:    int64(env.V1.Tx.SeqNum),
			ops:       env.V1.Tx.Operations,
		}, nil

	case xdr.EnvelopeTypeEnvelopeTypeTxFeeBump:
		if env.FeeBump == nil || env.FeeBump.Tx.InnerTx.V1 == nil {
			return sourceAccount{}, fmt.Errorf("%w: fee-bump envelope missing inner v1 body", ingesterr.ErrDecode)
		}
		feeSourceID, err := env.FeeBump.Tx.FeeSource.ToAccountId()
		if err != nil {
			return sourceAccount{}, fmt.Errorf("%w: resolving fee-bump fee source: %v", ingesterr.ErrDecode, err)
		}
		inner := env.FeeBump.Tx.InnerTx.V1.Tx
		return sourceAccount{
			accountID: feeSourceID.Address(),
			seqNum:    int64(inner.SeqNum),
			// spec.md §4.7 step 2 / §8 S5 fix the row count for a
			// fee-bump at exactly one operation regardless of how many
			// operations the inner transaction actually carries.
			ops: capToOne(inner.Operations),
		}, nil

	default:
		return sourceAccount{}, fmt.Errorf("%w: unsupported envelope type %s", ingesterr.ErrDecode, env.Type.String())
	}
}

// capToOne returns at most the first element of ops.
func capToOne(ops []xdr.Operation) []xdr.Operation {
	if len(ops) == 0 {
		return ops
	}
	return ops[:1]
}

// TransformTransaction builds the transactions row for one catalog
// txhistory record (spec.md §4.7). txID is the catalog's own txhistory.txid
// column (the hex transaction hash); this adapter never recomputes a
// transaction hash itself.
func TransformTransaction(txID string, env xdr.TransactionEnvelope, ledgerSequence uint32, applicationOrder int32) (models.Transaction, error) {
	src, err := resolveSourceAccount(env)
	if err != nil {
		return models.Transaction{}, err
	}

	return models.Transaction{
		ID:               txID,
		LedgerSequence:   ledgerSequence,
		ApplicationOrder: applicationOrder,
		AccountID:        src.accountID,
		AccountSequence:  src.seqNum,
		OperationCount:   int32(len(src.ops)),
	}, nil
}
