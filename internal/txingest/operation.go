package txingest

import (
	"github.com/stellar/go/xdr"

	"quasarindexer/internal/models"
)

// TransformOperations flattens one envelope's operation list into rows
// (spec.md §4.8). application_order is 1-based within the transaction.
//
// For a fee-bump envelope this yields exactly one row, drawn from the
// inner transaction's first operation — never the reference's empty list,
// and never more than one regardless of how many operations the inner
// transaction actually carries (spec.md §4.7 step 2, §8 S5). See
// resolveSourceAccount/capToOne in transaction.go.
func TransformOperations(txID string, env xdr.TransactionEnvelope) ([]models.Operation, error) {
	src, err := resolveSourceAccount(env)
	if err != nil {
		return nil, err
	}

	ops := make([]models.Operation, len(src.ops))
	for i, op := range src.ops {
		ops[i] = models.Operation{
			TransactionID:    txID,
			ApplicationOrder: int32(i + 1),
			Type:             op.Body.Type.String(),
		}
	}
	return ops, nil
}
