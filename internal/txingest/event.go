package txingest

import (
	"fmt"

	"github.com/stellar/go/strkey"
	"github.com/stellar/go/xdr"

	"quasarindexer/internal/ingesterr"
	"quasarindexer/internal/models"
	"quasarindexer/internal/scval"
)

// TransformEvents extracts the Soroban contract events recorded in one
// transaction's meta (spec.md §4.9).
//
// Only V3 transaction meta carries Soroban events; anything else yields no
// rows. Each event's first topic must decode to a Symbol (used as the
// events.topic column) and must carry a contract id — events failing
// either check are reported via ingesterr.ErrInvalidEvent rather than
// silently dropped, so the caller can decide whether to skip-and-log.
func TransformEvents(txID string, meta xdr.TransactionMeta) ([]models.Event, error) {
	if meta.V != 3 || meta.V3 == nil || meta.V3.SorobanMeta == nil {
		return nil, nil
	}

	raw := meta.V3.SorobanMeta.Events
	events := make([]models.Event, 0, len(raw))
	for i, ev := range raw {
		row, err := transformEvent(txID, ev)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		events = append(events, row)
	}
	return events, nil
}

func transformEvent(txID string, ev xdr.ContractEvent) (models.Event, error) {
	if ev.ContractId == nil {
		return models.Event{}, fmt.Errorf("%w: missing contract id", ingesterr.ErrInvalidEvent)
	}
	contractHash := *ev.ContractId
	contractID, err := strkey.Encode(strkey.VersionByteContract, contractHash[:])
	if err != nil {
		return models.Event{}, fmt.Errorf("%w: encoding contract id: %v", ingesterr.ErrInvalidEvent, err)
	}

	if ev.Body.Type != 0 || ev.Body.V0 == nil {
		return models.Event{}, fmt.Errorf("%w: unsupported event body version", ingesterr.ErrInvalidEvent)
	}
	body := ev.Body.V0
	if len(body.Topics) == 0 || body.Topics[0].Type != xdr.ScValTypeScvSymbol {
		return models.Event{}, fmt.Errorf("%w: first topic is not a symbol", ingesterr.ErrInvalidEvent)
	}
	topic := string(body.Topics[0].MustSym())

	value, err := scval.ToJSON(body.Data)
	if err != nil {
		return models.Event{}, fmt.Errorf("%w: converting event value: %v", ingesterr.ErrInvalidEvent, err)
	}

	return models.Event{
		TransactionID: txID,
		ContractID:    contractID,
		Topic:         topic,
		Value:         value,
		Type:          ev.Type.String(),
	}, nil
}
