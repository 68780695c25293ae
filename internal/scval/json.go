// Package scval implements the canonical ScVal-to-JSON mapping used by the
// event ingester (spec.md §4.9). The table is transcribed from
// original_source/quasar_entities/src/event.rs's val_to_json, with one
// deliberate correction: the Address case. The original debug-prints the
// address and stores the resulting unit value, losing it entirely — a
// flagged defect (spec.md §9, open question 4). Here Address encodes to
// its proper strkey string.
package scval

import (
	"encoding/base64"
	"fmt"

	"github.com/stellar/go/strkey"
	"github.com/stellar/go/xdr"

	"quasarindexer/internal/ingesterr"
)

// ToJSON converts one ScVal into the JSON-serializable value stored in the
// events table's `value` column.
func ToJSON(val xdr.ScVal) (interface{}, error) {
	switch val.Type {
	case xdr.ScValTypeScvBool:
		return val.MustB(), nil

	case xdr.ScValTypeScvError:
		encoded, err := xdrBase64(val.MustError())
		if err != nil {
			return nil, fmt.Errorf("%w: encoding error value: %v", ingesterr.ErrDecode, err)
		}
		return map[string]interface{}{"error": encoded}, nil

	case xdr.ScValTypeScvU32:
		return val.MustU32(), nil
	case xdr.ScValTypeScvI32:
		return val.MustI32(), nil
	case xdr.ScValTypeScvU64:
		return val.MustU64(), nil
	case xdr.ScValTypeScvI64:
		return val.MustI64(), nil

	case xdr.ScValTypeScvTimepoint:
		return uint64(val.MustTimepoint()), nil
	case xdr.ScValTypeScvDuration:
		return uint64(val.MustDuration()), nil

	case xdr.ScValTypeScvU128:
		u := val.MustU128()
		return map[string]interface{}{"hi": uint64(u.Hi), "low": uint64(u.Lo)}, nil
	case xdr.ScValTypeScvI128:
		i := val.MustI128()
		return map[string]interface{}{"hi": int64(i.Hi), "low": uint64(i.Lo)}, nil

	case xdr.ScValTypeScvU256:
		u := val.MustU256()
		return map[string]interface{}{
			"hi_hi": uint64(u.HiHi), "hi_lo": uint64(u.HiLo),
			"lo_hi": uint64(u.LoHi), "lo_lo": uint64(u.LoLo),
		}, nil
	case xdr.ScValTypeScvI256:
		i := val.MustI256()
		return map[string]interface{}{
			"hi_hi": int64(i.HiHi), "hi_lo": uint64(i.HiLo),
			"lo_hi": uint64(i.LoHi), "lo_lo": uint64(i.LoLo),
		}, nil

	case xdr.ScValTypeScvBytes:
		encoded, err := xdrBase64(val.MustBytes())
		if err != nil {
			return nil, fmt.Errorf("%w: encoding bytes value: %v", ingesterr.ErrDecode, err)
		}
		return map[string]interface{}{"bytes_xdr": encoded}, nil

	case xdr.ScValTypeScvString:
		return string(val.MustStr()), nil

	case xdr.ScValTypeScvSymbol:
		return map[string]interface{}{"symbol": string(val.MustSym())}, nil

	case xdr.ScValTypeScvVec:
		if val.Vec == nil {
			return nil, nil
		}
		items := *val.MustVec()
		out := make([]interface{}, len(items))
		for i, item := range items {
			v, err := ToJSON(item)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil

	case xdr.ScValTypeScvMap:
		if val.Map == nil {
			return nil, nil
		}
		entries := *val.MustMap()
		// Preserve the source's shape: a JSON array of single-entry
		// objects, not a flat object — the key is rendered via ToJSON
		// and stringified, which can collide for non-scalar keys; that
		// mirrors the original's own behavior.
		out := make([]interface{}, len(entries))
		for i, entry := range entries {
			keyVal, err := ToJSON(entry.Key)
			if err != nil {
				return nil, err
			}
			valVal, err := ToJSON(entry.Val)
			if err != nil {
				return nil, err
			}
			out[i] = map[string]interface{}{fmt.Sprintf("%v", keyVal): valVal}
		}
		return out, nil

	case xdr.ScValTypeScvAddress:
		if val.Address == nil {
			return nil, nil
		}
		encoded, err := addressStrkey(*val.Address)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"address": encoded}, nil

	default:
		return nil, nil
	}
}

// addressStrkey renders an ScAddress as its strkey string, handling both
// the account and contract variants. This is the correction of the
// original's defect described in the package doc comment.
func addressStrkey(addr xdr.ScAddress) (string, error) {
	switch addr.Type {
	case xdr.ScAddressTypeScAddressTypeAccount:
		if addr.AccountId == nil {
			return "", fmt.Errorf("%w: address claims account type with no account id", ingesterr.ErrInvalidAddress)
		}
		ed25519 := addr.AccountId.Ed25519
		return strkey.Encode(strkey.VersionByteAccountID, ed25519[:])

	case xdr.ScAddressTypeScAddressTypeContract:
		if addr.ContractId == nil {
			return "", fmt.Errorf("%w: address claims contract type with no contract id", ingesterr.ErrInvalidAddress)
		}
		contractID := *addr.ContractId
		return strkey.Encode(strkey.VersionByteContract, contractID[:])

	default:
		return "", fmt.Errorf("%w: unsupported address type %s", ingesterr.ErrInvalidAddress, addr.Type.String())
	}
}

type binaryMarshaler interface {
	MarshalBinary() ([]byte, error)
}

func xdrBase64(v binaryMarshaler) (string, error) {
	raw, err := v.MarshalBinary()
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}
