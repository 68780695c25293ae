package ingest

import (
	"fmt"

	"github.com/stellar/go/xdr"

	"quasarindexer/internal/models"
	"quasarindexer/internal/wasmspec"
)

// TransformContractSpec parses a ContractCode entry's WASM blob and builds
// the function-signature directory stored on the contract's address row
// (spec.md §4.6). Only FunctionV0 entries are kept; their order in the
// WASM spec section is preserved.
func TransformContractSpec(address string, wasm []byte, lastModified uint32) (models.ContractSpec, error) {
	entries, err := wasmspec.ReadSpecEntries(wasm)
	if err != nil {
		return models.ContractSpec{}, fmt.Errorf("parsing wasm contract spec: %w", err)
	}

	var functions []models.Function
	for _, entry := range entries {
		if entry.Type != xdr.ScSpecEntryKindScSpecEntryFunctionV0 {
			continue
		}
		fn := entry.MustFunctionV0()

		input := make(map[string]interface{}, len(fn.Inputs))
		for _, in := range fn.Inputs {
			input[string(in.Name)] = typeDefToJSON(in.Type)
		}
		output := make(map[string]interface{}, len(fn.Outputs))
		for i, out := range fn.Outputs {
			output[fmt.Sprintf("%d", i)] = typeDefToJSON(out)
		}

		functions = append(functions, models.Function{
			Name:   string(fn.Name),
			Docs:   string(fn.Doc),
			Input:  input,
			Output: output,
		})
	}

	return models.ContractSpec{
		Address:      address,
		Spec:         models.FunctionSpec{Functions: functions},
		LastModified: lastModified,
	}, nil
}

// typeDefToJSON renders an ScSpecTypeDef as an opaque JSON-friendly
// descriptor. The spec only requires that each parameter/return carry
// *some* structured description, not a canonical one, so this unwraps the
// handful of container types worth a human glance and otherwise falls
// back to the bare type tag.
func typeDefToJSON(t xdr.ScSpecTypeDef) interface{} {
	switch t.Type {
	case xdr.ScSpecTypeOption:
		opt := t.MustOption()
		return map[string]interface{}{"type": "option", "value_type": typeDefToJSON(opt.ValueType)}
	case xdr.ScSpecTypeResult:
		res := t.MustResult()
		return map[string]interface{}{
			"type":     "result",
			"ok_type":  typeDefToJSON(res.OkType),
			"err_type": typeDefToJSON(res.ErrorType),
		}
	case xdr.ScSpecTypeVec:
		vec := t.MustVec()
		return map[string]interface{}{"type": "vec", "element_type": typeDefToJSON(vec.ElementType)}
	case xdr.ScSpecTypeMap:
		m := t.MustMap()
		return map[string]interface{}{
			"type":      "map",
			"key_type":  typeDefToJSON(m.KeyType),
			"value_type": typeDefToJSON(m.ValueType),
		}
	case xdr.ScSpecTypeBytesN:
		bn := t.MustBytesN()
		return map[string]interface{}{"type": "bytesN", "n": uint32(bn.N)}
	case xdr.ScSpecTypeUdt:
		udt := t.MustUdt()
		return map[string]interface{}{"type": "udt", "name": string(udt.Name)}
	default:
		return t.Type.String()
	}
}
