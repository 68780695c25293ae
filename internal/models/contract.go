package models

import "time"

// Contract is one row per contract-data-bearing address (§4.5).
//
// Hash is populated from the ContractDataEntry's extension field, not the
// contract's code hash — this is a known-wrong stopgap preserved from the
// source implementation on purpose (see DESIGN.md, open question 3 in
// spec.md §9). Do not "fix" this without updating that decision record.
type Contract struct {
	Address      string // strkey, primary key
	Hash         string // base64 XDR of entry.Ext — NOT the code hash, see above
	Key          string // base64 XDR of the entry's storage key
	Type         string // durability tag, e.g. "ContractDataDurabilityPersistent"
	LastModified uint32
	CreatedAt    time.Time
}

// ContractSpec is the function-signature directory extracted from a
// contract's WASM code (§4.6).
type ContractSpec struct {
	Address      string // primary key
	Spec         FunctionSpec
	LastModified uint32
	CreatedAt    time.Time
}

// FunctionSpec wraps the ordered list of functions recovered from a
// contract's WASM custom spec section.
type FunctionSpec struct {
	Functions []Function `json:"functions"`
}

// Function describes one exported contract function.
type Function struct {
	Name   string                 `json:"name"`
	Docs   string                 `json:"docs"`
	Input  map[string]interface{} `json:"input"`
	Output map[string]interface{} `json:"output"`
}
