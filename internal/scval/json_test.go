package scval

import (
	"testing"

	"github.com/stellar/go/strkey"
	"github.com/stellar/go/xdr"
)

// TestToJSONSymbol is the §8 round-trip law:
// val_to_json(Symbol(s)) = {"symbol": s} for every valid UTF-8 symbol s.
func TestToJSONSymbol(t *testing.T) {
	cases := []string{"transfer", "mint", "a"}
	for _, s := range cases {
		sym := xdr.ScSymbol(s)
		got, err := ToJSON(xdr.ScVal{Type: xdr.ScValTypeScvSymbol, Sym: &sym})
		if err != nil {
			t.Fatalf("ToJSON(Symbol(%q)) error = %v", s, err)
		}
		want := map[string]interface{}{"symbol": s}
		m, ok := got.(map[string]interface{})
		if !ok || m["symbol"] != want["symbol"] {
			t.Errorf("ToJSON(Symbol(%q)) = %#v, want %#v", s, got, want)
		}
	}
}

// TestToJSONBoundedIntegers is the §8 round-trip law: for every bounded
// integer ScVal variant, val_to_json yields a numeric JSON value.
func TestToJSONBoundedIntegers(t *testing.T) {
	u32 := xdr.Uint32(7)
	got, err := ToJSON(xdr.ScVal{Type: xdr.ScValTypeScvU32, U32: &u32})
	if err != nil {
		t.Fatalf("ToJSON(U32) error = %v", err)
	}
	if got != xdr.Uint32(7) {
		t.Errorf("ToJSON(U32(7)) = %#v, want 7", got)
	}

	i64 := xdr.Int64(-5)
	got, err = ToJSON(xdr.ScVal{Type: xdr.ScValTypeScvI64, I64: &i64})
	if err != nil {
		t.Fatalf("ToJSON(I64) error = %v", err)
	}
	if got != xdr.Int64(-5) {
		t.Errorf("ToJSON(I64(-5)) = %#v, want -5", got)
	}

	i128 := xdr.Int128Parts{Hi: 0, Lo: 100}
	got, err = ToJSON(xdr.ScVal{Type: xdr.ScValTypeScvI128, I128: &i128})
	if err != nil {
		t.Fatalf("ToJSON(I128) error = %v", err)
	}
	m, ok := got.(map[string]interface{})
	if !ok || m["hi"] != int64(0) || m["low"] != uint64(100) {
		t.Errorf("ToJSON(I128{0,100}) = %#v, want {hi:0 low:100}", got)
	}
}

// TestToJSONAddressAccount covers the fix for spec.md §9 open question 4:
// an Address ScVal must encode to its strkey, not be lost to a
// debug-printed unit value.
func TestToJSONAddressAccount(t *testing.T) {
	var key xdr.Uint256
	for i := range key {
		key[i] = 3
	}
	wantAddress, err := strkey.Encode(strkey.VersionByteAccountID, key[:])
	if err != nil {
		t.Fatalf("encoding fixture address: %v", err)
	}

	addr := &xdr.ScAddress{
		Type:      xdr.ScAddressTypeScAddressTypeAccount,
		AccountId: &xdr.AccountId{Type: xdr.PublicKeyTypePublicKeyTypeEd25519, Ed25519: &key},
	}
	got, err := ToJSON(xdr.ScVal{Type: xdr.ScValTypeScvAddress, Address: addr})
	if err != nil {
		t.Fatalf("ToJSON(Address) error = %v", err)
	}
	m, ok := got.(map[string]interface{})
	if !ok || m["address"] != wantAddress {
		t.Errorf("ToJSON(Address) = %#v, want {address: %s}", got, wantAddress)
	}
}
