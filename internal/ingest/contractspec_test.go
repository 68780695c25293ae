package ingest

import (
	"testing"

	"github.com/stellar/go/xdr"
)

func TestTypeDefToJSONScalarFallsBackToTypeTag(t *testing.T) {
	got := typeDefToJSON(xdr.ScSpecTypeDef{Type: xdr.ScSpecTypeU32})
	want := xdr.ScSpecTypeU32.String()
	if got != want {
		t.Errorf("typeDefToJSON(U32) = %#v, want %q", got, want)
	}
}

func TestTypeDefToJSONVec(t *testing.T) {
	def := xdr.ScSpecTypeDef{
		Type: xdr.ScSpecTypeVec,
		Vec:  &xdr.ScSpecTypeVec{ElementType: xdr.ScSpecTypeDef{Type: xdr.ScSpecTypeU32}},
	}
	got, ok := typeDefToJSON(def).(map[string]interface{})
	if !ok {
		t.Fatalf("typeDefToJSON(Vec) = %#v, want map", typeDefToJSON(def))
	}
	if got["type"] != "vec" {
		t.Errorf(`got["type"] = %v, want "vec"`, got["type"])
	}
	if got["element_type"] != xdr.ScSpecTypeU32.String() {
		t.Errorf(`got["element_type"] = %v, want %q`, got["element_type"], xdr.ScSpecTypeU32.String())
	}
}
