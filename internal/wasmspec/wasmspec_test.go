package wasmspec

import (
	"bytes"
	"testing"
)

func TestReadVarUint(t *testing.T) {
	cases := []struct {
		name string
		in   []byte
		want uint64
	}{
		{"zero", []byte{0x00}, 0},
		{"single byte", []byte{0x7f}, 127},
		{"three bytes", []byte{0xe5, 0x8e, 0x26}, 624485},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := readVarUint(bytes.NewReader(c.in))
			if err != nil {
				t.Fatalf("readVarUint(%v) returned error: %v", c.in, err)
			}
			if got != c.want {
				t.Errorf("readVarUint(%v) = %d, want %d", c.in, got, c.want)
			}
		})
	}
}

func TestExtractSpecSectionBadMagic(t *testing.T) {
	_, err := extractSpecSection([]byte{0, 1, 2, 3, 1, 0, 0, 0})
	if err == nil {
		t.Fatal("expected an error for a non-wasm header, got nil")
	}
}

func TestReadSpecEntriesNoSpecSection(t *testing.T) {
	// magic + version, no sections at all.
	wasm := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}
	entries, err := ReadSpecEntries(wasm)
	if err != nil {
		t.Fatalf("ReadSpecEntries returned error: %v", err)
	}
	if entries != nil {
		t.Errorf("expected nil entries for a module with no spec section, got %v", entries)
	}
}

func TestReadCustomSectionName(t *testing.T) {
	// name length 4, name "test", followed by one payload byte.
	body := []byte{0x04, 't', 'e', 's', 't', 0xff}
	name, rest, err := readCustomSectionName(body)
	if err != nil {
		t.Fatalf("readCustomSectionName returned error: %v", err)
	}
	if name != "test" {
		t.Errorf("name = %q, want %q", name, "test")
	}
	if !bytes.Equal(rest, []byte{0xff}) {
		t.Errorf("rest = %v, want %v", rest, []byte{0xff})
	}
}
