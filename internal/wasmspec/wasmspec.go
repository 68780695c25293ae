// Package wasmspec extracts a Soroban contract's function-signature table
// from the WASM custom section a compiler embeds alongside the contract
// code (the "contractspecv0" section).
//
// No library in the example corpus (or known ecosystem equivalent) reads
// WASM custom sections for this chain's contract-spec format, so this is a
// hand-written, stdlib-only binary scanner: a justified exception to the
// "always prefer a third-party library" rule documented in DESIGN.md.
package wasmspec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/stellar/go/xdr"
)

const (
	wasmMagic        = 0x6d736100 // "\0asm"
	wasmCustomSectID = 0
	specSectionName  = "contractspecv0"
)

// ReadSpecEntries parses a WASM module and returns the ordered ScSpecEntry
// values stored in its contractspecv0 custom section(s). A module with no
// such section yields an empty, non-error result — the caller decides
// whether that's acceptable.
func ReadSpecEntries(wasm []byte) ([]xdr.ScSpecEntry, error) {
	payload, err := extractSpecSection(wasm)
	if err != nil {
		return nil, err
	}
	if len(payload) == 0 {
		return nil, nil
	}
	return decodeSpecEntries(payload)
}

// extractSpecSection walks the WASM module's section table and
// concatenates the payloads of every custom section named
// "contractspecv0", in file order.
func extractSpecSection(wasm []byte) ([]byte, error) {
	r := bytes.NewReader(wasm)

	var header uint32
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("malformed wasm header: %w", err)
	}
	if header != wasmMagic {
		return nil, fmt.Errorf("not a wasm module: bad magic %#x", header)
	}
	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("malformed wasm header: %w", err)
	}

	var spec []byte
	for {
		sectionID, err := r.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading wasm section id: %w", err)
		}
		size, err := readVarUint(r)
		if err != nil {
			return nil, fmt.Errorf("reading wasm section size: %w", err)
		}
		body := make([]byte, size)
		if _, err := io.ReadFull(r, body); err != nil {
			return nil, fmt.Errorf("reading wasm section body: %w", err)
		}
		if sectionID != wasmCustomSectID {
			continue
		}
		name, rest, err := readCustomSectionName(body)
		if err != nil {
			return nil, fmt.Errorf("reading custom section name: %w", err)
		}
		if name == specSectionName {
			spec = append(spec, rest...)
		}
	}
	return spec, nil
}

func readCustomSectionName(body []byte) (name string, rest []byte, err error) {
	r := bytes.NewReader(body)
	n, err := readVarUint(r)
	if err != nil {
		return "", nil, err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", nil, err
	}
	remaining := body[len(body)-r.Len():]
	return string(buf), remaining, nil
}

// readVarUint reads a WASM-style unsigned LEB128 varint.
func readVarUint(r io.ByteReader) (uint64, error) {
	var result uint64
	var shift uint
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			break
		}
		shift += 7
		if shift > 63 {
			return 0, fmt.Errorf("varint too long")
		}
	}
	return result, nil
}

// decodeSpecEntries decodes a back-to-back sequence of XDR-encoded
// ScSpecEntry values with no outer framing, stopping cleanly at io.EOF.
func decodeSpecEntries(payload []byte) ([]xdr.ScSpecEntry, error) {
	r := bytes.NewReader(payload)
	decoder := xdr.NewDecoder(r)

	var entries []xdr.ScSpecEntry
	for r.Len() > 0 {
		var entry xdr.ScSpecEntry
		if _, err := decoder.Decode(&entry); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("decoding ScSpecEntry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
