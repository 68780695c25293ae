package ingest

import (
	"encoding/base64"
	"fmt"

	"github.com/stellar/go/strkey"
	"github.com/stellar/go/xdr"

	"quasarindexer/internal/ingesterr"
	"quasarindexer/internal/models"
)

// TransformContractData builds a Contract row from a ContractDataEntry
// (spec.md §4.5).
//
// Hash is populated from entry.Ext, the extension field — NOT the
// contract's actual code hash. This is a known-wrong stopgap preserved
// from the source on purpose; see DESIGN.md, open question 3, and the
// doc comment on models.Contract.
func TransformContractData(entry xdr.ContractDataEntry, lastModified uint32) (models.Contract, error) {
	if entry.Contract.Type != xdr.ScAddressTypeScAddressTypeContract || entry.Contract.ContractId == nil {
		return models.Contract{}, fmt.Errorf("%w: contract-data entry address is not a contract", ingesterr.ErrInvalidAddress)
	}
	contractID := *entry.Contract.ContractId
	address, err := strkey.Encode(strkey.VersionByteContract, contractID[:])
	if err != nil {
		return models.Contract{}, fmt.Errorf("%w: encoding contract address: %v", ingesterr.ErrDecode, err)
	}

	key, err := xdrBase64(entry.Key)
	if err != nil {
		return models.Contract{}, fmt.Errorf("%w: encoding storage key: %v", ingesterr.ErrDecode, err)
	}
	hash, err := xdrBase64(entry.Ext)
	if err != nil {
		return models.Contract{}, fmt.Errorf("%w: encoding extension field: %v", ingesterr.ErrDecode, err)
	}

	return models.Contract{
		Address:      address,
		Hash:         hash,
		Key:          key,
		Type:         entry.Durability.String(),
		LastModified: lastModified,
	}, nil
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
