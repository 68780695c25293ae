package ingest

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stellar/go/strkey"
	"github.com/stellar/go/xdr"

	"quasarindexer/internal/ingesterr"
)

func TestTransformContractData(t *testing.T) {
	var contractHash xdr.Hash
	for i := range contractHash {
		contractHash[i] = 4
	}
	wantAddress, err := strkey.Encode(strkey.VersionByteContract, contractHash[:])
	if err != nil {
		t.Fatalf("encoding fixture address: %v", err)
	}

	sym := xdr.ScSymbol("balance")
	entry := xdr.ContractDataEntry{
		Contract:   xdr.ScAddress{Type: xdr.ScAddressTypeScAddressTypeContract, ContractId: &contractHash},
		Key:        xdr.ScVal{Type: xdr.ScValTypeScvSymbol, Sym: &sym},
		Durability: xdr.ContractDataDurabilityPersistent,
	}

	contract, err := TransformContractData(entry, 42)
	if err != nil {
		t.Fatalf("TransformContractData() error = %v", err)
	}
	if contract.Address != wantAddress {
		t.Errorf("Address = %s, want %s", contract.Address, wantAddress)
	}
	if contract.LastModified != 42 {
		t.Errorf("LastModified = %d, want 42", contract.LastModified)
	}
	if _, err := base64.StdEncoding.DecodeString(contract.Key); err != nil {
		t.Errorf("Key is not valid base64: %v", err)
	}
}

func TestTransformContractDataRejectsNonContractAddress(t *testing.T) {
	var key xdr.Uint256
	entry := xdr.ContractDataEntry{
		Contract: xdr.ScAddress{
			Type:      xdr.ScAddressTypeScAddressTypeAccount,
			AccountId: &xdr.AccountId{Type: xdr.PublicKeyTypePublicKeyTypeEd25519, Ed25519: &key},
		},
	}

	_, err := TransformContractData(entry, 1)
	if !errors.Is(err, ingesterr.ErrInvalidAddress) {
		t.Fatalf("TransformContractData() error = %v, want ErrInvalidAddress", err)
	}
}
