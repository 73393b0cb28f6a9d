// Copyright (c) 2026 The StarLedger developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package starutil

import (
	"encoding/hex"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/pkg/errors"
)

// KeyData groups a private key with its pay-to-pubkey-hash address.
type KeyData struct {
	PrivateKey *btcec.PrivateKey
	Address    *AddressPubKeyHash
}

// NewKeyData builds a KeyData from a hex encoded private key.
func NewKeyData(privateKeyString string) (*KeyData, error) {
	privateKeyBytes, err := hex.DecodeString(privateKeyString)
	if err != nil {
		return nil, errors.Wrap(err, "unable to decode private key from hex")
	}

	privateKey, publicKey := btcec.PrivKeyFromBytes(privateKeyBytes)
	address, err := NewAddressFromPubKey(publicKey.SerializeCompressed())
	if err != nil {
		return nil, errors.Wrap(err, "unable to derive address")
	}

	return &KeyData{
		PrivateKey: privateKey,
		Address:    address,
	}, nil
}

// GenerateKeyData creates a fresh random key pair.
func GenerateKeyData() (*KeyData, error) {
	privateKey, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, errors.Wrap(err, "unable to generate private key")
	}

	address, err := NewAddressFromPubKey(privateKey.PubKey().SerializeCompressed())
	if err != nil {
		return nil, errors.Wrap(err, "unable to derive address")
	}

	return &KeyData{
		PrivateKey: privateKey,
		Address:    address,
	}, nil
}

// SerializePrivateKey returns the hex encoding of the private key, suitable
// for NewKeyData.
func (kd *KeyData) SerializePrivateKey() string {
	return hex.EncodeToString(kd.PrivateKey.Serialize())
}
