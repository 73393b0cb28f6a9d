// Copyright (c) 2026 The StarLedger developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package starutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressEncodeDecodeRoundTrip(t *testing.T) {
	kd, err := GenerateKeyData()
	require.NoError(t, err)

	encoded := kd.Address.EncodeAddress()
	decoded, err := DecodeAddress(encoded)
	require.NoError(t, err)
	assert.Equal(t, kd.Address.Hash160(), decoded.Hash160())
	assert.Equal(t, encoded, decoded.EncodeAddress())
}

func TestDecodeAddressRejectsCorruption(t *testing.T) {
	kd, err := GenerateKeyData()
	require.NoError(t, err)
	encoded := kd.Address.EncodeAddress()

	// Flipping a character breaks the checksum.
	corrupted := []byte(encoded)
	if corrupted[len(corrupted)-1] == 'a' {
		corrupted[len(corrupted)-1] = 'b'
	} else {
		corrupted[len(corrupted)-1] = 'a'
	}
	_, err = DecodeAddress(string(corrupted))
	assert.Error(t, err)

	_, err = DecodeAddress("")
	assert.Error(t, err)

	_, err = DecodeAddress("0OIl") // not in the base58 alphabet
	assert.Error(t, err)
}

func TestNewAddressPubKeyHashLength(t *testing.T) {
	_, err := NewAddressPubKeyHash(make([]byte, 19))
	assert.Error(t, err)

	_, err = NewAddressPubKeyHash(make([]byte, 20))
	assert.NoError(t, err)
}
