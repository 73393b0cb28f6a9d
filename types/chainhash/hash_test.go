// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2026 The StarLedger developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainhash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashStringRoundTrip(t *testing.T) {
	hash := DoubleHashH([]byte("star registry"))

	parsed, err := NewHashFromStr(hash.String())
	require.NoError(t, err)
	assert.True(t, hash.IsEqual(parsed))
}

func TestNewHashFromStrErrors(t *testing.T) {
	// Too long.
	_, err := NewHashFromStr("0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef00")
	assert.Equal(t, ErrHashStrSize, err)

	// Not hex.
	_, err = NewHashFromStr("zz")
	assert.Error(t, err)

	// Short strings are zero padded.
	hash, err := NewHashFromStr("ff")
	require.NoError(t, err)
	assert.Equal(t, byte(0xff), hash[0])
	assert.Equal(t, make([]byte, HashSize-1), hash[1:])
}

func TestDoubleHashDeterministic(t *testing.T) {
	assert.Equal(t, DoubleHashH([]byte("a")), DoubleHashH([]byte("a")))
	assert.NotEqual(t, DoubleHashH([]byte("a")), DoubleHashH([]byte("b")))
	hash := DoubleHashH([]byte("a"))
	assert.Equal(t, DoubleHashB([]byte("a")), hash.CloneBytes())
}

func TestSetBytes(t *testing.T) {
	var hash Hash
	assert.Error(t, hash.SetBytes(make([]byte, 31)))
	require.NoError(t, hash.SetBytes(make([]byte, HashSize)))
	assert.True(t, hash.IsZero())
}
