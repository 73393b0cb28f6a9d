// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2026 The StarLedger developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package starutil

import (
	"bytes"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"golang.org/x/crypto/ripemd160"

	"gitlab.com/starledger/stard/types/chainhash"
)

// PubKeyHashAddrID is the magic byte prepended to a serialized public key
// hash to form a legacy pay-to-pubkey-hash address.
const PubKeyHashAddrID = 0x00

// ErrChecksumMismatch describes an error where decoding failed due to a bad
// checksum.
var ErrChecksumMismatch = errors.New("checksum mismatch")

// ErrUnknownAddressType describes an error where an address did not decode as
// a known address kind.
var ErrUnknownAddressType = errors.New("unknown address type")

// Hash160 calculates the hash ripemd160(sha256(b)).
func Hash160(buf []byte) []byte {
	h := ripemd160.New()
	h.Write(chainhash.HashB(buf))
	return h.Sum(nil)
}

// AddressPubKeyHash is a legacy base58check encoded address backed by the
// hash160 of a public key.  It is the address form wallets sign challenge
// messages with.
type AddressPubKeyHash struct {
	hash [ripemd160.Size]byte
}

// NewAddressPubKeyHash returns a new AddressPubKeyHash.  pkHash must be 20
// bytes.
func NewAddressPubKeyHash(pkHash []byte) (*AddressPubKeyHash, error) {
	if len(pkHash) != ripemd160.Size {
		return nil, errors.New("pkHash must be 20 bytes")
	}

	addr := &AddressPubKeyHash{}
	copy(addr.hash[:], pkHash)
	return addr, nil
}

// NewAddressFromPubKey derives the pay-to-pubkey-hash address of the given
// serialized public key.
func NewAddressFromPubKey(serializedPubKey []byte) (*AddressPubKeyHash, error) {
	return NewAddressPubKeyHash(Hash160(serializedPubKey))
}

// EncodeAddress returns the string encoding of a pay-to-pubkey-hash address.
func (a *AddressPubKeyHash) EncodeAddress() string {
	return checkEncode(a.hash[:], PubKeyHashAddrID)
}

// String returns a human-readable string for the address.  This is equivalent
// to calling EncodeAddress, but is provided so the type can be used as a
// fmt.Stringer.
func (a *AddressPubKeyHash) String() string {
	return a.EncodeAddress()
}

// Hash160 returns the underlying array of the pubkey hash.
func (a *AddressPubKeyHash) Hash160() *[ripemd160.Size]byte {
	return &a.hash
}

// DecodeAddress decodes the string encoding of an address and returns the
// corresponding AddressPubKeyHash.
func DecodeAddress(addr string) (*AddressPubKeyHash, error) {
	decoded, version, err := checkDecode(addr)
	if err != nil {
		return nil, err
	}
	if version != PubKeyHashAddrID {
		return nil, ErrUnknownAddressType
	}

	return NewAddressPubKeyHash(decoded)
}

// checksum computes the first four bytes of sha256^2(input).
func checksum(input []byte) (cksum [4]byte) {
	h2 := chainhash.DoubleHashB(input)
	copy(cksum[:], h2[:4])
	return
}

// checkEncode prepends a version byte and appends a four byte checksum.
func checkEncode(input []byte, version byte) string {
	b := make([]byte, 0, 1+len(input)+4)
	b = append(b, version)
	b = append(b, input...)
	cksum := checksum(b)
	b = append(b, cksum[:]...)
	return base58.Encode(b)
}

// checkDecode decodes a string that was encoded with checkEncode and verifies
// the checksum.
func checkDecode(input string) (result []byte, version byte, err error) {
	decoded, err := base58.Decode(input)
	if err != nil {
		return nil, 0, err
	}
	if len(decoded) < 5 {
		return nil, 0, ErrUnknownAddressType
	}
	version = decoded[0]
	var cksum [4]byte
	copy(cksum[:], decoded[len(decoded)-4:])
	expected := checksum(decoded[:len(decoded)-4])
	if !bytes.Equal(cksum[:], expected[:]) {
		return nil, 0, ErrChecksumMismatch
	}
	payload := decoded[1 : len(decoded)-4]
	result = append(result, payload...)
	return
}
