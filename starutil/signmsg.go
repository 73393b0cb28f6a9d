// Copyright (c) 2026 The StarLedger developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package starutil

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/pkg/errors"

	"gitlab.com/starledger/stard/types/chainhash"
)

// messageSignatureHeader is the magic prefix mixed into every signed
// challenge.  It matches the de facto wallet message-signing scheme, so
// signatures produced by standard wallet software verify here unchanged.
const messageSignatureHeader = "Bitcoin Signed Message:\n"

// MessageHash returns the double-sha256 digest of the message framed with the
// signature header.  Both the header and the message are length-prefixed with
// a compact varint.
func MessageHash(message string) []byte {
	var buf bytes.Buffer
	writeVarBytes(&buf, []byte(messageSignatureHeader))
	writeVarBytes(&buf, []byte(message))
	return chainhash.DoubleHashB(buf.Bytes())
}

// SignMessage signs the message with the given private key and returns the
// base64 encoded compact signature, recoverable to a compressed public key.
func SignMessage(privKey *btcec.PrivateKey, message string) (string, error) {
	sig, err := ecdsa.SignCompact(privKey, MessageHash(message), true)
	if err != nil {
		return "", errors.Wrap(err, "unable to sign message")
	}
	return base64.StdEncoding.EncodeToString(sig), nil
}

// VerifyMessage checks that signature is a valid signed-message signature
// over message, produced by the private key behind address.
//
// A malformed signature yields (false, err); a well-formed signature that
// does not authenticate the address yields (false, nil).  It never panics on
// attacker-controlled input.
func VerifyMessage(address, signature, message string) (bool, error) {
	sig, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false, errors.Wrap(err, "malformed base64 signature")
	}

	pubKey, wasCompressed, err := ecdsa.RecoverCompact(sig, MessageHash(message))
	if err != nil {
		return false, errors.Wrap(err, "unable to recover public key")
	}

	var serialized []byte
	if wasCompressed {
		serialized = pubKey.SerializeCompressed()
	} else {
		serialized = pubKey.SerializeUncompressed()
	}

	recovered, err := NewAddressFromPubKey(serialized)
	if err != nil {
		return false, err
	}

	return recovered.EncodeAddress() == address, nil
}

// writeVarBytes writes the compact varint length of b followed by b itself.
func writeVarBytes(buf *bytes.Buffer, b []byte) {
	writeVarInt(buf, uint64(len(b)))
	buf.Write(b)
}

// writeVarInt serializes val using the variable length encoding of the wire
// protocol.
func writeVarInt(buf *bytes.Buffer, val uint64) {
	switch {
	case val < 0xfd:
		buf.WriteByte(byte(val))
	case val <= 1<<16-1:
		buf.WriteByte(0xfd)
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], uint16(val))
		buf.Write(b[:])
	case val <= 1<<32-1:
		buf.WriteByte(0xfe)
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], uint32(val))
		buf.Write(b[:])
	default:
		buf.WriteByte(0xff)
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], val)
		buf.Write(b[:])
	}
}
