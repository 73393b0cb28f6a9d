// Copyright (c) 2026 The StarLedger developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"

	"gitlab.com/starledger/stard/types/chainhash"
)

// PayloadTag discriminates the kinds of block payloads.
type PayloadTag byte

const (
	// TagGenesis marks the payload of the one genesis block.
	TagGenesis PayloadTag = iota

	// TagStarClaim marks a star registration payload.
	TagStarClaim
)

// genesisData is the fixed marker stored in the genesis block body.
const genesisData = "Genesis Block"

// Payload is the decoded body of a block.  It is a closed sum: the only
// implementations are GenesisPayload and StarClaim.
type Payload interface {
	tag() PayloadTag
}

// GenesisPayload is the payload of the genesis block.
type GenesisPayload struct {
	Data string `json:"data"`
}

func (GenesisPayload) tag() PayloadTag { return TagGenesis }

// StarClaim is a star registration bound to a verified wallet address.  Star
// is an opaque caller-supplied descriptor and is never interpreted beyond
// pass-through.
type StarClaim struct {
	Address   string          `json:"address"`
	Message   string          `json:"message"`
	Signature string          `json:"signature"`
	Star      json.RawMessage `json:"star"`
}

func (StarClaim) tag() PayloadTag { return TagStarClaim }

// Block is one entry of the append-only star ledger.  A block starts life
// with only its tag and body set; Seal assigns height, timestamp and
// predecessor link and locks in the content hash.  Once sealed a block must
// never be mutated.
type Block struct {
	// Height is the zero-based sequential position, assigned at append
	// time.
	Height int32

	// Timestamp is seconds since epoch, assigned at append time.
	Timestamp int64

	// PrevHash references the hash of the predecessor block.  It is nil
	// only for the genesis block.
	PrevHash *chainhash.Hash

	// Tag discriminates the body encoding.
	Tag PayloadTag

	// Body is the hex encoded JSON payload.
	Body string

	// Hash is the content digest over every other field, computed exactly
	// once by Seal.
	Hash chainhash.Hash

	sealed bool
}

// NewStarClaimBlock builds an unsealed block carrying the given claim.
func NewStarClaimBlock(claim StarClaim) (*Block, error) {
	return newBlock(TagStarClaim, claim)
}

// newGenesisBlock builds the unsealed genesis block.
func newGenesisBlock() *Block {
	block, err := newBlock(TagGenesis, GenesisPayload{Data: genesisData})
	if err != nil {
		// The genesis payload is a fixed struct; failing to encode it
		// is a code consistency issue.
		panic(AssertError("unable to encode genesis payload: " + err.Error()))
	}
	return block
}

func newBlock(tag PayloadTag, payload Payload) (*Block, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "unable to encode block payload")
	}

	return &Block{
		Height: -1,
		Tag:    tag,
		Body:   hex.EncodeToString(raw),
	}, nil
}

// Seal assigns the chain position fields and locks in the content hash.  It
// must be called exactly once per block; sealing twice is a programming error
// and panics.
func (b *Block) Seal(height int32, prevHash *chainhash.Hash, timestamp int64) {
	if b.sealed {
		panic(AssertError(fmt.Sprintf("block at height %d sealed twice", b.Height)))
	}

	b.Height = height
	b.Timestamp = timestamp
	if prevHash != nil {
		prev := *prevHash
		b.PrevHash = &prev
	}
	b.Hash = chainhash.DoubleHashH(b.hashPreimage())
	b.sealed = true
}

// Validate recomputes the content digest over the current field values and
// compares it to the stored hash.  It returns false when any field was
// altered after sealing.  It has no side effects.
func (b *Block) Validate() bool {
	return chainhash.DoubleHashH(b.hashPreimage()) == b.Hash
}

// DecodePayload decodes the block body into its structured payload.  It
// returns a RuleError with ErrDecode when the body is malformed.
func (b *Block) DecodePayload() (Payload, error) {
	raw, err := hex.DecodeString(b.Body)
	if err != nil {
		return nil, NewRuleError(ErrDecode,
			fmt.Sprintf("block %d body is not valid hex: %v", b.Height, err))
	}

	switch b.Tag {
	case TagGenesis:
		var payload GenesisPayload
		if err := json.Unmarshal(raw, &payload); err != nil {
			return nil, NewRuleError(ErrDecode,
				fmt.Sprintf("block %d genesis payload is malformed: %v", b.Height, err))
		}
		return payload, nil

	case TagStarClaim:
		var claim StarClaim
		if err := json.Unmarshal(raw, &claim); err != nil {
			return nil, NewRuleError(ErrDecode,
				fmt.Sprintf("block %d claim payload is malformed: %v", b.Height, err))
		}
		return claim, nil

	default:
		return nil, NewRuleError(ErrDecode,
			fmt.Sprintf("block %d has unknown payload tag %d", b.Height, b.Tag))
	}
}

// hashPreimage returns the canonical byte encoding of every block field
// except the hash itself.  The field order is fixed; any drift here breaks
// every stored hash.
func (b *Block) hashPreimage() []byte {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.BigEndian, b.Height)
	_ = binary.Write(&buf, binary.BigEndian, b.Timestamp)
	if b.PrevHash != nil {
		buf.Write(b.PrevHash[:])
	} else {
		buf.Write(chainhash.ZeroHash[:])
	}
	buf.WriteByte(byte(b.Tag))
	buf.WriteString(b.Body)
	return buf.Bytes()
}
