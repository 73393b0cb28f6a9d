// Copyright (c) 2026 The StarLedger developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"gitlab.com/starledger/stard/types/chainhash"
)

// TimeSource provides the clock used to timestamp blocks and to judge
// challenge expiry.  It exists so tests can pin time.
type TimeSource interface {
	// Now returns the current time.
	Now() time.Time
}

type systemTimeSource struct{}

func (systemTimeSource) Now() time.Time { return time.Now() }

// SystemTimeSource returns a TimeSource backed by the wall clock.
func SystemTimeSource() TimeSource { return systemTimeSource{} }

// IndexManager provides a generic interface that is called when blocks are
// committed to the chain for the purpose of supporting optional external
// indexes, such as the block archive.
type IndexManager interface {
	// ConnectBlock is invoked when a new block has been committed.  The
	// block is sealed and must be treated as immutable.
	ConnectBlock(block *Block) error
}

// Config is a descriptor which specifies the chain instance configuration.
type Config struct {
	// TimeSource defines the time source used to timestamp appended
	// blocks.
	//
	// This field is required.
	TimeSource TimeSource

	// IndexManager defines an index manager to notify about committed
	// blocks.
	//
	// This field can be nil if the caller does not wish to make use of an
	// index manager.
	IndexManager IndexManager
}

// Chain owns the append-only ordered sequence of blocks.  All mutation goes
// through Initialize and Append, which serialize on the chain lock; the query
// methods take the lock shared and only ever observe committed state.
type Chain struct {
	// chainLock protects the block sequence.  The whole
	// read-link-seal-validate-commit sequence of an append runs under the
	// exclusive lock, so two concurrent appends can never both cite the
	// same predecessor.
	chainLock sync.RWMutex
	blocks    []*Block

	timeSource   TimeSource
	indexManager IndexManager
}

// New returns a Chain instance using the provided configuration details.
// The chain starts empty; call Initialize to create the genesis block.
func New(config *Config) (*Chain, error) {
	if config.TimeSource == nil {
		return nil, AssertError("ledger.New timesource is nil")
	}

	return &Chain{
		timeSource:   config.TimeSource,
		indexManager: config.IndexManager,
	}, nil
}

// Initialize appends the genesis block to an empty chain.  Calling it again
// once the chain is non-empty is a no-op.
func (c *Chain) Initialize() error {
	c.chainLock.Lock()
	defer c.chainLock.Unlock()

	if len(c.blocks) != 0 {
		return nil
	}

	genesis, err := c.appendBlock(newGenesisBlock())
	if err != nil {
		return err
	}

	log.Info().Msgf("Chain initialized (genesis hash %v)", genesis.Hash)
	return nil
}

// Height returns the height of the chain tip, or -1 when the chain is empty.
func (c *Chain) Height() int32 {
	c.chainLock.RLock()
	defer c.chainLock.RUnlock()

	return int32(len(c.blocks)) - 1
}

// Append links the candidate block to the current tip, seals it, re-validates
// the chain with the candidate included, and commits.  On any validation
// failure the chain is left exactly as it was and a RuleError with
// ErrChainInvalid is returned.
//
// Appending to a chain that was never initialized creates the genesis block
// first, so a claim can never land at height 0.
func (c *Chain) Append(block *Block) (*Block, error) {
	c.chainLock.Lock()
	defer c.chainLock.Unlock()

	if len(c.blocks) == 0 && block.Tag != TagGenesis {
		if _, err := c.appendBlock(newGenesisBlock()); err != nil {
			return nil, err
		}
	}

	return c.appendBlock(block)
}

// appendBlock implements the append sequence.  It must be called with the
// chain lock held exclusively.
func (c *Chain) appendBlock(block *Block) (*Block, error) {
	var prevHash *chainhash.Hash
	if tip := len(c.blocks) - 1; tip >= 0 {
		prevHash = &c.blocks[tip].Hash
	}

	block.Seal(int32(len(c.blocks)), prevHash, c.timeSource.Now().Unix())

	// Validate the chain as if the candidate were already included, so a
	// broken link or a tampered predecessor is caught before commit.
	candidate := make([]*Block, len(c.blocks), len(c.blocks)+1)
	copy(candidate, c.blocks)
	candidate = append(candidate, block)
	if faulty := validateBlocks(candidate); len(faulty) != 0 {
		str := fmt.Sprintf("chain validation failed at indices %v, block %d not committed",
			faulty, block.Height)
		return nil, NewRuleError(ErrChainInvalid, str)
	}

	c.blocks = candidate

	log.Debug().Msgf("Committed block %d (hash %v)", block.Height, block.Hash)

	if c.indexManager != nil {
		// The archive is write-behind: a failure there must not unwind
		// an already committed block.
		if err := c.indexManager.ConnectBlock(block); err != nil {
			log.Error().Err(err).Msgf("Index manager rejected block %d", block.Height)
		}
	}

	return block, nil
}

// BlockByHash performs a linear scan for the block with the given hash and
// returns it, or nil when no block matches.
func (c *Chain) BlockByHash(hash *chainhash.Hash) *Block {
	c.chainLock.RLock()
	defer c.chainLock.RUnlock()

	for _, block := range c.blocks {
		if block.Hash.IsEqual(hash) {
			return block
		}
	}
	return nil
}

// BlockByHeight returns the block at the given height, or nil when the height
// is out of range.
func (c *Chain) BlockByHeight(height int32) *Block {
	c.chainLock.RLock()
	defer c.chainLock.RUnlock()

	if height < 0 || height >= int32(len(c.blocks)) {
		return nil
	}
	return c.blocks[height]
}

// OwnedStar pairs a registered star descriptor with its owner address.
type OwnedStar struct {
	Star  json.RawMessage `json:"star"`
	Owner string          `json:"owner"`
}

// StarsByAddress scans all blocks in height order, decodes each claim
// payload, and collects the stars registered by the given address.  The
// result is recomputed fresh on every call.
func (c *Chain) StarsByAddress(address string) ([]OwnedStar, error) {
	c.chainLock.RLock()
	defer c.chainLock.RUnlock()

	stars := make([]OwnedStar, 0)
	for _, block := range c.blocks {
		if block.Tag != TagStarClaim {
			continue
		}

		payload, err := block.DecodePayload()
		if err != nil {
			return nil, err
		}

		claim, ok := payload.(StarClaim)
		if !ok {
			return nil, NewRuleError(ErrDecode,
				fmt.Sprintf("block %d decoded to unexpected payload %T", block.Height, payload))
		}
		if claim.Address == address {
			stars = append(stars, OwnedStar{Star: claim.Star, Owner: claim.Address})
		}
	}
	return stars, nil
}

// ValidateChain checks every stored block and every predecessor link and
// returns the indices of the offending blocks.  An untampered chain yields an
// empty slice.  An index can appear twice when both its own hash and its link
// to the successor are broken.
func (c *Chain) ValidateChain() []int32 {
	c.chainLock.RLock()
	defer c.chainLock.RUnlock()

	return validateBlocks(c.blocks)
}
