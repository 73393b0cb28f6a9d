// Copyright (c) 2026 The StarLedger developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package database provides a write-behind archive of committed blocks.  The
// chain itself lives in memory and never reads the archive back; the archive
// exists so operators can inspect blocks from past runs.
package database

import (
	"encoding/binary"
	"encoding/json"

	badger "github.com/dgraph-io/badger"
	"github.com/pkg/errors"

	"gitlab.com/starledger/stard/node/ledger"
	"gitlab.com/starledger/stard/types/chainhash"
)

// Key prefixes of the archive keyspace.
const (
	prefixHeight byte = 0x01
	prefixHash   byte = 0x02
)

// ErrBlockNotArchived is returned by lookups that find no record.
var ErrBlockNotArchived = errors.New("block not archived")

// Record is the serialized form of an archived block.  It round-trips every
// block field.
type Record struct {
	Hash              string            `json:"hash"`
	Height            int32             `json:"height"`
	Tag               ledger.PayloadTag `json:"tag"`
	Body              string            `json:"body"`
	Time              int64             `json:"time"`
	PreviousBlockHash string            `json:"previousBlockHash,omitempty"`
}

func newRecord(block *ledger.Block) Record {
	rec := Record{
		Hash:   block.Hash.String(),
		Height: block.Height,
		Tag:    block.Tag,
		Body:   block.Body,
		Time:   block.Timestamp,
	}
	if block.PrevHash != nil {
		rec.PreviousBlockHash = block.PrevHash.String()
	}
	return rec
}

// BlockArchive stores committed blocks in a badger database, keyed both by
// height and by hash.
type BlockArchive struct {
	db *badger.DB
}

// OpenBlockArchive opens, or creates, the archive at the given path.
func OpenBlockArchive(path string) (*BlockArchive, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open block archive at %s", path)
	}
	return &BlockArchive{db: db}, nil
}

// Close releases the underlying database.
func (a *BlockArchive) Close() error {
	return a.db.Close()
}

// ConnectBlock archives a freshly committed block.  It satisfies
// ledger.IndexManager.
func (a *BlockArchive) ConnectBlock(block *ledger.Block) error {
	data, err := json.Marshal(newRecord(block))
	if err != nil {
		return errors.Wrap(err, "unable to encode block record")
	}

	return a.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(heightKey(block.Height), data); err != nil {
			return err
		}
		return txn.Set(hashKey(&block.Hash), heightValue(block.Height))
	})
}

// BlockByHeight fetches the archived record at the given height.
func (a *BlockArchive) BlockByHeight(height int32) (*Record, error) {
	var rec *Record
	err := a.db.View(func(txn *badger.Txn) error {
		var err error
		rec, err = getRecord(txn, heightKey(height))
		return err
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// BlockByHash fetches the archived record with the given hash.
func (a *BlockArchive) BlockByHash(hash *chainhash.Hash) (*Record, error) {
	var rec *Record
	err := a.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(hashKey(hash))
		if err == badger.ErrKeyNotFound {
			return ErrBlockNotArchived
		}
		if err != nil {
			return err
		}

		heightBytes, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}

		rec, err = getRecord(txn, append([]byte{prefixHeight}, heightBytes...))
		return err
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func getRecord(txn *badger.Txn, key []byte) (*Record, error) {
	item, err := txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return nil, ErrBlockNotArchived
	}
	if err != nil {
		return nil, err
	}

	data, err := item.ValueCopy(nil)
	if err != nil {
		return nil, err
	}

	rec := &Record{}
	if err := json.Unmarshal(data, rec); err != nil {
		return nil, errors.Wrap(err, "corrupted block record")
	}
	return rec, nil
}

func heightKey(height int32) []byte {
	key := make([]byte, 9)
	key[0] = prefixHeight
	copy(key[1:], heightValue(height))
	return key
}

func heightValue(height int32) []byte {
	value := make([]byte, 8)
	binary.LittleEndian.PutUint64(value, uint64(height))
	return value
}

func hashKey(hash *chainhash.Hash) []byte {
	key := make([]byte, 1+chainhash.HashSize)
	key[0] = prefixHash
	copy(key[1:], hash[:])
	return key
}
