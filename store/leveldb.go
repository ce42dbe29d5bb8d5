package store

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
	"go.uber.org/zap"

	"github.com/sumit0202/hashledger/block"
	"github.com/sumit0202/hashledger/log"
)

var _ ChainStore = (*LevelDBStore)(nil)

var (
	blockPrefix = []byte("b") // blockPrefix + number (uint64 big endian) -> block JSON
	hashPrefix  = []byte("h") // hashPrefix + hash -> number (uint64 big endian)
	tailKey     = []byte("tail")
)

// LevelDBStore keeps blocks as JSON in LevelDB. Every append writes the
// block, its hash index entry and the new tail in one batch.
type LevelDBStore struct {
	mu sync.Mutex // serializes appends
	db *leveldb.DB
}

// OpenLevelDB opens or creates the database at path.
func OpenLevelDB(path string) (*LevelDBStore, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open leveldb %s: %w", path, err)
	}
	return NewLevelDBStore(db), nil
}

func NewLevelDBStore(db *leveldb.DB) *LevelDBStore {
	return &LevelDBStore{db: db}
}

func encodeNumber(number int) []byte {
	enc := make([]byte, 8)
	binary.BigEndian.PutUint64(enc, uint64(number))
	return enc
}

func blockKey(number int) []byte {
	return append(append([]byte{}, blockPrefix...), encodeNumber(number)...)
}

func hashKey(hash string) []byte {
	return append(append([]byte{}, hashPrefix...), hash...)
}

func (s *LevelDBStore) Append(b block.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tail, err := s.Tail()
	if err != nil {
		return err
	}
	if err := checkAppend(tail, b); err != nil {
		return err
	}

	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("encode block %d: %w", b.Contents.BlockNumber, err)
	}

	batch := new(leveldb.Batch)
	batch.Put(blockKey(b.Contents.BlockNumber), data)
	batch.Put(hashKey(b.Hash), encodeNumber(b.Contents.BlockNumber))
	batch.Put(tailKey, encodeNumber(b.Contents.BlockNumber))
	if err := s.db.Write(batch, nil); err != nil {
		return s.wrap(err)
	}

	log.Debug("Stored block", zap.Int("number", b.Contents.BlockNumber), zap.String("hash", b.Hash))
	return nil
}

func (s *LevelDBStore) Tail() (*block.Block, error) {
	number, err := s.tailNumber()
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s.BlockByNumber(number)
}

func (s *LevelDBStore) tailNumber() (int, error) {
	enc, err := s.db.Get(tailKey, nil)
	if err != nil {
		return 0, s.wrap(err)
	}
	return int(binary.BigEndian.Uint64(enc)), nil
}

func (s *LevelDBStore) BlockByNumber(number int) (*block.Block, error) {
	if number < 0 {
		return nil, fmt.Errorf("%w: number %d", ErrNotFound, number)
	}
	data, err := s.db.Get(blockKey(number), nil)
	if err != nil {
		return nil, fmt.Errorf("block %d: %w", number, s.wrap(err))
	}
	var b block.Block
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("decode block %d: %w", number, err)
	}
	return &b, nil
}

func (s *LevelDBStore) BlockByHash(hash string) (*block.Block, error) {
	enc, err := s.db.Get(hashKey(hash), nil)
	if err != nil {
		return nil, fmt.Errorf("hash %s: %w", hash, s.wrap(err))
	}
	return s.BlockByNumber(int(binary.BigEndian.Uint64(enc)))
}

func (s *LevelDBStore) Height() (int, error) {
	number, err := s.tailNumber()
	if errors.Is(err, ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return number + 1, nil
}

// Blocks reads the whole chain from a LevelDB snapshot so a concurrent
// append is either fully visible or not at all.
func (s *LevelDBStore) Blocks() (block.Chain, error) {
	snap, err := s.db.GetSnapshot()
	if err != nil {
		return nil, s.wrap(err)
	}
	defer snap.Release()

	chain := make(block.Chain, 0)
	iter := snap.NewIterator(util.BytesPrefix(blockPrefix), nil)
	defer iter.Release()
	for iter.Next() {
		var b block.Block
		if err := json.Unmarshal(iter.Value(), &b); err != nil {
			return nil, fmt.Errorf("decode block at key %x: %w", iter.Key(), err)
		}
		chain = append(chain, b)
	}
	if err := iter.Error(); err != nil {
		return nil, s.wrap(err)
	}
	return chain, nil
}

func (s *LevelDBStore) Close() error {
	return s.db.Close()
}

func (s *LevelDBStore) wrap(err error) error {
	switch {
	case errors.Is(err, leveldb.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, leveldb.ErrClosed):
		return ErrClosed
	}
	return err
}
