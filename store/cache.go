package store

import (
	lru "github.com/hashicorp/golang-lru"

	"github.com/sumit0202/hashledger/block"
)

var _ ChainStore = (*CachedStore)(nil)

// CachedStore keeps recently read blocks in memory in front of another
// ChainStore. Blocks never change once stored so entries are never
// invalidated, only evicted.
type CachedStore struct {
	ChainStore

	numberCache *lru.Cache // number -> block.Block
	hashCache   *lru.Cache // hash -> block.Block
}

func NewCachedStore(store ChainStore, size int) (*CachedStore, error) {
	numberCache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	hashCache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &CachedStore{
		ChainStore:  store,
		numberCache: numberCache,
		hashCache:   hashCache,
	}, nil
}

func (cs *CachedStore) Append(b block.Block) error {
	if err := cs.ChainStore.Append(b); err != nil {
		return err
	}
	cs.add(b)
	return nil
}

func (cs *CachedStore) BlockByNumber(number int) (*block.Block, error) {
	if cached, ok := cs.numberCache.Get(number); ok {
		b := cached.(block.Block)
		return &b, nil
	}

	b, err := cs.ChainStore.BlockByNumber(number)
	if err != nil {
		return nil, err
	}
	cs.add(*b)
	return b, nil
}

func (cs *CachedStore) BlockByHash(hash string) (*block.Block, error) {
	if cached, ok := cs.hashCache.Get(hash); ok {
		b := cached.(block.Block)
		return &b, nil
	}

	b, err := cs.ChainStore.BlockByHash(hash)
	if err != nil {
		return nil, err
	}
	cs.add(*b)
	return b, nil
}

func (cs *CachedStore) Contains(hash string) bool {
	return cs.hashCache.Contains(hash)
}

func (cs *CachedStore) Purge() {
	cs.numberCache.Purge()
	cs.hashCache.Purge()
}

func (cs *CachedStore) Close() error {
	cs.Purge()
	return cs.ChainStore.Close()
}

func (cs *CachedStore) add(b block.Block) {
	cs.numberCache.Add(b.Contents.BlockNumber, b)
	cs.hashCache.Add(b.Hash, b)
}
