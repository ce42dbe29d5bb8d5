package store

import (
	"fmt"
	"sync"

	"github.com/sumit0202/hashledger/block"
)

var _ ChainStore = (*MemoryStore)(nil)

type MemoryStore struct {
	mu     sync.RWMutex
	blocks block.Chain
	byHash map[string]int
	closed bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		blocks: make(block.Chain, 0),
		byHash: make(map[string]int),
	}
}

func (m *MemoryStore) Append(b block.Block) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if err := checkAppend(m.blocks.Tail(), b); err != nil {
		return err
	}
	m.byHash[b.Hash] = len(m.blocks)
	m.blocks = append(m.blocks, b)
	return nil
}

func (m *MemoryStore) Tail() (*block.Block, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tail := m.blocks.Tail()
	if tail == nil {
		return nil, nil
	}
	b := *tail
	return &b, nil
}

func (m *MemoryStore) BlockByNumber(number int) (*block.Block, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if number < 0 || number >= len(m.blocks) {
		return nil, fmt.Errorf("%w: number %d", ErrNotFound, number)
	}
	b := m.blocks[number]
	return &b, nil
}

func (m *MemoryStore) BlockByHash(hash string) (*block.Block, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i, ok := m.byHash[hash]
	if !ok {
		return nil, fmt.Errorf("%w: hash %s", ErrNotFound, hash)
	}
	b := m.blocks[i]
	return &b, nil
}

func (m *MemoryStore) Height() (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.blocks), nil
}

// Blocks returns a snapshot; later appends are not visible through it.
func (m *MemoryStore) Blocks() (block.Chain, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.blocks.Copy(), nil
}

func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
