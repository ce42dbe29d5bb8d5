package store

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"

	"github.com/sumit0202/hashledger/block"
)

func testChain(t *testing.T, length int) block.Chain {
	t.Helper()

	chain := block.Chain{block.NewGenesis(block.Transaction{"Tom": 100})}
	for len(chain) < length {
		b, err := block.MakeBlock([]block.Transaction{{"Tom": -1, "Sam": 1}}, chain)
		require.NoError(t, err)
		chain = append(chain, b)
	}
	return chain
}

func newMemLevelDB(t *testing.T) *LevelDBStore {
	t.Helper()
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	require.NoError(t, err)
	return NewLevelDBStore(db)
}

func stores() map[string]func(t *testing.T) ChainStore {
	return map[string]func(t *testing.T) ChainStore{
		"memory":  func(t *testing.T) ChainStore { return NewMemoryStore() },
		"leveldb": func(t *testing.T) ChainStore { return newMemLevelDB(t) },
		"cached": func(t *testing.T) ChainStore {
			cs, err := NewCachedStore(newMemLevelDB(t), 2)
			require.NoError(t, err)
			return cs
		},
	}
}

func TestChainStore(t *testing.T) {
	for name, newStore := range stores() {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			defer s.Close()

			t.Run("empty", func(t *testing.T) {
				tail, err := s.Tail()
				require.NoError(t, err)
				assert.Nil(t, tail)

				height, err := s.Height()
				require.NoError(t, err)
				assert.Equal(t, 0, height)

				_, err = s.BlockByNumber(0)
				assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
			})

			chain := testChain(t, 4)

			t.Run("append", func(t *testing.T) {
				for _, b := range chain {
					require.NoError(t, s.Append(b))
				}

				height, err := s.Height()
				require.NoError(t, err)
				assert.Equal(t, 4, height)

				tail, err := s.Tail()
				require.NoError(t, err)
				assert.Equal(t, chain[3].Hash, tail.Hash)
			})

			t.Run("lookup", func(t *testing.T) {
				for i, want := range chain {
					byNumber, err := s.BlockByNumber(i)
					require.NoError(t, err)
					assert.Equal(t, want, *byNumber)

					byHash, err := s.BlockByHash(want.Hash)
					require.NoError(t, err)
					assert.Equal(t, want, *byHash)
				}

				_, err := s.BlockByHash("missing")
				assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
				_, err = s.BlockByNumber(-1)
				assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
			})

			t.Run("blocks replay", func(t *testing.T) {
				blocks, err := s.Blocks()
				require.NoError(t, err)
				assert.Equal(t, chain, blocks)

				state, err := block.ValidateChain(block.Structured(blocks))
				require.NoError(t, err)
				assert.Equal(t, block.State{"Tom": 97, "Sam": 3}, state)
			})

			t.Run("out of order", func(t *testing.T) {
				assert.True(t, errors.Is(s.Append(chain[2]), ErrOutOfOrder))

				fork, err := block.MakeBlock(nil, chain[:2])
				require.NoError(t, err)
				fork.Contents.BlockNumber = 4
				assert.True(t, errors.Is(s.Append(fork), ErrOutOfOrder))
			})
		})
	}
}

func TestAppendRequiresGenesisFirst(t *testing.T) {
	chain := testChain(t, 2)
	for name, newStore := range stores() {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			defer s.Close()
			assert.True(t, errors.Is(s.Append(chain[1]), ErrOutOfOrder))
		})
	}
}

func TestMemoryStoreBlocksIsSnapshot(t *testing.T) {
	chain := testChain(t, 3)
	s := NewMemoryStore()
	require.NoError(t, s.Append(chain[0]))

	snapshot, err := s.Blocks()
	require.NoError(t, err)
	require.NoError(t, s.Append(chain[1]))

	assert.Len(t, snapshot, 1)
}

func TestMemoryStoreClosed(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Close())
	assert.True(t, errors.Is(s.Append(testChain(t, 1)[0]), ErrClosed))
}

func TestLevelDBStoreReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chaindata")
	chain := testChain(t, 3)

	s, err := OpenLevelDB(path)
	require.NoError(t, err)
	for _, b := range chain {
		require.NoError(t, s.Append(b))
	}
	require.NoError(t, s.Close())

	reopened, err := OpenLevelDB(path)
	require.NoError(t, err)
	defer reopened.Close()

	blocks, err := reopened.Blocks()
	require.NoError(t, err)
	assert.Equal(t, chain, blocks)
}

func TestCachedStoreServesFromCache(t *testing.T) {
	chain := testChain(t, 3)
	backing := NewMemoryStore()
	cs, err := NewCachedStore(backing, 8)
	require.NoError(t, err)

	for _, b := range chain {
		require.NoError(t, cs.Append(b))
	}
	assert.True(t, cs.Contains(chain[2].Hash))

	cs.Purge()
	assert.False(t, cs.Contains(chain[2].Hash))

	b, err := cs.BlockByHash(chain[2].Hash)
	require.NoError(t, err)
	assert.Equal(t, chain[2], *b)
	assert.True(t, cs.Contains(chain[2].Hash))
}

func TestNewCachedStoreRejectsZeroSize(t *testing.T) {
	_, err := NewCachedStore(NewMemoryStore(), 0)
	assert.Error(t, err)
}
