package ledger

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/sumit0202/hashledger/block"
	"github.com/sumit0202/hashledger/log"
	"github.com/sumit0202/hashledger/store"
)

var (
	ErrStaleTail          = errors.New("chain tail has moved")
	ErrNoGenesis          = fmt.Errorf("%w: ledger has no genesis block", block.ErrPrecondition)
	ErrAlreadyInitialized = errors.New("ledger already has a genesis block")
	ErrStateDiverged      = errors.New("replayed state differs from ledger state")
)

type Option func(*Ledger)

// WithJournal records every committed block, genesis included, in j.
func WithJournal(j *store.Journal) Option {
	return func(l *Ledger) {
		l.journal = j
	}
}

// Ledger is the single writer of a chain held in a ChainStore. Appends are
// serialized; reads and Verify work on immutable snapshots.
type Ledger struct {
	mu      sync.RWMutex
	store   store.ChainStore
	chain   block.Chain
	state   block.State
	journal *store.Journal
}

// Open loads and replays the chain held by s. An empty store yields an
// empty ledger that must be initialized with Init.
func Open(s store.ChainStore, opts ...Option) (*Ledger, error) {
	chain, err := s.Blocks()
	if err != nil {
		return nil, fmt.Errorf("load chain: %w", err)
	}

	l := &Ledger{
		store: s,
		chain: chain,
		state: block.State{},
	}
	for _, opt := range opts {
		opt(l)
	}

	if len(chain) > 0 {
		state, err := block.ValidateChain(block.Structured(chain))
		if err != nil {
			return nil, fmt.Errorf("stored chain is invalid: %w", err)
		}
		l.state = state
	}

	log.Info("Opened ledger", zap.Int("height", len(chain)), zap.Int("accounts", len(l.state)))
	return l, nil
}

// Init writes the genesis block holding the initial allocation.
func (l *Ledger) Init(alloc ...block.Transaction) (block.Block, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.chain) > 0 {
		return block.Block{}, ErrAlreadyInitialized
	}

	genesis := block.NewGenesis(alloc...)
	state, err := block.ApplyGenesis(genesis)
	if err != nil {
		return block.Block{}, err
	}
	if err := l.commit(genesis, state); err != nil {
		return block.Block{}, err
	}
	return genesis, nil
}

// Submit seals tx in a new block on the current tail.
func (l *Ledger) Submit(tx block.Transaction) (block.Block, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.chain) == 0 {
		return block.Block{}, ErrNoGenesis
	}

	state, chain, err := block.Submit(tx, l.state, l.chain)
	if err != nil {
		log.Warn("Rejected transaction", zap.Any("transaction", tx), zap.Error(err))
		return block.Block{}, err
	}
	if err := l.commit(*chain.Tail(), state); err != nil {
		return block.Block{}, err
	}
	return *chain.Tail(), nil
}

// AppendAfter seals txs in a new block only if the tail hash is still
// expectedTail, so that two writers racing from the same tail cannot both
// claim the next block number.
func (l *Ledger) AppendAfter(expectedTail string, txs []block.Transaction) (block.Block, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	tail := l.chain.Tail()
	if tail == nil {
		return block.Block{}, ErrNoGenesis
	}
	if tail.Hash != expectedTail {
		return block.Block{}, fmt.Errorf("%w: expected %s, tail is %s", ErrStaleTail, expectedTail, tail.Hash)
	}

	b, err := block.MakeBlock(txs, l.chain)
	if err != nil {
		return block.Block{}, err
	}
	state, err := block.ApplyBlock(b, *tail, l.state)
	if err != nil {
		log.Warn("Rejected block", zap.Int("number", b.Contents.BlockNumber), zap.Error(err))
		return block.Block{}, err
	}
	if err := l.commit(b, state); err != nil {
		return block.Block{}, err
	}
	return b, nil
}

// commit persists b and publishes the new chain and state. Called with
// l.mu held.
func (l *Ledger) commit(b block.Block, state block.State) error {
	if err := l.store.Append(b); err != nil {
		return fmt.Errorf("store block %d: %w", b.Contents.BlockNumber, err)
	}
	// Only copies of l.chain escape the lock.
	l.chain = append(l.chain, b)
	l.state = state

	if l.journal != nil {
		if err := l.journal.Record(b); err != nil {
			log.Error("Failed to journal block", zap.Int("number", b.Contents.BlockNumber), zap.Error(err))
		}
	}

	log.Info("Appended block",
		zap.Int("number", b.Contents.BlockNumber),
		zap.String("hash", b.Hash),
		zap.Int("transactions", len(b.Contents.Transactions)))
	return nil
}

// Balances returns a copy of the current balances.
func (l *Ledger) Balances() block.State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state.Copy()
}

func (l *Ledger) Balance(account string) int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state.Balance(account)
}

// Snapshot returns the chain as of now. Later appends never show up in it.
func (l *Ledger) Snapshot() block.Chain {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.chain.Copy()
}

func (l *Ledger) Height() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.chain)
}

func (l *Ledger) Tail() (block.Block, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	tail := l.chain.Tail()
	if tail == nil {
		return block.Block{}, false
	}
	return *tail, true
}

// BlockByNumber reads through the store, and so through its cache if any.
func (l *Ledger) BlockByNumber(number int) (block.Block, error) {
	b, err := l.store.BlockByNumber(number)
	if err != nil {
		return block.Block{}, err
	}
	return *b, nil
}

func (l *Ledger) BlockByHash(hash string) (block.Block, error) {
	b, err := l.store.BlockByHash(hash)
	if err != nil {
		return block.Block{}, err
	}
	return *b, nil
}

// Verify replays a snapshot of the chain from genesis and checks that it
// reproduces the balances the ledger holds for that snapshot. It does not
// block writers while replaying.
func (l *Ledger) Verify() (block.State, error) {
	l.mu.RLock()
	chain := l.chain.Copy()
	want := l.state.Copy()
	l.mu.RUnlock()

	if len(chain) == 0 {
		return nil, ErrNoGenesis
	}
	state, err := block.ValidateChain(block.Structured(chain))
	if err != nil {
		return nil, err
	}
	if !state.Equal(want) {
		return nil, ErrStateDiverged
	}
	return state, nil
}

// Close flushes the journal, if any, and closes the store.
func (l *Ledger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var journalErr error
	if l.journal != nil {
		journalErr = l.journal.Close()
	}
	if err := l.store.Close(); err != nil {
		return err
	}
	return journalErr
}
