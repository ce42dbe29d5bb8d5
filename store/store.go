package store

import (
	"errors"
	"fmt"

	"github.com/sumit0202/hashledger/block"
)

var (
	ErrNotFound   = errors.New("block not found")
	ErrOutOfOrder = errors.New("block does not extend the tail")
	ErrClosed     = errors.New("store closed")
)

// ChainStore persists an append-only chain. Implementations only enforce
// that appends extend the tail; replaying transactions and checking hashes
// is left to block.ValidateChain.
type ChainStore interface {
	Append(b block.Block) error

	// Tail returns nil and no error when the store is empty.
	Tail() (*block.Block, error)
	BlockByNumber(number int) (*block.Block, error)
	BlockByHash(hash string) (*block.Block, error)
	Height() (int, error)
	Blocks() (block.Chain, error)

	Close() error
}

func checkAppend(tail *block.Block, b block.Block) error {
	if tail == nil {
		if b.Contents.BlockNumber != 0 || !b.IsGenesis() {
			return fmt.Errorf("%w: empty store needs a genesis block, got block %d", ErrOutOfOrder, b.Contents.BlockNumber)
		}
		return nil
	}
	if b.Contents.BlockNumber != tail.Contents.BlockNumber+1 {
		return fmt.Errorf("%w: expected block %d, got %d", ErrOutOfOrder, tail.Contents.BlockNumber+1, b.Contents.BlockNumber)
	}
	if b.GetParentHash() != tail.Hash {
		return fmt.Errorf("%w: parent %q is not tail %s", ErrOutOfOrder, b.GetParentHash(), tail.Hash)
	}
	return nil
}
