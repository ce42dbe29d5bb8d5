package block

import "fmt"

// NewGenesis builds block 0. Its transactions are the initial allocation and
// are trusted as-is during validation.
func NewGenesis(alloc ...Transaction) Block {
	contents := Contents{
		BlockNumber:      0,
		ParentHash:       nil,
		TransactionCount: 1,
		Transactions:     copyTransactions(alloc),
	}
	return Block{Hash: HashContents(contents), Contents: contents}
}

// MakeBlock builds the block that extends the tail of chain with txs. The
// chain itself is not modified.
func MakeBlock(txs []Transaction, chain Chain) (Block, error) {
	tail := chain.Tail()
	if tail == nil {
		return Block{}, fmt.Errorf("%w: cannot extend an empty chain", ErrPrecondition)
	}

	parentHash := tail.Hash
	number := tail.Contents.BlockNumber + 1
	contents := Contents{
		BlockNumber: number,
		ParentHash:  &parentHash,
		// Tied to height rather than len(txs); existing chains depend on it.
		TransactionCount: number + 1,
		Transactions:     copyTransactions(txs),
	}
	return Block{Hash: HashContents(contents), Contents: contents}, nil
}

func copyTransactions(txs []Transaction) []Transaction {
	out := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		c := make(Transaction, len(tx))
		for k, v := range tx {
			c[k] = v
		}
		out = append(out, c)
	}
	return out
}
