package block

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGenesis(t *testing.T) {
	genesis := NewGenesis(Transaction{"Tom": 10})

	assert.True(t, genesis.IsGenesis())
	assert.Equal(t, 0, genesis.Contents.BlockNumber)
	assert.Equal(t, 1, genesis.Contents.TransactionCount)
	assert.Equal(t, HashContents(genesis.Contents), genesis.Hash)
	assert.Len(t, genesis.Hash, HashLength)
}

func TestMakeBlock(t *testing.T) {
	chain := Chain{NewGenesis(Transaction{"Tom": 10})}
	txs := []Transaction{{"Tom": -1, "Medium": 1}, {"Tom": -1, "Sam": 1}}

	b, err := MakeBlock(txs, chain)
	require.NoError(t, err)

	assert.Equal(t, 1, b.Contents.BlockNumber)
	assert.Equal(t, chain[0].Hash, b.GetParentHash())
	assert.Equal(t, txs, b.Contents.Transactions)
	assert.Equal(t, HashContents(b.Contents), b.Hash)
	assert.Len(t, chain, 1, "MakeBlock must not append")
}

func TestMakeBlockTransactionCountFollowsHeight(t *testing.T) {
	chain := Chain{NewGenesis(Transaction{"Tom": 10})}
	for i := 1; i <= 3; i++ {
		b, err := MakeBlock([]Transaction{{"Tom": -1, "Sam": 1}}, chain)
		require.NoError(t, err)
		assert.Equal(t, i+1, b.Contents.TransactionCount)
		chain = append(chain, b)
	}
}

func TestMakeBlockCopiesTransactions(t *testing.T) {
	chain := Chain{NewGenesis(Transaction{"Tom": 10})}
	tx := Transaction{"Tom": -1, "Sam": 1}

	b, err := MakeBlock([]Transaction{tx}, chain)
	require.NoError(t, err)

	tx["Tom"] = -5
	assert.Equal(t, int64(-1), b.Contents.Transactions[0]["Tom"])
}

func TestMakeBlockEmptyChain(t *testing.T) {
	_, err := MakeBlock([]Transaction{{"A": 0}}, nil)
	assert.True(t, errors.Is(err, ErrPrecondition))
}
