package block

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmit(t *testing.T) {
	chain := Chain{NewGenesis(Transaction{"Tom": 10})}
	state := State{"Tom": 10}
	tx := Transaction{"Tom": -1, "Medium": 1}

	newState, newChain, err := Submit(tx, state, chain)
	require.NoError(t, err)

	assert.Equal(t, State{"Tom": 9, "Medium": 1}, newState)
	require.Len(t, newChain, 2)
	assert.Equal(t, []Transaction{tx}, newChain[1].Contents.Transactions,
		"block must carry the submitted transaction, not the balances")
	assert.Equal(t, chain[0].Hash, newChain[1].GetParentHash())

	assert.Len(t, chain, 1)
	assert.Equal(t, State{"Tom": 10}, state)
}

func TestSubmitRejectsInadmissible(t *testing.T) {
	chain := Chain{NewGenesis(Transaction{"Tom": 10})}

	tests := map[string]Transaction{
		"not conserving": {"Tom": -1, "Sam": 2},
		"overdraft":      {"Tom": -11, "Sam": 11},
	}
	for name, tx := range tests {
		t.Run(name, func(t *testing.T) {
			_, _, err := Submit(tx, State{"Tom": 10}, chain)
			assert.True(t, errors.Is(err, ErrInvalidTransaction), "got %v", err)
		})
	}
}

func TestSubmitEmptyChain(t *testing.T) {
	_, _, err := Submit(Transaction{"A": 0}, State{}, nil)
	assert.True(t, errors.Is(err, ErrPrecondition), "got %v", err)
}

func TestSubmitSurfacesBrokenChain(t *testing.T) {
	chain := Chain{NewGenesis(Transaction{"Tom": 10})}
	chain[0].Hash = "deadbeef"

	_, _, err := Submit(Transaction{"Tom": -1, "Sam": 1}, State{"Tom": 10}, chain)
	assert.True(t, errors.Is(err, ErrIntegrity), "got %v", err)
}

func TestSubmitDoesNotAliasChain(t *testing.T) {
	chain := make(Chain, 1, 4)
	chain[0] = NewGenesis(Transaction{"Tom": 10})

	_, first, err := Submit(Transaction{"Tom": -1, "Sam": 1}, State{"Tom": 10}, chain)
	require.NoError(t, err)
	_, second, err := Submit(Transaction{"Tom": -2, "Sam": 2}, State{"Tom": 10}, chain)
	require.NoError(t, err)

	assert.NotEqual(t, first[1].Hash, second[1].Hash)
}
