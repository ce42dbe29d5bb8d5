package block

import "fmt"

// Submit applies tx to state, seals it in a new block on the tail of chain
// and re-validates the extended chain. The inputs are never modified; on
// success the returned chain is a new slice ending in the new block.
func Submit(tx Transaction, state State, chain Chain) (State, Chain, error) {
	if err := CheckTransaction(tx, state); err != nil {
		return nil, nil, err
	}
	newState, err := ApplyTransaction(tx, state)
	if err != nil {
		return nil, nil, err
	}

	b, err := MakeBlock([]Transaction{tx}, chain)
	if err != nil {
		return nil, nil, err
	}
	newChain := append(chain.Copy(), b)

	if _, err := ValidateChain(Structured(newChain)); err != nil {
		return nil, nil, fmt.Errorf("chain invalid after append: %w", err)
	}
	return newState, newChain, nil
}
