package block

import (
	"fmt"
	"math"
	"math/big"
	"sort"
)

// IsAdmissible reports whether tx conserves value and leaves every touched
// account non-negative when applied to state.
func IsAdmissible(tx Transaction, state State) bool {
	return CheckTransaction(tx, state) == nil
}

// CheckTransaction is IsAdmissible with the reason for rejection. The
// returned error wraps ErrInvalidTransaction.
func CheckTransaction(tx Transaction, state State) error {
	// Partial sums of int64 deltas can overflow even when the total is zero.
	sum := new(big.Int)
	for _, delta := range tx {
		sum.Add(sum, big.NewInt(delta))
	}
	if sum.Sign() != 0 {
		return fmt.Errorf("%w: deltas sum to %s", ErrInvalidTransaction, sum)
	}

	for _, account := range accounts(tx) {
		balance, ok := addInt64(state.Balance(account), tx[account])
		if !ok && tx[account] < 0 {
			return fmt.Errorf("%w: account %q would underflow", ErrInvalidTransaction, account)
		}
		if ok && balance < 0 {
			return fmt.Errorf("%w: account %q would hold %d", ErrInvalidTransaction, account, balance)
		}
	}
	return nil
}

// ApplyTransaction folds tx into a copy of state. Admissibility is not
// checked here; callers that need it use CheckTransaction first.
func ApplyTransaction(tx Transaction, state State) (State, error) {
	next := state.Copy()
	for _, account := range accounts(tx) {
		balance, ok := addInt64(next[account], tx[account])
		if !ok {
			return nil, fmt.Errorf("%w: account %q", ErrArithmetic, account)
		}
		next[account] = balance
	}
	return next, nil
}

func accounts(tx Transaction) []string {
	keys := make([]string, 0, len(tx))
	for k := range tx {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func addInt64(a, b int64) (int64, bool) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, false
	}
	return a + b, true
}
