// Package ledger owns a chain and its derived balances on behalf of
// concurrent callers. It is the only writer of its ChainStore: appends are
// serialized, and AppendAfter lets callers make an append conditional on
// the tail hash they last observed.
package ledger
