package block

// State maps an account to its balance. It is a projection of the chain,
// recomputable by replaying every block from genesis.
type State map[string]int64

// Transaction maps an account to the signed change applied to its balance.
type Transaction map[string]int64

type Contents struct {
	BlockNumber      int           `json:"block_number"`
	ParentHash       *string       `json:"parent_hash"`
	TransactionCount int           `json:"transaction_count"`
	Transactions     []Transaction `json:"transaction"`
}

type Block struct {
	Hash     string   `json:"hash"`
	Contents Contents `json:"contents"`
}

// Chain is ordered from genesis (index 0) to tail.
type Chain []Block

func (b *Block) GetParentHash() string {
	if b.Contents.ParentHash == nil {
		return ""
	}
	return *b.Contents.ParentHash
}

func (b *Block) IsGenesis() bool {
	return b.Contents.ParentHash == nil
}

// Tail returns the last block, or nil for an empty chain.
func (c Chain) Tail() *Block {
	if len(c) == 0 {
		return nil
	}
	return &c[len(c)-1]
}

// Copy returns a chain backed by a fresh array so appends never alias the
// receiver.
func (c Chain) Copy() Chain {
	out := make(Chain, len(c), len(c)+1)
	copy(out, c)
	return out
}

func (s State) Balance(account string) int64 {
	return s[account]
}

func (s State) Copy() State {
	out := make(State, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Equal treats an absent account and a zero balance as different, matching
// how the ledger only ever creates entries for touched accounts.
func (s State) Equal(other State) bool {
	if len(s) != len(other) {
		return false
	}
	for k, v := range s {
		ov, ok := other[k]
		if !ok || ov != v {
			return false
		}
	}
	return true
}
