package block

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ChainInput is either an in-memory chain or its serialized JSON text.
// Construct one with Structured, Serialized or SerializedBytes.
type ChainInput interface {
	resolve() (Chain, error)
}

type structuredInput struct {
	chain Chain
}

func (s structuredInput) resolve() (Chain, error) {
	if len(s.chain) == 0 {
		return nil, fmt.Errorf("%w: chain has no genesis block", ErrMalformedInput)
	}
	return s.chain, nil
}

type serializedInput struct {
	data []byte
}

func (s serializedInput) resolve() (Chain, error) {
	return ParseChain(s.data)
}

func Structured(chain Chain) ChainInput {
	return structuredInput{chain: chain}
}

func Serialized(text string) ChainInput {
	return serializedInput{data: []byte(text)}
}

func SerializedBytes(data []byte) ChainInput {
	return serializedInput{data: data}
}

// ParseChain decodes a JSON array of blocks. Anything else, including an
// empty array or a block record missing one of its keys, fails with
// ErrMalformedInput.
func ParseChain(data []byte) (Chain, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var chain Chain
	if err := dec.Decode(&chain); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after chain", ErrMalformedInput)
	}
	if len(chain) == 0 {
		return nil, fmt.Errorf("%w: chain has no genesis block", ErrMalformedInput)
	}
	if err := checkRecords(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	return chain, nil
}

var (
	blockKeys    = []string{"hash", "contents"}
	contentsKeys = []string{"block_number", "parent_hash", "transaction_count", "transaction"}
)

// checkRecords reports the first block record that lacks a key. Decoding
// alone would leave the zero value in its place.
func checkRecords(data []byte) error {
	var records []map[string]json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return err
	}
	for i, record := range records {
		if err := requireKeys(record, blockKeys); err != nil {
			return fmt.Errorf("block %d: %w", i, err)
		}
		var contents map[string]json.RawMessage
		if err := json.Unmarshal(record["contents"], &contents); err != nil {
			return fmt.Errorf("block %d contents: %w", i, err)
		}
		if err := requireKeys(contents, contentsKeys); err != nil {
			return fmt.Errorf("block %d contents: %w", i, err)
		}
	}
	return nil
}

func requireKeys(record map[string]json.RawMessage, keys []string) error {
	for _, key := range keys {
		if _, ok := record[key]; !ok {
			return fmt.Errorf("missing %q", key)
		}
	}
	return nil
}

// ValidateChain replays the chain from genesis, checking every transaction
// and every block's hash, number and parent link. It returns the final
// balances, or the first failure wrapped in a *BlockError.
func ValidateChain(in ChainInput) (State, error) {
	chain, err := in.resolve()
	if err != nil {
		return nil, err
	}

	state, err := ApplyGenesis(chain[0])
	if err != nil {
		return nil, &BlockError{Number: 0, Err: err}
	}

	for i := 1; i < len(chain); i++ {
		state, err = ApplyBlock(chain[i], chain[i-1], state)
		if err != nil {
			return nil, &BlockError{Number: i, Err: err}
		}
	}
	return state, nil
}

// ApplyGenesis folds the genesis allocation into an empty state and checks
// the genesis block's hash, number and missing parent.
func ApplyGenesis(genesis Block) (State, error) {
	state := State{}
	for _, tx := range genesis.Contents.Transactions {
		next, err := ApplyTransaction(tx, state)
		if err != nil {
			return nil, err
		}
		state = next
	}

	if err := checkHash(genesis); err != nil {
		return nil, err
	}
	if genesis.Contents.BlockNumber != 0 {
		return nil, fmt.Errorf("%w: genesis numbered %d", ErrSequence, genesis.Contents.BlockNumber)
	}
	if !genesis.IsGenesis() {
		return nil, fmt.Errorf("%w: genesis has parent %s", ErrLinkage, genesis.GetParentHash())
	}
	return state, nil
}

// ApplyBlock checks b against its parent and folds its transactions into
// state. On failure state is left untouched and no partial result is
// returned.
func ApplyBlock(b Block, parent Block, state State) (State, error) {
	for i, tx := range b.Contents.Transactions {
		if err := CheckTransaction(tx, state); err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		next, err := ApplyTransaction(tx, state)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		state = next
	}

	if err := checkHash(b); err != nil {
		return nil, err
	}
	if want := parent.Contents.BlockNumber + 1; b.Contents.BlockNumber != want {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrSequence, want, b.Contents.BlockNumber)
	}
	if b.Contents.ParentHash == nil || *b.Contents.ParentHash != parent.Hash {
		return nil, fmt.Errorf("%w: expected %s, got %q", ErrLinkage, parent.Hash, b.GetParentHash())
	}
	return state, nil
}

func checkHash(b Block) error {
	if computed := HashContents(b.Contents); b.Hash != computed {
		return fmt.Errorf("%w: stored %s, computed %s", ErrIntegrity, b.Hash, computed)
	}
	return nil
}
