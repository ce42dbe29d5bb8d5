package store

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sumit0202/hashledger/block"
)

// WriteChainFile writes chain to fileName as one JSON array, the format
// accepted by block.Serialized.
func WriteChainFile(fileName string, chain block.Chain) error {
	blockJSON, err := json.MarshalIndent(chain, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling blocks to JSON: %w", err)
	}

	if err := os.WriteFile(fileName, blockJSON, 0644); err != nil {
		return fmt.Errorf("error writing blocks to file: %w", err)
	}
	return nil
}

// ReadChainFile returns the raw contents of a chain file. Parsing is left
// to the caller so that malformed files surface as block.ErrMalformedInput.
func ReadChainFile(fileName string) ([]byte, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return nil, fmt.Errorf("error reading blocks file: %w", err)
	}
	return data, nil
}

func FetchAllBlocks(fileName string) (block.Chain, error) {
	data, err := ReadChainFile(fileName)
	if err != nil {
		return nil, err
	}
	return block.ParseChain(data)
}

func FetchBlockByNumber(fileName string, blockNumber int) (block.Block, error) {
	blocks, err := FetchAllBlocks(fileName)
	if err != nil {
		return block.Block{}, err
	}

	for _, b := range blocks {
		if b.Contents.BlockNumber == blockNumber {
			return b, nil
		}
	}

	return block.Block{}, fmt.Errorf("%w: block number %d in %s", ErrNotFound, blockNumber, fileName)
}
