package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/sumit0202/hashledger/block"
	"github.com/sumit0202/hashledger/log"
)

const journalBuffer = 64

var ErrJournalClosed = errors.New("journal closed")

// Journal appends committed blocks to a file, one JSON object per line.
// Writes happen on a background goroutine fed by Record.
type Journal struct {
	mu     sync.Mutex
	closed bool

	blocks chan block.Block
	done   chan struct{}
	file   *os.File
	err    error // first write error, read after done is closed
}

func OpenJournal(path string) (*Journal, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	j := &Journal{
		blocks: make(chan block.Block, journalBuffer),
		done:   make(chan struct{}),
		file:   file,
	}
	go j.writeBlocks()
	return j, nil
}

func (j *Journal) writeBlocks() {
	defer close(j.done)

	enc := json.NewEncoder(j.file)
	for b := range j.blocks {
		if err := enc.Encode(b); err != nil {
			log.Error("Failed to journal block", zap.Int("number", b.Contents.BlockNumber), zap.Error(err))
			if j.err == nil {
				j.err = err
			}
		}
	}
}

// Record queues b for writing. It blocks when the write buffer is full.
func (j *Journal) Record(b block.Block) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return ErrJournalClosed
	}
	j.blocks <- b
	return nil
}

// Close flushes queued blocks and closes the file.
func (j *Journal) Close() error {
	j.mu.Lock()
	if j.closed {
		j.mu.Unlock()
		return nil
	}
	j.closed = true
	close(j.blocks)
	j.mu.Unlock()

	<-j.done
	if err := j.file.Close(); err != nil && j.err == nil {
		return err
	}
	return j.err
}

// ReadJournal reassembles the chain recorded in a journal file.
func ReadJournal(path string) (block.Chain, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	defer file.Close()

	chain := make(block.Chain, 0)
	dec := json.NewDecoder(file)
	for {
		var b block.Block
		err := dec.Decode(&b)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: journal entry %d: %v", block.ErrMalformedInput, len(chain), err)
		}
		chain = append(chain, b)
	}
	return chain, nil
}
