package block

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrIntegrity          = errors.New("block hash mismatch")
	ErrSequence           = errors.New("block number out of sequence")
	ErrLinkage            = errors.New("parent hash mismatch")
	ErrMalformedInput     = errors.New("malformed chain input")
	ErrPrecondition       = errors.New("precondition failed")
	ErrArithmetic         = errors.New("balance overflow")
)

// BlockError records which block of a chain failed validation.
type BlockError struct {
	Number int
	Err    error
}

func (e *BlockError) Error() string {
	return fmt.Sprintf("block %d: %v", e.Number, e.Err)
}

func (e *BlockError) Unwrap() error {
	return e.Err
}
