package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sumit0202/hashledger/block"
	"github.com/sumit0202/hashledger/config"
	"github.com/sumit0202/hashledger/ledger"
	"github.com/sumit0202/hashledger/store"
)

var ErrBadEntry = errors.New("entry must be NAME=AMOUNT")

func (a *app) openStore() (store.ChainStore, error) {
	var s store.ChainStore
	switch a.cfg.Store {
	case config.StoreMemory:
		s = store.NewMemoryStore()
	default:
		if err := os.MkdirAll(a.cfg.DataDir, 0755); err != nil {
			return nil, err
		}
		db, err := store.OpenLevelDB(a.cfg.DatabasePath())
		if err != nil {
			return nil, err
		}
		s = db
	}

	if a.cfg.CacheSize > 0 {
		cs, err := store.NewCachedStore(s, a.cfg.CacheSize)
		if err != nil {
			s.Close()
			return nil, err
		}
		s = cs
	}
	return s, nil
}

func (a *app) openLedger() (*ledger.Ledger, error) {
	s, err := a.openStore()
	if err != nil {
		return nil, err
	}

	var opts []ledger.Option
	var journal *store.Journal
	if a.cfg.Journal {
		if err := os.MkdirAll(a.cfg.DataDir, 0755); err != nil {
			s.Close()
			return nil, err
		}
		journal, err = store.OpenJournal(a.cfg.JournalPath())
		if err != nil {
			s.Close()
			return nil, err
		}
		opts = append(opts, ledger.WithJournal(journal))
	}

	l, err := ledger.Open(s, opts...)
	if err != nil {
		s.Close()
		if journal != nil {
			journal.Close()
		}
		return nil, err
	}
	return l, nil
}

// parseTransaction turns NAME=AMOUNT arguments into a transaction. Each
// account may appear once.
func parseTransaction(entries []string) (block.Transaction, error) {
	tx := make(block.Transaction, len(entries))
	for _, entry := range entries {
		name, amount, ok := strings.Cut(entry, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: %q", ErrBadEntry, entry)
		}
		delta, err := strconv.ParseInt(strings.TrimSpace(amount), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrBadEntry, entry, err)
		}
		if _, dup := tx[name]; dup {
			return nil, fmt.Errorf("%w: account %q given twice", ErrBadEntry, name)
		}
		tx[name] = delta
	}
	return tx, nil
}
