package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/sumit0202/hashledger/block"
	"github.com/sumit0202/hashledger/store"
)

func (a *app) newInitCmd() *cobra.Command {
	var alloc []string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the genesis block with the initial allocation",
		Example: `  hashledger init --alloc Tom=10
  hashledger init --alloc Tom=10 --alloc Sam=5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tx, err := parseTransaction(alloc)
			if err != nil {
				return err
			}

			l, err := a.openLedger()
			if err != nil {
				return err
			}
			defer l.Close()

			genesis, err := l.Init(tx)
			if err != nil {
				return err
			}
			pterm.Success.Printfln("Created genesis block %s", genesis.Hash)
			return printBalances(l.Balances())
		},
	}
	cmd.Flags().StringSliceVar(&alloc, "alloc", nil, "initial balance as NAME=AMOUNT, repeatable")
	return cmd
}

func (a *app) newSubmitCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "submit NAME=DELTA...",
		Short:   "Submit one transaction as a new block",
		Example: "  hashledger submit Tom=-3 Sam=3",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tx, err := parseTransaction(args)
			if err != nil {
				return err
			}

			l, err := a.openLedger()
			if err != nil {
				return err
			}
			defer l.Close()

			b, err := l.Submit(tx)
			if err != nil {
				return err
			}
			pterm.Success.Printfln("Appended block %d %s", b.Contents.BlockNumber, b.Hash)
			return printBalances(l.Balances())
		},
	}
}

func (a *app) newBalancesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balances",
		Short: "Print the current account balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.openLedger()
			if err != nil {
				return err
			}
			defer l.Close()

			return printBalances(l.Balances())
		},
	}
}

func (a *app) newShowCmd() *cobra.Command {
	var hash string
	cmd := &cobra.Command{
		Use:   "show [NUMBER]",
		Short: "Print one block, or every block when no number is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.openLedger()
			if err != nil {
				return err
			}
			defer l.Close()

			switch {
			case hash != "":
				b, err := l.BlockByHash(hash)
				if err != nil {
					return err
				}
				return printBlocks(block.Chain{b})
			case len(args) == 1:
				number, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid block number %q", args[0])
				}
				b, err := l.BlockByNumber(number)
				if err != nil {
					return err
				}
				return printBlocks(block.Chain{b})
			default:
				return printBlocks(l.Snapshot())
			}
		},
	}
	cmd.Flags().StringVar(&hash, "hash", "", "look the block up by hash instead of number")
	return cmd
}

func (a *app) newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [FILE]",
		Short: "Replay a chain from genesis and print its final balances",
		Long: `Replay the stored chain, or the JSON chain in FILE, from genesis. Every
transaction must conserve value and keep balances non-negative, and every
block must carry the hash of its contents and link to its parent.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				state block.State
				err   error
			)
			if len(args) == 1 {
				state, err = validateFile(args[0])
			} else {
				state, err = a.validateStore()
			}
			if err != nil {
				return describeValidation(err)
			}

			pterm.Success.Println("Chain is valid")
			return printBalances(state)
		},
	}
}

func validateFile(fileName string) (block.State, error) {
	data, err := store.ReadChainFile(fileName)
	if err != nil {
		return nil, err
	}
	return block.ValidateChain(block.SerializedBytes(data))
}

func (a *app) validateStore() (block.State, error) {
	l, err := a.openLedger()
	if err != nil {
		return nil, err
	}
	defer l.Close()
	return l.Verify()
}

// describeValidation separates input that is not a chain at all from a
// chain that fails its checks.
func describeValidation(err error) error {
	if errors.Is(err, block.ErrMalformedInput) {
		return fmt.Errorf("not a chain: %w", err)
	}
	return fmt.Errorf("invalid chain: %w", err)
}

func (a *app) newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export FILE",
		Short: "Write the stored chain to FILE as a JSON array",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.openLedger()
			if err != nil {
				return err
			}
			defer l.Close()

			chain := l.Snapshot()
			if err := store.WriteChainFile(args[0], chain); err != nil {
				return err
			}
			pterm.Success.Printfln("Exported %d blocks to %s", len(chain), args[0])
			return nil
		},
	}
}
