package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/sumit0202/hashledger/block"
	"github.com/sumit0202/hashledger/ledger"
	"github.com/sumit0202/hashledger/store"
)

var demoTransfers = []block.Transaction{
	{"Tom": -1, "Medium": 1},
	{"Tom": -3, "Sam": 3},
}

func newDemoCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a sample sequence of transfers in memory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := runDemo(out)
			if err != nil {
				return err
			}
			return printBalances(state)
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "also write the resulting chain to this JSON file")
	return cmd
}

// runDemo starts from {Tom: 10}, applies demoTransfers and returns the
// balances obtained by replaying the serialized chain.
func runDemo(out string) (block.State, error) {
	l, err := ledger.Open(store.NewMemoryStore())
	if err != nil {
		return nil, err
	}
	defer l.Close()

	if _, err := l.Init(block.Transaction{"Tom": 10}); err != nil {
		return nil, err
	}
	for _, tx := range demoTransfers {
		b, err := l.Submit(tx)
		if err != nil {
			return nil, err
		}
		pterm.Info.Printfln("Block %d: %v", b.Contents.BlockNumber, tx)
	}

	chain := l.Snapshot()
	data, err := json.Marshal(chain)
	if err != nil {
		return nil, err
	}
	state, err := block.ValidateChain(block.SerializedBytes(data))
	if err != nil {
		return nil, err
	}
	if !state.Equal(l.Balances()) {
		return nil, fmt.Errorf("%w: serialized replay", ledger.ErrStateDiverged)
	}

	if out != "" {
		if err := store.WriteChainFile(out, chain); err != nil {
			return nil, err
		}
		pterm.Success.Printfln("Wrote %d blocks to %s", len(chain), out)
	}
	return state, nil
}
