package cmd

import (
	"sort"
	"strconv"

	"github.com/pterm/pterm"

	"github.com/sumit0202/hashledger/block"
)

func sortedAccounts(m map[string]int64) []string {
	accounts := make([]string, 0, len(m))
	for account := range m {
		accounts = append(accounts, account)
	}
	sort.Strings(accounts)
	return accounts
}

func printBalances(state block.State) error {
	data := pterm.TableData{{"Account", "Balance"}}
	for _, account := range sortedAccounts(state) {
		data = append(data, []string{account, strconv.FormatInt(state[account], 10)})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func printBlocks(chain block.Chain) error {
	for _, b := range chain {
		parent := b.GetParentHash()
		if b.IsGenesis() {
			parent = "(genesis)"
		}

		pterm.DefaultSection.Printfln("Block %d", b.Contents.BlockNumber)
		pterm.Println("Hash:              " + b.Hash)
		pterm.Println("Parent Hash:       " + parent)
		pterm.Println("Transaction Count: " + strconv.Itoa(b.Contents.TransactionCount))

		data := pterm.TableData{{"Txn", "Account", "Delta"}}
		for i, tx := range b.Contents.Transactions {
			for _, account := range sortedAccounts(tx) {
				data = append(data, []string{strconv.Itoa(i), account, strconv.FormatInt(tx[account], 10)})
			}
		}
		if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
			return err
		}
	}
	return nil
}
