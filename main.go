package main

import "github.com/sumit0202/hashledger/cmd"

func main() {
	cmd.Execute()
}
