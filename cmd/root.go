package cmd

import (
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sumit0202/hashledger/config"
	"github.com/sumit0202/hashledger/log"
)

const rootCmdLongDesc = `hashledger keeps an append-only chain of blocks, each holding transactions
that move balances between accounts. Every block is stamped with the SHA-256
hash of its contents and linked to its parent, and the whole chain can be
replayed from genesis to verify it and derive the final balances.`

// app carries the state shared by every subcommand of one root command.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     config.Config
}

// NewRootCmd builds the command tree with its own viper instance.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	config.SetDefaults(a.v)
	defaults := config.Default()

	rootCmd := &cobra.Command{
		Use:               "hashledger",
		Short:             "Append-only hash-linked account ledger",
		Long:              rootCmdLongDesc,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.initConfig,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.hashledger.yaml)")
	flags.String("datadir", defaults.DataDir, "data directory for the chain database and journal")
	flags.String("store", defaults.Store, "chain store backend ('leveldb' or 'memory')")
	flags.Int("cachesize", defaults.CacheSize, "number of blocks kept in the read cache, 0 disables it")
	flags.Bool("journal", defaults.Journal, "append committed blocks to ledger.txt in the data directory")
	flags.String("verbosity", defaults.Verbosity, "sets the logger verbosity level ('debug', 'info', 'warn', 'error')")
	for _, name := range []string{"datadir", "store", "cachesize", "journal", "verbosity"} {
		_ = a.v.BindPFlag(name, flags.Lookup(name))
	}

	rootCmd.AddCommand(
		a.newInitCmd(),
		a.newSubmitCmd(),
		a.newBalancesCmd(),
		a.newShowCmd(),
		a.newValidateCmd(),
		a.newExportCmd(),
		newDemoCmd(),
	)
	return rootCmd
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	defer log.Sync()

	if err := NewRootCmd().Execute(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

// initConfig reads in the config file and ENV variables if set.
func (a *app) initConfig(cmd *cobra.Command, args []string) error {
	if err := config.ReadInConfig(a.v, a.cfgFile); err != nil {
		return err
	}
	if used := a.v.ConfigFileUsed(); used != "" {
		log.Debug("Using config file: " + used)
	}

	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	if err := log.SetVerbosity(cfg.Verbosity); err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}
