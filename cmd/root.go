package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jkvdb/jKV/cmd/kv"
)

const (
	Version = "1.0.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "jkv",
		Short: "journaling key-value store",
		Long: fmt.Sprintf(`jKV (v%s)

A journaling key-value store library and CLI written in Go:
every mutation is appended to a compressed redo log so the
store's logical state can be rebuilt by replaying the log.`, Version),
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of jKV",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("jKV v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(kv.KeyValueCommands)
	RootCmd.AddCommand(versionCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
