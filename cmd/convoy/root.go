package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "convoy",
	Short: "Convoy is a supervisor/worker agent orchestration engine",
	Long: `Convoy routes conversations through a hierarchy of supervisors and
workers: each supervisor consults an oracle to pick the next worker,
workers invoke capabilities or whole nested teams, and results collapse
back into the conversation as digests.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("agency", "", "Path to a YAML agency definition (default: built-in travel agency)")
	rootCmd.PersistentFlags().String("redis", "", "Redis address for session persistence (default: in-memory)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}
