package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/convoy"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of convoy",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("convoy version %s\n", strings.TrimSpace(convoy.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
