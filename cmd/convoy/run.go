package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/convoy/internal/cli"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Chat with the agency interactively",
	Long:  `Starts an interactive chat session. Each input is driven through the supervisor hierarchy to a final answer.`,
	Run: func(cmd *cobra.Command, args []string) {
		opts := cli.RunOptions{}
		opts.AgencyPath, _ = cmd.Flags().GetString("agency")
		opts.RedisAddr, _ = cmd.Flags().GetString("redis")
		opts.Debug, _ = cmd.Flags().GetBool("debug")
		opts.SessionID, _ = cmd.Flags().GetString("session")
		opts.Fresh, _ = cmd.Flags().GetBool("fresh")
		opts.JSON, _ = cmd.Flags().GetBool("json")
		opts.Model, _ = cmd.Flags().GetString("model")
		opts.BaseURL, _ = cmd.Flags().GetString("base-url")

		if err := cli.RunChat(opts); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("session", "", "Session ID to resume (default: a fresh random session)")
	runCmd.Flags().Bool("fresh", false, "Reset the session history before the first turn")
	runCmd.Flags().Bool("json", false, "Emit turn progress as NDJSON instead of the chat view")
	runCmd.Flags().String("model", "", "Oracle model override")
	runCmd.Flags().String("base-url", "", "Oracle API base URL override")

	rootCmd.Run = runCmd.Run
}
