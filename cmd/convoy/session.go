package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/convoy/internal/cli"
	"github.com/aretw0/convoy/pkg/session"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage persistent sessions",
	Long:  `List, inspect, and remove persisted conversation sessions.`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all active sessions",
	Run: func(cmd *cobra.Command, args []string) {
		mgr := getSessions(cmd)
		sessions, err := mgr.List(cmd.Context())
		if err != nil {
			fmt.Printf("Error listing sessions: %v\n", err)
			os.Exit(1)
		}

		if len(sessions) == 0 {
			fmt.Println("No active sessions found.")
			return
		}

		fmt.Println("Active Sessions:")
		for _, s := range sessions {
			fmt.Println("- " + s)
		}
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <session-id>",
	Short: "Print the conversation log of a session",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		sessionID := args[0]
		mgr := getSessions(cmd)

		log, err := mgr.Load(cmd.Context(), sessionID)
		if err != nil {
			fmt.Printf("Error loading session '%s': %v\n", sessionID, err)
			os.Exit(1)
		}

		data, err := json.MarshalIndent(log, "", "  ")
		if err != nil {
			fmt.Printf("Error marshaling log: %v\n", err)
			os.Exit(1)
		}

		fmt.Println(string(data))
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <session-id>...",
	Short: "Remove one or more sessions",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		mgr := getSessions(cmd)
		hasError := false

		for _, sessionID := range args {
			if err := mgr.Delete(cmd.Context(), sessionID); err != nil {
				fmt.Printf("Error removing '%s': %v\n", sessionID, err)
				hasError = true
			} else {
				fmt.Printf("Removed session '%s'\n", sessionID)
			}
		}

		if hasError {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionInspectCmd)
	sessionCmd.AddCommand(sessionRmCmd)
}

func getSessions(cmd *cobra.Command) *session.Manager {
	opts := cli.RunOptions{}
	opts.AgencyPath, _ = cmd.Flags().GetString("agency")
	opts.RedisAddr, _ = cmd.Flags().GetString("redis")
	opts.Debug, _ = cmd.Flags().GetBool("debug")

	mgr, err := cli.BuildSessionManager(opts)
	if err != nil {
		fmt.Printf("Error opening session store: %v\n", err)
		os.Exit(1)
	}
	return mgr
}
