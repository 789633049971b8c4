package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/convoy/internal/agency"
	"github.com/aretw0/convoy/internal/presentation/graph"
	"github.com/aretw0/convoy/pkg/config"
	"github.com/aretw0/convoy/pkg/registry"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the agency hierarchy visualization",
	Long:  `Outputs a Mermaid diagram (graph TD) of the supervisor/worker hierarchy.`,
	Run: func(cmd *cobra.Command, args []string) {
		agencyPath, _ := cmd.Flags().GetString("agency")

		def := agency.Definition(time.Now(), registry.New())
		if agencyPath != "" {
			cfg, err := config.Load(agencyPath)
			if err != nil {
				fmt.Printf("Error loading agency: %v\n", err)
				os.Exit(1)
			}
			compiled, err := cfg.Compile(agency.Capabilities())
			if err != nil {
				fmt.Printf("Error compiling agency: %v\n", err)
				os.Exit(1)
			}
			def = compiled
		}

		fmt.Print(graph.GenerateMermaid(def))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
