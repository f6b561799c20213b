package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tosho/config"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("tosho %s\n", config.Version)
		fmt.Printf("  Commit: %s\n", config.GitCommit)
		fmt.Printf("  Built:  %s\n", config.BuildTime)
	},
}
