package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version of the godash CLI.
const Version = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of godash",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("godash version %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
