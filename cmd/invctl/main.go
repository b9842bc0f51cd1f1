package main

import (
	"os"

	"github.com/spf13/cobra"
)

var snapshotPath string

var rootCmd = &cobra.Command{
	Use:   "invctl",
	Short: "Manage an inventory snapshot file",
	Long: `invctl is a thin wrapper around the inventory store. Each command
loads the snapshot, applies one operation, and saves the snapshot back.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&snapshotPath, "file", "f", "inventory.txt", "snapshot file path")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
