package cmd

import "github.com/spf13/cobra"

var rootCmd = &cobra.Command{
	Use:          "stocksense",
	Short:        "Stock dashboard backend",
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(dbCheckCmd)
}

func Execute() error {
	return rootCmd.Execute()
}
