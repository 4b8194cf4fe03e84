package cmd

import (
	"fmt"
	"os"

	"stocksense/config"
	"stocksense/pkg/database"
	"stocksense/pkg/logger"

	"github.com/spf13/cobra"
)

var dbCheckCmd = &cobra.Command{
	Use:   "dbcheck",
	Short: "Check that the configured database is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		return checkDatabase()
	},
}

func checkDatabase() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "Error: DATABASE_URL environment variable is not set")
		return err
	}

	db, err := database.NewDB(cfg.DB, logger.NewNop())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Database connection failed: %v\n", err)
		return err
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		fmt.Fprintf(os.Stderr, "Database connection failed: %v\n", err)
		return err
	}

	fmt.Printf("Database connection successful (%s)\n", db.Driver())
	return nil
}
