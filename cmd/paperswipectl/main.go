// Package main provides the paperswipectl admin CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/paperswipe/backend/internal/models"
	"github.com/paperswipe/backend/pkg/config"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

// rootOptions are shared by every subcommand
type rootOptions struct {
	databaseURL string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "paperswipectl",
		Short: "Administrative tasks for the PaperSwipe backend",
		Long: `paperswipectl works directly against the PaperSwipe database.

Examples:
  paperswipectl users deactivate someone@example.com
  paperswipectl export --email someone@example.com --format bibtex --tag reading`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.databaseURL, "database", "", "Database URL (defaults to DATABASE_URL or the configured default)")

	rootCmd.AddCommand(newUsersCmd(opts))
	rootCmd.AddCommand(newExportCmd(opts))
	return rootCmd
}

// openDB opens and migrates the database named by --database or the config
func (o *rootOptions) openDB() (*gorm.DB, func(), error) {
	url := o.databaseURL
	if url == "" {
		url = config.Load().DatabaseURL
	}

	db, err := config.OpenDatabase(url)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		(&config.DB{Gorm: db}).CloseDB()
	}
	if err := models.Migrate(db); err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("migrate schema: %w", err)
	}
	return db, closeFn, nil
}
