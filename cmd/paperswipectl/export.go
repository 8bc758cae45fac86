package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paperswipe/backend/internal/export"
	"github.com/paperswipe/backend/internal/repositories"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var (
		email  string
		format string
		tag    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a user's saved papers to stdout",
		Long: `Render a user's saved papers as BibTeX, CSV or plain text.

Examples:
  paperswipectl export --email someone@example.com --format csv
  paperswipectl export --email someone@example.com --format bibtex --tag reading > reading.bib`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}

			db, closeDB, err := opts.openDB()
			if err != nil {
				return err
			}
			defer closeDB()

			user, err := repositories.NewGormUserRepository(db).GetUserByEmail(email)
			if err != nil {
				return fmt.Errorf("%s: %w", email, err)
			}
			papers, err := repositories.NewGormSavedPaperRepository(db).GetSavedPapersByUser(user.ID, tag)
			if err != nil {
				return err
			}
			if len(papers) == 0 {
				return errors.New("no papers found to export")
			}

			fmt.Fprintln(cmd.OutOrStdout(), export.Render(f, papers))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&format, "format", string(export.BibTeX), "Output format: bibtex, csv or text")
	cmd.Flags().StringVar(&tag, "tag", "", "Only export papers with this tag")
	cmd.MarkFlagRequired("email")
	return cmd
}
