package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paperswipe/backend/internal/repositories"
)

func newUsersCmd(opts *rootOptions) *cobra.Command {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Manage user accounts",
	}

	usersCmd.AddCommand(&cobra.Command{
		Use:   "activate <email>",
		Short: "Allow an account to use the API again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setActive(cmd, opts, args[0], true)
		},
	})
	usersCmd.AddCommand(&cobra.Command{
		Use:   "deactivate <email>",
		Short: "Block an account from logging in and using protected routes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setActive(cmd, opts, args[0], false)
		},
	})
	return usersCmd
}

func setActive(cmd *cobra.Command, opts *rootOptions, email string, active bool) error {
	db, closeDB, err := opts.openDB()
	if err != nil {
		return err
	}
	defer closeDB()

	user, err := repositories.NewGormUserRepository(db).SetActive(email, active)
	if err != nil {
		return fmt.Errorf("%s: %w", email, err)
	}

	state := "deactivated"
	if active {
		state = "activated"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "User %d (%s) %s\n", user.ID, user.Email, state)
	return nil
}
