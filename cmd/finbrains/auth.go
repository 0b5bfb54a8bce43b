package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/finbrains/finbrains/internal/api"
	"github.com/finbrains/finbrains/internal/cli"
	"github.com/finbrains/finbrains/internal/config"
)

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the backend session",
		Long:  `Store, inspect, or clear the backend session token. The token file is the only local state finbrains keeps.`,
	}

	cmd.AddCommand(authLoginCmd())
	cmd.AddCommand(authLogoutCmd())
	cmd.AddCommand(authStatusCmd())
	return cmd
}

func authLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <token>",
		Short: "Save a backend session token",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			sessionPath, err := config.SessionPath()
			if err != nil {
				return err
			}

			session := api.NewSession()
			session.Set(args[0])
			if err := session.Save(sessionPath); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess("Session saved"))
			return nil
		},
	}
}

func authLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the saved session",
		RunE: func(_ *cobra.Command, _ []string) error {
			sessionPath, err := config.SessionPath()
			if err != nil {
				return err
			}

			session, err := api.LoadSession(sessionPath)
			if err != nil {
				return err
			}
			session.Clear()
			if err := session.Save(sessionPath); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess("Session cleared"))
			return nil
		},
	}
}

func authStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether a session is saved",
		RunE: func(_ *cobra.Command, _ []string) error {
			sessionPath, err := config.SessionPath()
			if err != nil {
				return err
			}

			session, err := api.LoadSession(sessionPath)
			if err != nil {
				return err
			}
			if _, ok := session.Token(); ok {
				fmt.Println(cli.FormatSuccess("Logged in"))
			} else {
				fmt.Println(cli.SubtleStyle.Render("Not logged in"))
			}
			return nil
		},
	}
}
