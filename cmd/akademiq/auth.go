package main

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"
)

func newAuthCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Log in, register or log out",
	}
	cmd.AddCommand(
		newCredentialCmd(a, "login", "Log in with email and password"),
		newCredentialCmd(a, "register", "Create an account and log in"),
		&cobra.Command{
			Use:   "logout",
			Short: "Forget the saved token",
			RunE: func(cmd *cobra.Command, args []string) error {
				a.session.Token = ""
				a.session.Email = ""
				a.api.SetToken("")
				if err := a.saveSession(); err != nil {
					return err
				}
				a.printf("Logged out\n")
				return nil
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show the current session",
			RunE: func(cmd *cobra.Command, args []string) error {
				if a.session.Authenticated() {
					a.printf("Logged in as %s\n", orDash(a.session.Email))
				} else {
					a.printf("Not logged in\n")
				}
				if a.session.DocumentID != "" {
					a.printf("Document: %s (%s)\n", a.session.DocumentID, orDash(a.session.FileName))
				} else {
					a.printf("Document: none\n")
				}
				a.printf("Backend: %s\n", a.api.BaseURL())
				return nil
			},
		},
	)
	return cmd
}

func newCredentialCmd(a *app, mode, short string) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   mode,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var err error
			if email == "" {
				if email, err = a.ask(ctx, "Email", ""); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = a.askSecret(ctx, "Password"); err != nil {
					return err
				}
			}
			if strings.TrimSpace(email) == "" || password == "" {
				return a.fail(errors.New("email and password are required"))
			}
			token, err := a.authenticate(ctx, mode, email, password)
			if err != nil {
				return a.fail(err)
			}
			a.session.Token = token
			a.session.Email = email
			if err := a.saveSession(); err != nil {
				return err
			}
			if mode == "register" {
				a.printf("Registered and logged in as %s\n", email)
			} else {
				a.printf("Logged in as %s\n", email)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password (prompted when omitted)")
	return cmd
}

func (a *app) authenticate(ctx context.Context, mode, email, password string) (string, error) {
	if mode == "register" {
		return a.api.Register(ctx, email, password)
	}
	return a.api.Login(ctx, email, password)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
