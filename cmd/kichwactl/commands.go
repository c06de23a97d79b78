package main

import (
	"context"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/opengovern/kichwa-bridge/api"
	"github.com/opengovern/kichwa-bridge/internal"
)

func newLoginCommand(opts *options) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Open a session and store its credentials",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd, func(ctx context.Context, a *app) error {
				if err := a.client.Login(ctx, api.LoginValues{Email: email, Password: password}); err != nil {
					return err
				}
				a.printf("logged in as %s\n", email)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Close the session and forget its credentials",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd, func(ctx context.Context, a *app) error {
				if err := a.client.Logout(ctx); err != nil {
					return err
				}
				a.printf("logged out\n")
				return nil
			})
		},
	}
}

func newWhoamiCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the profile of the current session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd, func(ctx context.Context, a *app) error {
				tok, err := a.sessions.Token(ctx)
				if err != nil {
					return err
				}
				if tok.AccessToken == "" {
					return errors.New("not logged in")
				}
				if !tok.Expiry.IsZero() && !internal.IsInFuture(tok.Expiry) {
					a.printf("access token expired %s ago, it will be refreshed\n", time.Since(tok.Expiry).Round(time.Second))
				}
				profile, err := a.client.Profile(ctx)
				if err != nil {
					return err
				}
				return a.printJSON(profile)
			})
		},
	}
}

func newCoursesCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "courses",
		Short: "List the courses of the current user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd, func(ctx context.Context, a *app) error {
				courses, err := a.client.MyCourses(ctx)
				if err != nil {
					return err
				}
				return a.printJSON(courses)
			})
		},
	}
}

func newLessonCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "lesson <id>",
		Short: "Show a lesson with its glossaries, resources and evaluations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return errors.Wrapf(err, "invalid lesson id %q", args[0])
			}
			return opts.run(cmd, func(ctx context.Context, a *app) error {
				lesson, err := a.client.Lesson(ctx, id)
				if err != nil {
					return err
				}
				return a.printJSON(lesson)
			})
		},
	}
}

// get prints the raw envelope, including failures, since it is meant for
// poking at endpoints the typed client does not cover.
func newGetCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "get <path>",
		Short: "GET any API path and print the envelope",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, a *app) error {
				return a.printJSON(a.client.Gateway().Get(ctx, args[0], nil))
			})
		},
	}
}
