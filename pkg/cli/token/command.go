// Package token implements the 'actup token' command.
// The token is kept in the OS keyring and used when the environment variable is unset.
package token

import (
	"context"
	"os"

	"github.com/suzuki-shunsuke/actup/pkg/controller/token"
	"github.com/suzuki-shunsuke/actup/pkg/github"
	"github.com/urfave/cli/v3"
)

func New() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Manage the GitHub access token in the OS keyring",
		Commands: []*cli.Command{
			{
				Name:  "set",
				Usage: "Read a GitHub access token from stdin and store it",
				Description: `$ echo "$GITHUB_TOKEN" | actup token set
`,
				Action: func(context.Context, *cli.Command) error {
					return token.New(os.Stdin, github.NewTokenManager()).Set() //nolint:wrapcheck
				},
			},
			{
				Name:  "rm",
				Usage: "Remove the GitHub access token",
				Action: func(context.Context, *cli.Command) error {
					return token.New(os.Stdin, github.NewTokenManager()).Remove() //nolint:wrapcheck
				},
			},
		},
	}
}
