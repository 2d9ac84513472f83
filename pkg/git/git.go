// Package git runs the git commands actup needs to check out and patch repositories.
package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

type Client struct {
	bin     string
	secrets []string
}

// New returns a Client. secrets such as access tokens are masked in error messages.
func New(secrets ...string) *Client {
	s := make([]string, 0, len(secrets))
	for _, secret := range secrets {
		if secret != "" {
			s = append(s, secret)
		}
	}
	return &Client{bin: "git", secrets: s}
}

func (c *Client) mask(s string) string {
	for _, secret := range c.secrets {
		s = strings.ReplaceAll(s, secret, "***")
	}
	return s
}

func (c *Client) run(ctx context.Context, dir string, args ...string) (string, error) {
	if dir != "" {
		args = append([]string{"-C", dir}, args...)
	}
	cmd := exec.CommandContext(ctx, c.bin, args...)
	cmd.Env = append(cmd.Environ(), "GIT_TERMINAL_PROMPT=0")
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s: %w: %s", c.mask(strings.Join(args, " ")), err, c.mask(strings.TrimSpace(stderr.String())))
	}
	return strings.TrimSpace(stdout.String()), nil
}

// ShallowClone clones the default branch of url into dir with depth 1.
func (c *Client) ShallowClone(ctx context.Context, url, dir string) error {
	_, err := c.run(ctx, "", "clone", "--depth", "1", url, dir)
	return err
}

// SparseClone clones only the top level directory sparseDir of the default branch.
func (c *Client) SparseClone(ctx context.Context, url, dir, sparseDir string) error {
	if _, err := c.run(ctx, "", "clone", "--depth", "1", "--filter=blob:none", "--sparse", url, dir); err != nil {
		return err
	}
	_, err := c.run(ctx, dir, "sparse-checkout", "set", sparseDir)
	return err
}

func (c *Client) CheckoutNewBranch(ctx context.Context, dir, branch string) error {
	_, err := c.run(ctx, dir, "checkout", "-b", branch)
	return err
}

// Add stages paths relative to dir.
func (c *Client) Add(ctx context.Context, dir string, paths ...string) error {
	_, err := c.run(ctx, dir, append([]string{"add", "--"}, paths...)...)
	return err
}

func (c *Client) Commit(ctx context.Context, dir, message string) error {
	_, err := c.run(ctx, dir, "commit", "-m", message)
	return err
}

func (c *Client) Push(ctx context.Context, dir, branch string) error {
	_, err := c.run(ctx, dir, "push", "origin", branch)
	return err
}
