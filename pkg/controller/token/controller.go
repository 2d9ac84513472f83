// Package token stores and removes the GitHub access token kept in the OS keyring.
package token

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

var errEmptyToken = errors.New("the token is empty")

type TokenManager interface {
	SetToken(token string) error
	RemoveToken() error
}

type Controller struct {
	stdin        io.Reader
	tokenManager TokenManager
}

func New(stdin io.Reader, tokenManager TokenManager) *Controller {
	return &Controller{
		stdin:        stdin,
		tokenManager: tokenManager,
	}
}

// Set reads the first line of stdin and stores it as the token.
func (c *Controller) Set() error {
	line, err := bufio.NewReader(c.stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read a GitHub access token from stdin: %w", err)
	}
	token := strings.TrimSpace(line)
	if token == "" {
		return errEmptyToken
	}
	if err := c.tokenManager.SetToken(token); err != nil {
		return fmt.Errorf("set a GitHub access token to the secret store: %w", err)
	}
	return nil
}

func (c *Controller) Remove() error {
	if err := c.tokenManager.RemoveToken(); err != nil {
		return fmt.Errorf("remove a GitHub access token from the secret store: %w", err)
	}
	return nil
}
