package github

import (
	"fmt"

	"github.com/zalando/go-keyring"
)

// KeyService is the keyring service under which actup stores the token.
const KeyService = "suzuki-shunsuke/actup"

const keyUser = "GITHUB_TOKEN"

// TokenManager reads and writes the GitHub access token in the OS keyring.
type TokenManager struct {
	service string
}

func NewTokenManager() *TokenManager {
	return &TokenManager{service: KeyService}
}

func (tm *TokenManager) GetToken() (string, error) {
	token, err := keyring.Get(tm.service, keyUser)
	if err != nil {
		return "", fmt.Errorf("get a GitHub access token from the keyring: %w", err)
	}
	return token, nil
}

func (tm *TokenManager) SetToken(token string) error {
	if err := keyring.Set(tm.service, keyUser, token); err != nil {
		return fmt.Errorf("store a GitHub access token in the keyring: %w", err)
	}
	return nil
}

// RemoveToken deletes the token. Removing a missing token is an error.
func (tm *TokenManager) RemoveToken() error {
	if err := keyring.Delete(tm.service, keyUser); err != nil {
		return fmt.Errorf("delete a GitHub access token from the keyring: %w", err)
	}
	return nil
}
