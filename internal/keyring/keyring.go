// Package keyring keeps the API token in the OS credential store.
package keyring

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/moodcheck/internal/constants"
)

var (
	// ErrNotFound is returned when no token is stored
	ErrNotFound = errors.New("API token not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// GetToken reads the stored API token.
func GetToken() (string, error) {
	token, err := keyring.Get(constants.AppName, constants.DefaultKeyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return token, nil
}

// SetToken stores the API token, replacing any previous one.
func SetToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("API token cannot be empty")
	}
	if err := keyring.Set(constants.AppName, constants.DefaultKeyringUser, token); err != nil {
		return fmt.Errorf("failed to store API token in keyring: %w", err)
	}
	return nil
}

// DeleteToken removes the stored API token.
func DeleteToken() error {
	err := keyring.Delete(constants.AppName, constants.DefaultKeyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete API token from keyring: %w", err)
	}
	return nil
}

// ResolveToken returns the token from the environment, falling back to the
// keyring. A missing or unavailable keyring yields an empty token.
func ResolveToken() string {
	if token := strings.TrimSpace(os.Getenv(constants.EnvAPIToken)); token != "" {
		return token
	}
	token, err := GetToken()
	if err != nil {
		return ""
	}
	return token
}

// IsAvailable checks if the OS keyring is available on the current system.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
