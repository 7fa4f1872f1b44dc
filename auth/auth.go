// Package auth resolves and stores the DeepL API authentication key.
//
// Lookup order:
//  1. --auth-key flag (highest priority)
//  2. DEEPL_API_KEY environment variable, including values loaded from
//     a .env file in the working directory
//  3. OS keyring (saved via `deeploc auth login`)
package auth

import (
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/zalando/go-keyring"
	"golang.org/x/term"
)

const (
	serviceName = "deeploc"
	account     = "deepl-api-key"

	// EnvVar is the environment variable holding the API key.
	EnvVar = "DEEPL_API_KEY"
)

// ResolveKey returns the API key and a human-readable description of
// where it came from. An empty key means nothing was found.
func ResolveKey(flagValue string) (key, source string) {
	if flagValue != "" {
		return strings.TrimSpace(flagValue), "flag"
	}

	// A missing .env file is fine; the environment alone may be set.
	_ = godotenv.Load()
	if v := strings.TrimSpace(os.Getenv(EnvVar)); v != "" {
		return v, EnvVar
	}

	if v, err := keyring.Get(serviceName, account); err == nil && v != "" {
		return strings.TrimSpace(v), "keyring"
	}

	return "", ""
}

// SaveKey stores the key in the OS keyring.
func SaveKey(key string) error {
	return keyring.Set(serviceName, account, strings.TrimSpace(key))
}

// DeleteKey removes the key from the OS keyring.
func DeleteKey() error {
	err := keyring.Delete(serviceName, account)
	if err == keyring.ErrNotFound {
		return nil
	}
	return err
}

// Stored reports whether a key is present in the OS keyring.
func Stored() bool {
	key, err := keyring.Get(serviceName, account)
	return err == nil && key != ""
}

// MaskKey returns a masked version of a key for display.
func MaskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// PromptKey reads the API key from the terminal without echoing it.
func PromptKey(prompt string) (string, error) {
	fmt.Print(prompt)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}
