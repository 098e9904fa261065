package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"tweetsearch/pkg/config"
)

// Account holds the login for the search platform. Only the username is
// required to identify it; email is used by the login flow when the platform
// asks for extra verification.
type Account struct {
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	Password     string    `json:"password"`
	LastModified time.Time `json:"last_modified"`
}

// CredentialStore is the interface for storing and retrieving credentials
type CredentialStore interface {
	// Store saves credentials for a given account
	Store(account *Account) error

	// Retrieve gets credentials for a specific username
	Retrieve(username string) (*Account, error)

	// List returns all stored accounts
	List() ([]*Account, error)

	// Delete removes credentials for a specific username
	Delete(username string) error

	// Exists checks if credentials exist for a username
	Exists(username string) bool
}

// Source yields the account to log in with
type Source interface {
	Credentials(ctx context.Context) (*Account, error)
}

// SourceFunc adapts a function to Source
type SourceFunc func(ctx context.Context) (*Account, error)

// Credentials calls f
func (f SourceFunc) Credentials(ctx context.Context) (*Account, error) {
	return f(ctx)
}

// FromConfig returns a Source for the credentials section of the config,
// or ErrCredentialsNotFound when it is incomplete
func FromConfig(cfg config.CredentialsConfig) Source {
	return SourceFunc(func(ctx context.Context) (*Account, error) {
		if cfg.Username == "" || cfg.Password == "" {
			return nil, ErrCredentialsNotFound
		}
		return &Account{Username: cfg.Username, Email: cfg.Email, Password: cfg.Password}, nil
	})
}

// Chain tries each source in order and returns the first account found
func Chain(sources ...Source) Source {
	return SourceFunc(func(ctx context.Context) (*Account, error) {
		for _, s := range sources {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if account, err := s.Credentials(ctx); err == nil && account != nil {
				return account, nil
			}
		}
		return nil, ErrCredentialsNotFound
	})
}

// Manager handles credential storage with fallback mechanisms
type Manager struct {
	stores []CredentialStore
}

// NewManager creates a manager backed by the system keychain when it is
// usable, an encrypted file in configDir, and the environment. An empty
// configDir uses the per-user config directory.
func NewManager(configDir string) (*Manager, error) {
	if configDir == "" {
		dir, err := getConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get config directory: %w", err)
		}
		configDir = dir
	}

	var stores []CredentialStore
	if keyringStore, err := NewKeyringStore(); err == nil {
		stores = append(stores, keyringStore)
	}

	encryptedStore, err := NewEncryptedFileStore(filepath.Join(configDir, "credentials.enc"), "")
	if err != nil {
		return nil, fmt.Errorf("failed to create encrypted store: %w", err)
	}
	stores = append(stores, encryptedStore, NewEnvironmentStore())

	return &Manager{stores: stores}, nil
}

// NewManagerWithStores creates a manager over the given stores, tried in order
func NewManagerWithStores(stores ...CredentialStore) *Manager {
	return &Manager{stores: stores}
}

// Store saves credentials using the first store that accepts them
func (m *Manager) Store(account *Account) error {
	if account == nil || account.Username == "" {
		return errors.New("username is required")
	}
	if account.Password == "" {
		return errors.New("password is required")
	}

	account.LastModified = time.Now()

	var lastErr error
	for _, store := range m.stores {
		err := store.Store(account)
		if err == nil {
			return nil
		}
		lastErr = err
	}

	if lastErr != nil {
		return fmt.Errorf("failed to store credentials: %w", lastErr)
	}
	return ErrStoreUnavailable
}

// Retrieve gets credentials from the first store that has them
func (m *Manager) Retrieve(username string) (*Account, error) {
	for _, store := range m.stores {
		if account, err := store.Retrieve(username); err == nil && account != nil {
			return account, nil
		}
	}
	return nil, fmt.Errorf("%w for user: %s", ErrCredentialsNotFound, username)
}

// RetrieveDefault prefers environment credentials, then the most recently
// modified stored account
func (m *Manager) RetrieveDefault() (*Account, error) {
	for _, store := range m.stores {
		if envStore, ok := store.(*EnvironmentStore); ok {
			if account, err := envStore.Retrieve(""); err == nil {
				return account, nil
			}
		}
	}

	accounts, err := m.List()
	if err == nil && len(accounts) > 0 {
		return accounts[0], nil
	}

	return nil, ErrCredentialsNotFound
}

// Credentials implements Source
func (m *Manager) Credentials(ctx context.Context) (*Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.RetrieveDefault()
}

// List returns all stored accounts, newest first. When several stores hold
// the same username the most recently modified copy wins.
func (m *Manager) List() ([]*Account, error) {
	byUser := make(map[string]*Account)

	for _, store := range m.stores {
		accounts, err := store.List()
		if err != nil {
			continue
		}
		for _, account := range accounts {
			if existing, ok := byUser[account.Username]; !ok || account.LastModified.After(existing.LastModified) {
				byUser[account.Username] = account
			}
		}
	}

	result := make([]*Account, 0, len(byUser))
	for _, account := range byUser {
		result = append(result, account)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].LastModified.Equal(result[j].LastModified) {
			return result[i].Username < result[j].Username
		}
		return result[i].LastModified.After(result[j].LastModified)
	})

	return result, nil
}

// Delete removes credentials from all stores
func (m *Manager) Delete(username string) error {
	var deleted bool
	var lastErr error

	for _, store := range m.stores {
		if err := store.Delete(username); err == nil {
			deleted = true
		} else {
			lastErr = err
		}
	}

	if deleted {
		return nil
	}
	if lastErr != nil && !errors.Is(lastErr, ErrCredentialsNotFound) && !errors.Is(lastErr, ErrStoreUnavailable) {
		return fmt.Errorf("failed to delete credentials: %w", lastErr)
	}
	return fmt.Errorf("%w for user: %s", ErrCredentialsNotFound, username)
}

// getConfigDir returns the per-user tweetsearch directory, creating it
func getConfigDir() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, "Library", "Application Support", "tweetsearch")
	case "windows":
		configDir = filepath.Join(os.Getenv("APPDATA"), "tweetsearch")
	default:
		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			configDir = filepath.Join(xdgConfig, "tweetsearch")
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			configDir = filepath.Join(home, ".config", "tweetsearch")
		}
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// SanitizeAccount returns a copy with the password and email masked
func SanitizeAccount(account *Account) *Account {
	if account == nil {
		return nil
	}

	sanitized := *account
	sanitized.Password = maskString(account.Password)
	if account.Email != "" {
		sanitized.Email = maskEmail(account.Email)
	}
	return &sanitized
}

// maskString masks all but the first 2 and last 2 characters of a string
func maskString(s string) string {
	if len(s) <= 8 {
		return "********"
	}
	return s[:2] + "..." + s[len(s)-2:]
}

func maskEmail(email string) string {
	for i := len(email) - 1; i >= 0; i-- {
		if email[i] == '@' {
			if i == 0 {
				return "***" + email
			}
			return email[:1] + "***" + email[i:]
		}
	}
	return maskString(email)
}

// Errors
var (
	ErrCredentialsNotFound = errors.New("credentials not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrStoreUnavailable    = errors.New("credential store unavailable")
)
