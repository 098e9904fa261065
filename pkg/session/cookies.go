package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"tweetsearch/pkg/logger"
)

// cookieFile is the on-disk cookie cache
type cookieFile struct {
	Cookies map[string]string `json:"cookies"`
	SavedAt time.Time         `json:"saved_at"`
	Version int               `json:"version"`
}

// CookieStore persists session cookies between runs
type CookieStore struct {
	path   string
	logger logger.Logger
}

// NewCookieStore creates a store at path
func NewCookieStore(path string, log logger.Logger) *CookieStore {
	if log == nil {
		log = logger.GetLogger()
	}
	return &CookieStore{path: path, logger: log}
}

// Path returns the cookie file location
func (s *CookieStore) Path() string {
	return s.path
}

// Load returns the cached cookies. A missing or empty file yields nil.
func (s *CookieStore) Load() (map[string]string, error) {
	content, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) || (err == nil && len(content) == 0) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cookie file: %w", err)
	}

	var file cookieFile
	if err := json.Unmarshal(content, &file); err != nil {
		return nil, fmt.Errorf("failed to decode cookie file: %w", err)
	}
	if len(file.Cookies) == 0 {
		return nil, nil
	}

	s.logger.DebugWithFields("Cookies loaded", map[string]interface{}{
		"path":     s.path,
		"count":    len(file.Cookies),
		"saved_at": file.SavedAt,
	})
	return file.Cookies, nil
}

// Save writes cookies atomically through a temp file and rename
func (s *CookieStore) Save(cookies map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create cookie directory: %w", err)
	}

	tempPath := s.path + ".tmp"
	file, err := os.OpenFile(tempPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to create temporary cookie file: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(cookieFile{Cookies: cookies, SavedAt: time.Now(), Version: 1}); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to encode cookies: %w", err)
	}

	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to sync cookie file: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close cookie file: %w", err)
	}

	if err := os.Rename(tempPath, s.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace cookie file: %w", err)
	}

	s.logger.DebugWithFields("Cookies saved", map[string]interface{}{
		"path":  s.path,
		"count": len(cookies),
	})
	return nil
}

// Delete removes the cookie file
func (s *CookieStore) Delete() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete cookie file: %w", err)
	}
	return nil
}

// Exists reports whether a cookie file is present
func (s *CookieStore) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}
