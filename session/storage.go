// Package session persists per-domain HTTP session state (headers and
// cookies) between runs. Files live under the user config directory, one
// JSON file per provider domain.
package session

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

// Data is the session state cached for one domain.
type Data struct {
	Headers map[string]string `json:"headers"`
	Cookies map[string]string `json:"cookies"`
	SavedAt time.Time         `json:"saved_at"`
}

func sessionDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	return filepath.Join(configDir, "ryujin", "session"), nil
}

func sessionFile(domain string) (string, error) {
	dir, err := sessionDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fmt.Sprintf("%s.json", domain)), nil
}

// Save writes the session state for a domain, creating the directory if
// needed. Called after a successful login.
func Save(domain string, data *Data) error {
	dir, err := sessionDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data.SavedAt = time.Now()

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session data: %w", err)
	}

	filename := filepath.Join(dir, fmt.Sprintf("%s.json", domain))
	if err := os.WriteFile(filename, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	log.Printf("[Session] Saved session for %s (%d headers, %d cookies)",
		domain, len(data.Headers), len(data.Cookies))
	return nil
}

// Load reads the cached session state for a domain.
func Load(domain string) (*Data, error) {
	filename, err := sessionFile(domain)
	if err != nil {
		return nil, err
	}

	jsonData, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no session found for domain: %s", domain)
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var data Data
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}

	return &data, nil
}

// Delete removes the cached session for a domain. A missing file is not an
// error: the intent is "make sure no stale session survives".
func Delete(domain string) error {
	filename, err := sessionFile(domain)
	if err != nil {
		return err
	}

	if err := os.Remove(filename); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to delete session file: %w", err)
	}

	log.Printf("[Session] Deleted session for %s", domain)
	return nil
}

// List returns the domains that currently have a cached session.
func List() ([]string, error) {
	dir, err := sessionDir()
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read session directory: %w", err)
	}

	var domains []string
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".json" {
			domains = append(domains, entry.Name()[:len(entry.Name())-5])
		}
	}
	return domains, nil
}
