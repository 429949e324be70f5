// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads catalog credentials from a directory of plain-text
// files. Each file holds one secret: the filename is the key name and the
// trimmed file contents are the value.
//
// Supported key files: opac-username, opac-password.
package secrets

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/opac-connector/pkg/types"
)

// Key files read by ApplyHTTP.
const (
	KeyUsername = "opac-username"
	KeyPassword = "opac-password"
)

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files are logged and skipped.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			slog.Warn("could not read secret", "name", name, "error", err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// ApplyHTTP fills the basic-auth credentials of cfg from secrets. Values
// already set in the configuration win.
func ApplyHTTP(secrets map[string]string, cfg *types.HTTPConfig) {
	if cfg.Username == "" {
		cfg.Username = secrets[KeyUsername]
	}
	if cfg.Password == "" {
		cfg.Password = secrets[KeyPassword]
	}
}
