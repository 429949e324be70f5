// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/opac-connector/pkg/types"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(t *testing.T) string
		want   map[string]string
		errMsg string
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "opac-username", "  reader  \n")
				writeFile(t, dir, "opac-password", "s3cret\n")
				return dir
			},
			want: map[string]string{
				"opac-username": "reader",
				"opac-password": "s3cret",
			},
		},
		{
			name: "returns empty map for nonexistent directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: map[string]string{},
		},
		{
			name: "skips empty files",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "opac-username", "reader")
				writeFile(t, dir, "opac-password", "")
				writeFile(t, dir, "whitespace-only", "   \n\t  ")
				return dir
			},
			want: map[string]string{
				"opac-username": "reader",
			},
		},
		{
			name: "skips dotfiles",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, ".gitkeep", "")
				writeFile(t, dir, ".opac-password", "old")
				writeFile(t, dir, "opac-password", "current")
				return dir
			},
			want: map[string]string{
				"opac-password": "current",
			},
		},
		{
			name: "skips subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "opac-username", "reader")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
				return dir
			},
			want: map[string]string{
				"opac-username": "reader",
			},
		},
		{
			name: "returns empty map for empty directory",
			setup: func(t *testing.T) string {
				return t.TempDir()
			},
			want: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := tt.setup(t)
			got, err := Load(dir)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadUnreadableFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read files without permission")
	}
	dir := t.TempDir()
	writeFile(t, dir, "opac-username", "reader")

	badPath := filepath.Join(dir, "opac-password")
	require.NoError(t, os.WriteFile(badPath, []byte("secret"), 0o000))
	t.Cleanup(func() { os.Chmod(badPath, 0o644) })

	got, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "reader", got["opac-username"])
	_, hasBad := got["opac-password"]
	assert.False(t, hasBad, "unreadable file should not appear in result")
}

func TestApplyHTTP(t *testing.T) {
	secrets := map[string]string{KeyUsername: "reader", KeyPassword: "s3cret"}

	var cfg types.HTTPConfig
	ApplyHTTP(secrets, &cfg)
	assert.Equal(t, "reader", cfg.Username)
	assert.Equal(t, "s3cret", cfg.Password)

	cfg = types.HTTPConfig{Username: "configured"}
	ApplyHTTP(secrets, &cfg)
	assert.Equal(t, "configured", cfg.Username, "configuration wins")
	assert.Equal(t, "s3cret", cfg.Password)

	cfg = types.HTTPConfig{}
	ApplyHTTP(map[string]string{}, &cfg)
	assert.Empty(t, cfg.Username)
	assert.Empty(t, cfg.Password)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
