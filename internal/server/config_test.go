package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadServerConfigMissingFile(t *testing.T) {
	cfg, err := LoadServerConfig(filepath.Join(t.TempDir(), "absent.hcl"))
	require.NoError(t, err)
	assert.Equal(t, DefaultServerConfig(), cfg)
}

func TestLoadServerConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.hcl")
	content := `
server {
  address = "0.0.0.0"
  port    = 9000
}

game {
  max_players = 3
  open_start  = true
}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadServerConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9000", cfg.GetServerAddress())
	assert.Equal(t, "info", cfg.Server.LogLevel)

	gameCfg := cfg.GameConfig()
	assert.Equal(t, 3, gameCfg.MaxPlayers)
	assert.False(t, gameCfg.EnforceHost)
}

func TestServerConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ServerConfig)
		wantErr string
	}{
		{"defaults are valid", func(c *ServerConfig) {}, ""},
		{"port too low", func(c *ServerConfig) { c.Server.Port = 0 }, "invalid port"},
		{"port too high", func(c *ServerConfig) { c.Server.Port = 70000 }, "invalid port"},
		{"one player", func(c *ServerConfig) { c.Game.MaxPlayers = 1 }, "max players"},
		{"five players", func(c *ServerConfig) { c.Game.MaxPlayers = 5 }, "max players"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultServerConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}
