package server

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/bingohall/internal/game"
)

// ServerConfig represents the complete server configuration
type ServerConfig struct {
	Server   ServerSettings  `hcl:"server,block"`
	Game     GameSettings    `hcl:"game,block"`
	Admins   []string        `hcl:"admins,optional"`
	Accounts []AccountConfig `hcl:"account,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
	Seed     int64  `hcl:"seed,optional"`
}

// GameSettings is the global session configuration applied to new sessions.
type GameSettings struct {
	EntryFee    int64 `hcl:"entry_fee,optional"`
	JoinSeconds int   `hcl:"join_seconds,optional"`
	TurnSeconds int   `hcl:"turn_seconds,optional"`
}

// AccountConfig seeds the in-memory ledger with a funded participant.
type AccountConfig struct {
	Name    string `hcl:"name,label"`
	Balance int64  `hcl:"balance"`
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
		},
		Game: GameSettings{
			EntryFee:    10,
			JoinSeconds: 60,
			TurnSeconds: 60,
		},
	}
}

// LoadServerConfig loads server configuration from an HCL file, falling back
// to defaults when the file does not exist.
func LoadServerConfig(filename string) (*ServerConfig, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultServerConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config ServerConfig
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	// Apply defaults for missing values
	if config.Server.Address == "" {
		config.Server.Address = "localhost"
	}
	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = "info"
	}
	if config.Game.EntryFee == 0 {
		config.Game.EntryFee = 10
	}
	if config.Game.JoinSeconds == 0 {
		config.Game.JoinSeconds = 60
	}
	if config.Game.TurnSeconds == 0 {
		config.Game.TurnSeconds = 60
	}

	return &config, nil
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	if err := c.GameConfig().Validate(); err != nil {
		return fmt.Errorf("game block: %w", err)
	}

	for _, account := range c.Accounts {
		if account.Balance < 0 {
			return fmt.Errorf("account %s: balance must not be negative", account.Name)
		}
	}

	return nil
}

// GameConfig converts the game block into the registry's configuration.
func (c *ServerConfig) GameConfig() game.Config {
	return game.Config{
		EntryFee:     c.Game.EntryFee,
		JoinDuration: time.Duration(c.Game.JoinSeconds) * time.Second,
		TurnDuration: time.Duration(c.Game.TurnSeconds) * time.Second,
	}
}

// GetServerAddress returns the full server address
func (c *ServerConfig) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}
