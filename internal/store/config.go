package store

import (
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	GraphEndpoint  string `yaml:"graph_endpoint"`
	QuoterEndpoint string `yaml:"quoter_endpoint"`
	RPCURL         string `yaml:"rpc_url"`

	ChainID         int64  `yaml:"chain_id"`
	CollateralAsset string `yaml:"collateral_asset"`
	BaseTokenName   string `yaml:"base_token_name"`

	// WagerWei is the fixed collateral amount wagered per run, as a decimal
	// wei string.
	WagerWei string `yaml:"wager_wei"`

	LLM struct {
		Provider    string  `yaml:"provider"`
		Model       string  `yaml:"model"`
		MaxTokens   int     `yaml:"max_tokens"`
		Temperature float32 `yaml:"temperature"`
		System      string  `yaml:"system"`
		WebSearch   bool    `yaml:"web_search"`
	} `yaml:"llm"`

	News struct {
		Enabled        bool `yaml:"enabled"`
		MaxHeadlines   int  `yaml:"max_headlines"`
		TimeoutSeconds int  `yaml:"timeout_seconds"`
	} `yaml:"news"`
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if c.GraphEndpoint == "" {
		return errors.New("graph_endpoint cannot be empty")
	}
	if c.QuoterEndpoint == "" {
		return errors.New("quoter_endpoint cannot be empty")
	}
	if c.RPCURL == "" {
		return errors.New("rpc_url cannot be empty")
	}
	if c.ChainID <= 0 {
		return fmt.Errorf("chain_id must be positive, got %d", c.ChainID)
	}
	if !isHexAddress(c.CollateralAsset) {
		return fmt.Errorf("collateral_asset '%s' is not a hex address", c.CollateralAsset)
	}
	if c.BaseTokenName == "" {
		return errors.New("base_token_name cannot be empty")
	}
	if _, err := c.Wager(); err != nil {
		return err
	}
	if c.News.Enabled && c.News.MaxHeadlines <= 0 {
		return errors.New("news.max_headlines must be positive when news is enabled")
	}
	return nil
}

// Wager parses WagerWei into a positive big integer.
func (c *Config) Wager() (*big.Int, error) {
	w, ok := new(big.Int).SetString(c.WagerWei, 10)
	if !ok || w.Sign() <= 0 {
		return nil, fmt.Errorf("wager_wei must be a positive decimal integer, got '%s'", c.WagerWei)
	}
	return w, nil
}

func isHexAddress(s string) bool {
	if !strings.HasPrefix(s, "0x") || len(s) != 42 {
		return false
	}
	for _, r := range s[2:] {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
