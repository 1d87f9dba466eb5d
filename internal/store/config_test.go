package store

import (
	"os"
	"path/filepath"
	"testing"
)

func validConfig() Config {
	c := Config{
		GraphEndpoint:   "https://api.example.org/graphql",
		QuoterEndpoint:  "https://api.example.org",
		RPCURL:          "https://mainnet.base.org",
		ChainID:         8453,
		CollateralAsset: "0x5875eEE11Cf8398102FdAd704C9E96607675467a",
		BaseTokenName:   "sUSDS",
		WagerWei:        "1000000000000000000",
	}
	return c
}

func TestLoadConfig(t *testing.T) {
	yaml := `
graph_endpoint: "https://api.example.org/graphql"
quoter_endpoint: "https://api.example.org"
rpc_url: "https://mainnet.base.org"
chain_id: 8453
collateral_asset: "0x5875eEE11Cf8398102FdAd704C9E96607675467a"
base_token_name: "sUSDS"
wager_wei: "1000000000000000000"
llm:
  provider: "OPENAI"
  model: "gpt-4o-search-preview"
  max_tokens: 64
news:
  enabled: true
  max_headlines: 6
`
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ChainID != 8453 {
		t.Errorf("expected chain id 8453, got %d", cfg.ChainID)
	}
	if cfg.LLM.Model != "gpt-4o-search-preview" {
		t.Errorf("unexpected model: %s", cfg.LLM.Model)
	}
	if !cfg.News.Enabled || cfg.News.MaxHeadlines != 6 {
		t.Errorf("unexpected news config: %+v", cfg.News)
	}

	wager, err := cfg.Wager()
	if err != nil {
		t.Fatal(err)
	}
	if wager.String() != "1000000000000000000" {
		t.Errorf("unexpected wager: %s", wager)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty graph endpoint", func(c *Config) { c.GraphEndpoint = "" }},
		{"empty quoter endpoint", func(c *Config) { c.QuoterEndpoint = "" }},
		{"empty rpc url", func(c *Config) { c.RPCURL = "" }},
		{"zero chain id", func(c *Config) { c.ChainID = 0 }},
		{"negative chain id", func(c *Config) { c.ChainID = -1 }},
		{"bad collateral address", func(c *Config) { c.CollateralAsset = "not-an-address" }},
		{"short collateral address", func(c *Config) { c.CollateralAsset = "0x1234" }},
		{"empty base token", func(c *Config) { c.BaseTokenName = "" }},
		{"empty wager", func(c *Config) { c.WagerWei = "" }},
		{"zero wager", func(c *Config) { c.WagerWei = "0" }},
		{"negative wager", func(c *Config) { c.WagerWei = "-5" }},
		{"non-numeric wager", func(c *Config) { c.WagerWei = "1.5e18" }},
		{"news enabled without headlines", func(c *Config) { c.News.Enabled = true; c.News.MaxHeadlines = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := validConfig()
			tc.mutate(&c)
			if err := c.Validate(); err == nil {
				t.Error("expected a validation error")
			}
		})
	}

	c := validConfig()
	if err := c.Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}
}
