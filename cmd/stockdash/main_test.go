package main

import (
	"testing"

	"github.com/seenimoa/stockdash/internal/config"
)

func TestApplyFlagsProviderOverride(t *testing.T) {
	for _, e := range []string{"PORT", "APP_ENV", "FLASK_ENV", "STOCKDASH_PROVIDER_NAME", "STOCKDASH_PROVIDER_API_KEY", "FMP_API_KEY"} {
		t.Setenv(e, "")
	}
	t.Setenv("ALPHAVANTAGE_API_KEY", "av-secret-key-123")

	c, err := config.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if err := rootCmd.ParseFlags([]string{"--provider", "FMP", "--port", "8080"}); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	t.Cleanup(func() {
		_ = rootCmd.PersistentFlags().Set("provider", "")
		_ = rootCmd.PersistentFlags().Set("port", "0")
	})

	if err := applyFlags(rootCmd, c); err != nil {
		t.Fatalf("applyFlags: %v", err)
	}
	if c.Provider.Name != "fmp" {
		t.Errorf("Provider.Name: got %q, want %q", c.Provider.Name, "fmp")
	}
	if c.Provider.APIKey != "" {
		t.Errorf("Alpha Vantage key leaked to fmp: %q", c.Provider.APIKey)
	}
	if c.Server.Port != 8080 {
		t.Errorf("Server.Port: got %d, want 8080", c.Server.Port)
	}
}
