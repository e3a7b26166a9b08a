package config

import "os"

// APIKeySource represents where an API key comes from.
type APIKeySource string

const (
	KeySourceSession APIKeySource = "session"
	KeySourceEnv     APIKeySource = "env"
	KeySourceConfig  APIKeySource = "config"
	KeySourceNone    APIKeySource = "none"
)

// providerKeyEnv maps provider names to their conventional key variable.
var providerKeyEnv = map[string]string{
	"alphavantage": "ALPHAVANTAGE_API_KEY",
	"fmp":          "FMP_API_KEY",
}

// ProviderKeyEnv returns the environment variable holding the default key
// for the named provider, or "" if the provider has none.
func ProviderKeyEnv(provider string) string {
	return providerKeyEnv[provider]
}

// KeyStatus represents the status of an API key.
type KeyStatus struct {
	Name   string       `json:"name"`
	Source APIKeySource `json:"source"`
	IsSet  bool         `json:"is_set"`
	Masked string       `json:"masked,omitempty"` // e.g., "dem...123"
}

// CheckAPIKeys returns the status of the configured default provider key.
func CheckAPIKeys(cfg *Config) []KeyStatus {
	return []KeyStatus{
		checkKey(cfg.Provider.Name+" API Key", cfg.Provider.APIKey, ProviderKeyEnv(cfg.Provider.Name)),
	}
}

// checkKey checks if a key is set and where it came from.
func checkKey(name, value, envVar string) KeyStatus {
	status := KeyStatus{
		Name:  name,
		IsSet: value != "",
	}

	if value != "" {
		if envVar != "" && os.Getenv(envVar) == value {
			status.Source = KeySourceEnv
		} else {
			status.Source = KeySourceConfig
		}
		status.Masked = MaskKey(value)
	} else {
		status.Source = KeySourceNone
	}

	return status
}

// MaskKey masks an API key for display, showing only first 3 and last 3 chars.
func MaskKey(key string) string {
	if len(key) <= 8 {
		return "***"
	}
	return key[:3] + "..." + key[len(key)-3:]
}
