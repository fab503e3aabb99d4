package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	sandboxBaseURL    = "https://api.sandbox.vaultpay.com"
	productionBaseURL = "https://api.vaultpay.com"
)

// Config holds application configuration
type Config struct {
	Environment      string
	MerchantID       string
	PublicKey        string
	PrivateKey       string
	BaseURL          string
	Timeout          time.Duration
	LogLevel         string
	AllowFakeGateway bool
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Environment:      strings.ToLower(strings.TrimSpace(getEnv("VAULTPAY_ENVIRONMENT", "sandbox"))),
		MerchantID:       getEnv("VAULTPAY_MERCHANT_ID", ""),
		PublicKey:        getEnv("VAULTPAY_PUBLIC_KEY", ""),
		PrivateKey:       getEnv("VAULTPAY_PRIVATE_KEY", ""),
		BaseURL:          getEnv("VAULTPAY_BASE_URL", ""),
		Timeout:          getEnvAsDuration("VAULTPAY_TIMEOUT", 8*time.Second),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		AllowFakeGateway: getEnvAsBool("ALLOW_FAKE_GATEWAY", false),
	}
}

// GatewayBaseURL resolves the vendor host for the configured environment.
// An explicit VAULTPAY_BASE_URL wins, which is how tests point the client
// at a local fake.
func (c *Config) GatewayBaseURL() string {
	if c.BaseURL != "" {
		return strings.TrimRight(c.BaseURL, "/")
	}
	if c.Environment == "production" {
		return productionBaseURL
	}
	return sandboxBaseURL
}

// Validate reports the first configuration problem. The fake gateway needs
// no credentials but is refused in production; live use requires the full
// credential set.
func (c *Config) Validate() error {
	if c.Environment != "sandbox" && c.Environment != "production" {
		return fmt.Errorf("config: unknown VAULTPAY_ENVIRONMENT %q", c.Environment)
	}
	if c.AllowFakeGateway {
		if c.Environment == "production" {
			return fmt.Errorf("config: ALLOW_FAKE_GATEWAY must not be enabled in production")
		}
		return nil
	}
	switch {
	case c.MerchantID == "":
		return fmt.Errorf("config: VAULTPAY_MERCHANT_ID is required")
	case c.PublicKey == "":
		return fmt.Errorf("config: VAULTPAY_PUBLIC_KEY is required")
	case c.PrivateKey == "":
		return fmt.Errorf("config: VAULTPAY_PRIVATE_KEY is required")
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
