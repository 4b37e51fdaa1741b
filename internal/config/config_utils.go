package config

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// applyFallbacks fills values that cannot be expressed as plain defaults.
func (c *Config) applyFallbacks() {
	// A comma separated env var is easier to set than a YAML list.
	if len(c.Server.APIKeys) == 0 {
		if apiKeysEnv := os.Getenv(envPrefix + "_SERVER_APIKEYS"); apiKeysEnv != "" {
			c.Server.APIKeys = splitList(apiKeysEnv)
		}
	}
	// Env values arrive as one string split on commas, untrimmed.
	c.Server.APIKeys = splitList(strings.Join(c.Server.APIKeys, ","))

	c.App.LogLevel = strings.ToLower(strings.TrimSpace(c.App.LogLevel))
	c.App.DefaultFormat = strings.ToLower(strings.TrimSpace(c.App.DefaultFormat))

	if c.Observability.ServiceInstance == "" {
		c.Observability.ServiceInstance = generateServiceInstanceID(c.Observability.ServiceName)
	}

	if c.App.LogLevel == "debug" && !c.Observability.ConsoleOutput {
		c.Observability.ConsoleOutput = true
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func generateServiceInstanceID(serviceName string) string {
	if hostname, err := os.Hostname(); err == nil {
		return fmt.Sprintf("%s-%s", serviceName, hostname)
	}
	return fmt.Sprintf("%s-1", serviceName)
}

// logConfigurationSources logs a summary of configuration sources being used
func (c *Config) logConfigurationSources(configFileUsed string) {
	log.Println("[CONFIG] === Configuration Sources Summary ===")

	if configFileUsed != "" {
		log.Printf("[CONFIG] Config file: %s", configFileUsed)
	} else {
		log.Println("[CONFIG] Config file: None (using defaults)")
	}

	envVars := []string{
		envPrefix + "_APP_LOGLEVEL",
		envPrefix + "_ROLES_FILE",
		envPrefix + "_SERVER_PORT",
		envPrefix + "_SERVER_HOST",
		envPrefix + "_SERVER_APIKEYS",
		envPrefix + "_STORE_DRIVER",
		envPrefix + "_STORE_DATABASEURL",
		envPrefix + "_CACHE_ENABLED",
		envPrefix + "_CACHE_PASSWORD",
		envPrefix + "_STORAGE_S3_BUCKET",
		envPrefix + "_STORAGE_S3_SECRETACCESSKEY",
		envPrefix + "_QUEUE_URL",
		envPrefix + "_VAULT_ENABLED",
	}

	log.Println("[CONFIG] Environment variables:")
	hasEnvVars := false
	for _, envVar := range envVars {
		if value := os.Getenv(envVar); value != "" {
			if isSensitive(envVar) {
				log.Printf("[CONFIG]   %s=***MASKED***", envVar)
			} else {
				log.Printf("[CONFIG]   %s=%s", envVar, value)
			}
			hasEnvVars = true
		}
	}
	if !hasEnvVars {
		log.Println("[CONFIG]   None set")
	}

	log.Println("[CONFIG] === Key Configuration Values ===")
	log.Printf("[CONFIG] Role catalog: %s", valueOr(c.Roles.File, "built-in"))
	log.Printf("[CONFIG] Store driver: %s", c.Store.Driver)
	log.Printf("[CONFIG] Cache enabled: %t", c.Cache.Enabled)
	log.Printf("[CONFIG] Server: %s:%s (TLS %t)", c.Server.Host, c.Server.Port, c.Server.TLS.Enabled())
	log.Printf("[CONFIG] API keys configured: %d", len(c.Server.APIKeys))
	log.Printf("[CONFIG] Log level: %s", c.App.LogLevel)
	log.Printf("[CONFIG] Vault enabled: %t", c.Vault.Enabled)
	log.Printf("[CONFIG] Observability enabled: %t", c.Observability.Enabled)
	log.Println("[CONFIG] =====================================")
}

func isSensitive(envVar string) bool {
	lower := strings.ToLower(envVar)
	for _, marker := range []string{"key", "password", "databaseurl", "queue_url"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
