package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Proxy      ProxyConfig
	SharePoint SharePointConfig
	Client     ClientConfig
	OTEL       OTELConfig
}

// ProxyConfig holds the forwarding proxy's server configuration
type ProxyConfig struct {
	Host           string
	Port           int
	AllowedOrigins string
}

// SharePointConfig holds the remote list-store location, credentials and
// the per-list sub-path table. Only the proxy process ever reads the
// credentials; every other component is configured with the proxy URL.
type SharePointConfig struct {
	SiteURL  string
	Username string
	Password string
	Lists    ListPaths
}

// ListPaths maps the three well-known lists onto their SharePoint
// getbytitle sub-paths.
type ListPaths struct {
	Wards   string
	Rooms   string
	History string
}

// ClientConfig configures the list-store client and the aggregator poll
// loops. It deliberately holds no secret.
type ClientConfig struct {
	ProxyURL     string
	PollInterval time.Duration
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables. A .env file in the
// working directory is read first if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	return &Config{
		Proxy: ProxyConfig{
			Host:           getEnv("PROXY_HOST", "0.0.0.0"),
			Port:           getEnvAsInt("PROXY_PORT", 3001),
			AllowedOrigins: getEnv("ALLOWED_ORIGINS", "*"),
		},
		SharePoint: SharePointConfig{
			SiteURL:  getEnv("SHAREPOINT_SITE_URL", "https://portal.seha.ae/aanr/Test"),
			Username: getEnv("SHAREPOINT_USERNAME", ""),
			Password: getEnv("SHAREPOINT_PASSWORD", ""),
			Lists: ListPaths{
				Wards:   getEnv("SHAREPOINT_WARDS_PATH", `/_api/web/lists/getbytitle("Wards")`),
				Rooms:   getEnv("SHAREPOINT_ROOMS_PATH", `/_api/web/lists/getbytitle("Rooms")`),
				History: getEnv("SHAREPOINT_HISTORY_PATH", `/_api/web/lists/getbytitle("StatusHistory")`),
			},
		},
		Client: ClientConfig{
			ProxyURL:     getEnv("PROXY_URL", "http://localhost:3001"),
			PollInterval: getEnvAsDuration("POLL_INTERVAL", 30*time.Second),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "room-status-board"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}, nil
}

// ListPath returns the SharePoint sub-path for a known list name.
func (c *SharePointConfig) ListPath(list string) (string, error) {
	switch list {
	case "wards":
		return c.Lists.Wards, nil
	case "rooms":
		return c.Lists.Rooms, nil
	case "history":
		return c.Lists.History, nil
	}
	return "", fmt.Errorf("config: unknown list %q", list)
}

// Addr returns the proxy listen address
func (c *ProxyConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
