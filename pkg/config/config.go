package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultAPIBase     = "https://api.systeme.io"
	DefaultSlotField   = "slot"
	DefaultPort        = "8080"
	DefaultDetailLimit = 300

	SlotSourceTable = "table"
	SlotSourceEnv   = "env"
)

// Config holds all application configuration values
type Config struct {
	APIKey          string
	APIBase         string
	SlotField       string
	SlotSource      string
	SlotTags        SlotTags
	HTTPTimeout     time.Duration
	DetailLimit     int
	Port            string
	GinMode         string
	LogLevel        string
	TracingExporter string
}

// LoadConfig reads configuration from environment variables
func LoadConfig() (*Config, error) {
	return Load(os.Getenv)
}

// Load builds a Config from the given lookup function. Slot tags are
// resolved here, once, so request handling never touches the environment.
func Load(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		APIKey:          strings.TrimSpace(getenv("SIO_API_KEY")),
		APIBase:         strings.TrimRight(orDefault(getenv("SIO_API_BASE"), DefaultAPIBase), "/"),
		SlotField:       orDefault(getenv("SIO_SLOT_FIELD"), DefaultSlotField),
		SlotSource:      strings.ToLower(orDefault(getenv("SIO_SLOT_SOURCE"), SlotSourceTable)),
		DetailLimit:     DefaultDetailLimit,
		Port:            orDefault(getenv("PORT"), DefaultPort),
		GinMode:         getenv("GIN_MODE"),
		LogLevel:        orDefault(getenv("LOG_LEVEL"), "info"),
		TracingExporter: strings.ToLower(getenv("TRACING_EXPORTER")),
	}

	if raw := getenv("SIO_HTTP_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid SIO_HTTP_TIMEOUT %q: %w", raw, err)
		}
		cfg.HTTPTimeout = d
	}

	if raw := getenv("SIO_DETAIL_LIMIT"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid SIO_DETAIL_LIMIT %q", raw)
		}
		cfg.DetailLimit = n
	}

	table, err := loadTable(getenv("SIO_SLOT_TABLE_FILE"))
	if err != nil {
		return nil, err
	}

	switch cfg.SlotSource {
	case SlotSourceTable:
		cfg.SlotTags = table
	case SlotSourceEnv:
		slots := table.Slots()
		if raw := getenv("SIO_SLOTS"); raw != "" {
			slots = splitList(raw)
		}
		cfg.SlotTags = FromEnv(slots, getenv)
	default:
		return nil, fmt.Errorf("unsupported SIO_SLOT_SOURCE: %s", cfg.SlotSource)
	}

	return cfg, nil
}

// HasAPIKey reports whether the systeme.io secret is available.
func (c *Config) HasAPIKey() bool {
	return c.APIKey != ""
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
