package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Snapshot file shared between exporter and dashboard
	SnapshotPath string

	// SQLite export archive
	SQLiteDBPath string

	// AMQP (optional; empty URL disables publishing)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets source
	GoogleSpreadsheetID string
	GoogleSheetName     string

	// Exporter
	ExportInterval time.Duration

	// Source selection for the exporter
	RowSource string

	// Normalization policy: rows with no comment/category at all are
	// treated as fuel purchases (the historical sheet left the comment
	// blank for fuel).
	BlankCommentMeansFuel bool
}

func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "8081"),
		SnapshotPath: getEnv("SNAPSHOT_PATH", "./data/snapshot.json"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/archive.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "autospese"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "snapshot_updates"),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:     getEnv("GOOGLE_SHEET_NAME", "Expenses"),

		ExportInterval: getEnvDuration("EXPORT_INTERVAL", 6*time.Hour),

		RowSource: getEnv("ROW_SOURCE", "memory"),

		BlankCommentMeansFuel: getEnvBool("BLANK_COMMENT_MEANS_FUEL", true),
	}
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.SnapshotPath == "" {
		errors = append(errors, "snapshot path cannot be empty")
	} else if dir := filepath.Dir(c.SnapshotPath); dir != "." && dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				errors = append(errors, fmt.Sprintf("cannot create snapshot directory '%s': %v", dir, err))
			}
		}
	}

	validSources := []string{"memory", "sheets"}
	isValidSource := false
	for _, s := range validSources {
		if c.RowSource == s {
			isValidSource = true
			break
		}
	}
	if !isValidSource {
		errors = append(errors, fmt.Sprintf("invalid row source '%s': must be one of %v", c.RowSource, validSources))
	}

	if c.RowSource == "sheets" && c.GoogleSpreadsheetID == "" {
		errors = append(errors, "Google Spreadsheet ID is required when using the sheets source")
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.ExportInterval < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid export interval %v: must be at least 1 minute", c.ExportInterval))
	} else if c.ExportInterval > 7*24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid export interval %v: must be at most 7 days", c.ExportInterval))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
