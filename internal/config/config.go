// ABOUTME: Centralized configuration for the league bot
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the bot and its persistence layer.
type Config struct {
	// Discord settings
	DiscordToken string

	// Spreadsheet settings
	SpreadsheetID   string
	CredentialsFile string
	ResponseTimeout time.Duration

	// Persistence tuning
	CacheTTL        time.Duration
	WriteRetries    int
	WriteRetryDelay time.Duration

	// Invite expiration windows
	TeamInviteExpiry        time.Duration
	MatchDateInviteExpiry   time.Duration
	MatchResultInviteExpiry time.Duration
	SubInviteExpiry         time.Duration
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		DiscordToken:            os.Getenv("DISCORD_TOKEN"),
		SpreadsheetID:           os.Getenv("LEAGUE_SPREADSHEET_ID"),
		CredentialsFile:         getEnv("GOOGLE_CREDENTIALS_FILE", "credentials.json"),
		ResponseTimeout:         getEnvSeconds("SHEETS_RESPONSE_TIMEOUT", 30*time.Second),
		CacheTTL:                getEnvSeconds("CACHE_TTL", 5*time.Minute),
		WriteRetries:            getEnvInt("WRITE_RETRIES", 3),
		WriteRetryDelay:         getEnvSeconds("WRITE_RETRY_DELAY", 2*time.Second),
		TeamInviteExpiry:        getEnvDays("TEAM_INVITE_EXPIRY_DAYS", 7),
		MatchDateInviteExpiry:   getEnvDays("MATCH_DATE_INVITE_EXPIRY_DAYS", 7),
		MatchResultInviteExpiry: getEnvDays("MATCH_RESULT_INVITE_EXPIRY_DAYS", 3),
		SubInviteExpiry:         getEnvDays("SUB_INVITE_EXPIRY_DAYS", 2),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.SpreadsheetID == "" {
		return fmt.Errorf("LEAGUE_SPREADSHEET_ID is required")
	}
	if c.WriteRetries < 0 || c.WriteRetries > 10 {
		return fmt.Errorf("WRITE_RETRIES must be 0-10, got %d", c.WriteRetries)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive, got %v", c.CacheTTL)
	}
	if c.ResponseTimeout <= 0 {
		return fmt.Errorf("SHEETS_RESPONSE_TIMEOUT must be positive, got %v", c.ResponseTimeout)
	}
	return nil
}

// Helper functions

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

// getEnvSeconds reads a whole number of seconds.
func getEnvSeconds(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return time.Duration(i) * time.Second
		}
	}
	return defaultVal
}

// getEnvDays reads a whole number of days.
func getEnvDays(key string, defaultDays int) time.Duration {
	days := getEnvInt(key, defaultDays)
	return time.Duration(days) * 24 * time.Hour
}
