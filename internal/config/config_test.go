// ABOUTME: Tests for configuration loading and validation
// ABOUTME: Verifies defaults, environment overrides, and rejection of bad values
package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("LEAGUE_SPREADSHEET_ID", "sheet-1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.CacheTTL != 5*time.Minute {
		t.Errorf("CacheTTL = %v, want 5m", cfg.CacheTTL)
	}
	if cfg.WriteRetries != 3 {
		t.Errorf("WriteRetries = %d, want 3", cfg.WriteRetries)
	}
	if cfg.TeamInviteExpiry != 7*24*time.Hour {
		t.Errorf("TeamInviteExpiry = %v, want 168h", cfg.TeamInviteExpiry)
	}
	if cfg.SubInviteExpiry != 2*24*time.Hour {
		t.Errorf("SubInviteExpiry = %v, want 48h", cfg.SubInviteExpiry)
	}
	if cfg.CredentialsFile != "credentials.json" {
		t.Errorf("CredentialsFile = %q, want credentials.json", cfg.CredentialsFile)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("LEAGUE_SPREADSHEET_ID", "sheet-1")
	t.Setenv("CACHE_TTL", "120")
	t.Setenv("WRITE_RETRIES", "5")
	t.Setenv("TEAM_INVITE_EXPIRY_DAYS", "14")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.CacheTTL != 2*time.Minute {
		t.Errorf("CacheTTL = %v, want 2m", cfg.CacheTTL)
	}
	if cfg.WriteRetries != 5 {
		t.Errorf("WriteRetries = %d, want 5", cfg.WriteRetries)
	}
	if cfg.TeamInviteExpiry != 14*24*time.Hour {
		t.Errorf("TeamInviteExpiry = %v, want 336h", cfg.TeamInviteExpiry)
	}
}

func TestLoad_RequiresSpreadsheetID(t *testing.T) {
	t.Setenv("LEAGUE_SPREADSHEET_ID", "")

	if _, err := Load(); err == nil {
		t.Error("Load() succeeded without LEAGUE_SPREADSHEET_ID")
	}
}

func TestLoad_RejectsExcessiveRetries(t *testing.T) {
	t.Setenv("LEAGUE_SPREADSHEET_ID", "sheet-1")
	t.Setenv("WRITE_RETRIES", "50")

	if _, err := Load(); err == nil {
		t.Error("Load() accepted WRITE_RETRIES=50")
	}
}

func TestLoad_RejectsZeroCacheTTL(t *testing.T) {
	t.Setenv("LEAGUE_SPREADSHEET_ID", "sheet-1")
	t.Setenv("CACHE_TTL", "0")

	if _, err := Load(); err == nil {
		t.Error("Load() accepted CACHE_TTL=0")
	}
}
