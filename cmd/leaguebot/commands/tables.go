// ABOUTME: Tables command bootstraps the spreadsheet
// ABOUTME: Creates every entity table and history mirror with its header row
package commands

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/openleague/leaguekeeper/internal/config"
	"github.com/openleague/leaguekeeper/internal/league"
	"github.com/openleague/leaguekeeper/internal/sheetdb"
)

// NewTablesCmd creates the tables command.
func NewTablesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "Create missing spreadsheet tables",
		Long: `Create missing spreadsheet tables.

Ensures every entity table and its history table exists in the
configured spreadsheet with the expected header row. Existing tables
are left untouched.`,
		RunE: runTables,
	}
}

func runTables(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil && verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "No .env file found: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := newLogger()
	ctx := cmd.Context()

	client, err := sheetdb.NewSheetsClient(ctx, cfg.SpreadsheetID, cfg.CredentialsFile, cfg.ResponseTimeout, log)
	if err != nil {
		return err
	}

	cache := sheetdb.NewSnapshotCache(cfg.CacheTTL)
	queue := sheetdb.NewWriteQueue(client, cache, cfg.WriteRetries, cfg.WriteRetryDelay, log)
	defer queue.Close()

	store := league.NewStore(client, cache, queue, league.TTLs{
		TeamInvite:        cfg.TeamInviteExpiry,
		MatchDateInvite:   cfg.MatchDateInviteExpiry,
		MatchResultInvite: cfg.MatchResultInviteExpiry,
		SubInvite:         cfg.SubInviteExpiry,
	}, log)

	if err := store.EnsureTables(ctx); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "All tables are in place.")
	return nil
}
