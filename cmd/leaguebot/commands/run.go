// ABOUTME: Run command starts the Discord bot
// ABOUTME: Builds the spreadsheet store and blocks until interrupted
package commands

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/openleague/leaguekeeper/internal/bot"
	"github.com/openleague/leaguekeeper/internal/config"
	"github.com/openleague/leaguekeeper/internal/league"
	"github.com/openleague/leaguekeeper/internal/sheetdb"
)

// NewRunCmd creates the run command.
func NewRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the Discord bot",
		Long: `Start the Discord bot.

Connects to Discord and to the configured spreadsheet, ensures every
table exists, and serves league commands until interrupted.`,
		RunE: runBot,
	}
}

func runBot(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil && verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "No .env file found: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.DiscordToken == "" {
		return fmt.Errorf("DISCORD_TOKEN is required")
	}

	log := newLogger()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

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
		return fmt.Errorf("ensuring tables: %w", err)
	}

	return bot.New(cfg.DiscordToken, store, log).Run(ctx)
}
