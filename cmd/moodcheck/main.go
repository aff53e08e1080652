package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/moodcheck/internal/checkin"
	"github.com/julianstephens/moodcheck/internal/cli"
	"github.com/julianstephens/moodcheck/internal/clock"
	"github.com/julianstephens/moodcheck/internal/constants"
	"github.com/julianstephens/moodcheck/internal/keyring"
	"github.com/julianstephens/moodcheck/internal/logger"
	"github.com/julianstephens/moodcheck/internal/notifier"
	"github.com/julianstephens/moodcheck/internal/remote"
	"github.com/julianstephens/moodcheck/internal/storage"
)

var CLI struct {
	Version         kong.VersionFlag
	Config          string        `help:"Storage path (.db for SQLite, .json for a JSON file) or PostgreSQL connection string without a password." env:"MOODCHECK_CONFIG" default:"~/.config/moodcheck/moodcheck.db"`
	APIURL          string        `name:"api-url" help:"Base URL of the mood check-in API." env:"MOODCHECK_API_URL" default:"http://127.0.0.1:8787/api/v1"`
	Timeout         time.Duration `help:"Per-attempt timeout for remote submissions." default:"8s"`
	Retries         int           `help:"Extra attempts after a transient submission failure." default:"2"`
	Rate            int           `help:"Maximum submissions per minute (0 disables the limit)." default:"6"`
	Timezone        string        `help:"IANA timezone used to decide the current period." env:"MOODCHECK_TZ" default:"Local"`
	OfflineTolerant bool          `help:"Mark the period answered when the API is unreachable." env:"MOODCHECK_OFFLINE_TOLERANT"`
	Notify          bool          `help:"Send a tray notification when a check-in is saved."`
	Debug           bool          `help:"Log debug output to stderr."`
	LogLevel        string        `name:"log-level" help:"Minimum level written to the log file (debug, info, warn, error)." env:"MOODCHECK_LOG_LEVEL" default:"warn"`

	Init    cli.InitCmd    `cmd:"" help:"Initialize moodcheck storage."`
	Tui     cli.TuiCmd     `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Status  cli.StatusCmd  `cmd:"" help:"Show today's check-in status."`
	Checkin cli.CheckinCmd `cmd:"" help:"Record your mood for the current period."`
	History cli.HistoryCmd `cmd:"" help:"Show recorded check-ins."`
	Stats   cli.StatsCmd   `cmd:"" help:"Summarize recent check-ins."`
	Signout cli.SignOutCmd `cmd:"" help:"Clear cached status and the stored API token."`
	Doctor  cli.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Token   struct {
		Set   cli.TokenSetCmd   `cmd:"" help:"Store the API token in the OS keyring."`
		Clear cli.TokenClearCmd `cmd:"" help:"Remove the stored API token."`
	} `cmd:"" help:"Manage the API token."`
	Backup struct {
		Create  cli.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    cli.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore cli.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Mood check-in companion: one prompt per morning, afternoon and evening"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx *kong.Context) error {
	store, err := openStore(CLI.Config)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := logger.Init(logger.Config{Debug: CLI.Debug, Level: CLI.LogLevel, ConfigDir: logDir(store)}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}
	defer logger.Close()

	clk, err := clock.NewSystem(CLI.Timezone)
	if err != nil {
		return err
	}

	cfg := checkin.DefaultConfig()
	cfg.Timeout = CLI.Timeout
	cfg.MaxRetries = CLI.Retries
	cfg.OfflineTolerant = CLI.OfflineTolerant

	opts := cli.Options{
		Store:   store,
		Clock:   clk,
		Remote:  remote.NewClient(CLI.APIURL, keyring.ResolveToken(), CLI.Rate),
		Checkin: cfg,
	}
	if CLI.Notify {
		opts.Notifier = notifier.New()
	}
	appCtx := cli.NewContext(opts)

	if needsStore(ctx.Command()) {
		if err := store.Load(); err != nil {
			return err
		}
	}

	return ctx.Run(appCtx)
}

// needsStore reports whether the command reads storage before running. init
// creates it and doctor reports load failures itself.
func needsStore(command string) bool {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return true
	}
	switch fields[0] {
	case "init", "doctor", "token":
		return false
	}
	return true
}

func openStore(config string) (storage.Provider, error) {
	if storage.IsPostgresConnString(config) {
		if err := storage.ValidateConnString(config); err != nil {
			return nil, err
		}
		return storage.NewPostgresStore(config), nil
	}

	path, err := expandHome(config)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(path, ".json") {
		return storage.NewJSONStore(path), nil
	}
	return storage.NewSQLiteStore(path), nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// logDir keeps logs next to file-based storage, falling back to the
// default config directory for PostgreSQL.
func logDir(store storage.Provider) string {
	if _, ok := store.(*storage.PostgresStore); !ok {
		return filepath.Dir(store.GetConfigPath())
	}
	dir, err := expandHome(filepath.Dir(constants.DefaultConfigPath))
	if err != nil {
		return os.TempDir()
	}
	return dir
}
