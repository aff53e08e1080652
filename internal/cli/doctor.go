package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/moodcheck/internal/backup"
	"github.com/julianstephens/moodcheck/internal/clock"
	"github.com/julianstephens/moodcheck/internal/constants"
	"github.com/julianstephens/moodcheck/internal/keyring"
	"github.com/julianstephens/moodcheck/internal/logger"
	"github.com/julianstephens/moodcheck/internal/storage"
)

const pingTimeout = 5 * time.Second

type DoctorCmd struct{}

type migrationReporter interface {
	PendingMigrations() (int, error)
}

type pinger interface {
	Ping(ctx context.Context) error
	BaseURL() string
}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	ctx.println("Running diagnostics...")
	ctx.println()

	hasError := false
	fail := func(name string, err error) {
		ctx.printf("❌ %s: FAIL\n", name)
		ctx.printf("   Error: %v\n", err)
		hasError = true
	}
	warn := func(name string, err error) {
		ctx.printf("⚠ %s: WARNING\n", name)
		ctx.printf("   %v\n", err)
	}
	ok := func(name string) {
		ctx.printf("✓ %s: OK\n", name)
	}

	dbReachable := false
	if err := checkStorageReachable(ctx); err != nil {
		fail("Storage reachable", err)
	} else {
		ok("Storage reachable")
		dbReachable = true
	}

	if dbReachable {
		if err := checkMigrationsComplete(ctx); err != nil {
			fail("Migrations complete", err)
		} else {
			ok("Migrations complete")
		}
	} else {
		ctx.println("⊘ Migrations complete: SKIPPED (storage not reachable)")
	}

	if _, isSQLite := ctx.sqlitePath(); isSQLite {
		if err := checkBackupsPresent(ctx); err != nil {
			warn("Backups present", err)
		} else {
			ok("Backups present")
		}
	}

	if err := checkToken(); err != nil {
		warn("API token", err)
	} else {
		ok("API token")
	}

	if err := checkClockTimezone(ctx); err != nil {
		fail("Clock/timezone", err)
	} else {
		ok("Clock/timezone")
	}

	if p, isPinger := ctx.Remote.(pinger); isPinger {
		pingCtx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		err := p.Ping(pingCtx)
		cancel()
		if err != nil {
			warn("Remote API", fmt.Errorf("%s unreachable: %w", p.BaseURL(), err))
		} else {
			ok("Remote API")
		}
	}

	if path := logger.Path(); path != "" {
		ctx.printf("ℹ Log file: %s\n", path)
	}

	ctx.println()
	if hasError {
		ctx.println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.println("All diagnostics passed!")
	return nil
}

func checkStorageReachable(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}

	if s, ok := ctx.Store.(*storage.SQLiteStore); ok {
		db := s.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

func checkMigrationsComplete(ctx *Context) error {
	r, ok := ctx.Store.(migrationReporter)
	if !ok {
		return nil
	}
	pending, err := r.PendingMigrations()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if pending > 0 {
		return fmt.Errorf("%d migration(s) pending, run '%s init'", pending, constants.AppName)
	}
	return nil
}

func checkBackupsPresent(ctx *Context) error {
	path, _ := ctx.sqlitePath()
	backups, err := backup.NewManager(path).List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with '%s backup create'", constants.AppName)
	}
	return nil
}

func checkToken() error {
	if keyring.ResolveToken() != "" {
		return nil
	}
	if !keyring.IsAvailable() {
		return fmt.Errorf("OS keyring unavailable and %s is not set", constants.EnvAPIToken)
	}
	return fmt.Errorf("no API token configured - run '%s token set'", constants.AppName)
}

func checkClockTimezone(ctx *Context) error {
	now := ctx.Clock.Now()
	if now.Year() < 2000 {
		return fmt.Errorf("system clock looks wrong: %s", now.Format(time.RFC3339))
	}
	if zone := now.Location().String(); !clock.ValidateTimezone(zone) {
		return fmt.Errorf("timezone %q cannot be loaded", zone)
	}
	return nil
}
