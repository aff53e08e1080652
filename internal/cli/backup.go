package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/julianstephens/moodcheck/internal/backup"
	"github.com/julianstephens/moodcheck/internal/constants"
)

type BackupCreateCmd struct{}

func (cmd *BackupCreateCmd) Run(ctx *Context) error {
	mgr, err := backupManager(ctx)
	if err != nil {
		return err
	}

	path, err := mgr.Create()
	if err != nil {
		return fmt.Errorf("failed to create backup: %w", err)
	}
	ctx.printf("✓ Backup created: %s\n", path)
	return nil
}

type BackupListCmd struct{}

func (cmd *BackupListCmd) Run(ctx *Context) error {
	mgr, err := backupManager(ctx)
	if err != nil {
		return err
	}

	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		ctx.println("No backups found.")
		ctx.printf("Backups are stored in: %s\n", mgr.Dir())
		return nil
	}

	ctx.printf("Found %d backup(s) in %s:\n\n", len(backups), mgr.Dir())
	for i, b := range backups {
		ctx.printf("%d. %s\n", i+1, b.Timestamp.Format("2006-01-02 15:04:05"))
		ctx.printf("   Path: %s\n", b.Path)
		ctx.printf("   Size: %s\n", formatSize(b.Size))
	}
	return nil
}

type BackupRestoreCmd struct {
	Path string `arg:"" help:"Backup file to restore."`
	Yes  bool   `help:"Skip the confirmation prompt." short:"y"`
}

func (cmd *BackupRestoreCmd) Run(ctx *Context) error {
	mgr, err := backupManager(ctx)
	if err != nil {
		return err
	}

	if !cmd.Yes {
		ctx.println("⚠ This replaces your current database with the backup.")
		ctx.printf("⚠ Stop any running %s processes before restoring.\n", constants.AppName)
		ctx.println("A backup of your current database is created first.")
		ctx.printf("\nRestore from: %s\n", cmd.Path)
		ok, err := ctx.confirm("Continue?")
		if err != nil {
			return err
		}
		if !ok {
			ctx.println("Restore cancelled.")
			return nil
		}
	}

	if err := ctx.Store.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to close database connection: %v\n", err)
	}

	previous, err := mgr.Restore(cmd.Path)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	ctx.println("✓ Database restored successfully!")
	if previous != "" {
		ctx.printf("  Previous database saved to: %s\n", previous)
	}
	return nil
}

func backupManager(ctx *Context) (*backup.Manager, error) {
	path, ok := ctx.sqlitePath()
	if !ok {
		return nil, fmt.Errorf("backups are only supported for SQLite storage (current: %s)", ctx.Store.GetConfigPath())
	}
	return backup.NewManager(path), nil
}

func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), strings.ToUpper("kmgtpe")[exp])
}
