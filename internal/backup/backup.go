// Package backup snapshots and restores the SQLite check-in database.
package backup

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/moodcheck/internal/constants"
	"github.com/julianstephens/moodcheck/internal/logger"
)

var nameLayouts = []string{"20060102-150405", "20060102-1504"}

// Info describes one backup file.
type Info struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

type Manager struct {
	dbPath    string
	backupDir string
	now       func() time.Time
}

// NewManager manages backups of dbPath in a "backups" directory beside it.
func NewManager(dbPath string) *Manager {
	return &Manager{
		dbPath:    dbPath,
		backupDir: filepath.Join(filepath.Dir(dbPath), constants.BackupDirName),
		now:       time.Now,
	}
}

func (m *Manager) Dir() string {
	return m.backupDir
}

// Create snapshots the database and prunes backups beyond the retention limit.
func (m *Manager) Create() (string, error) {
	path, err := m.create()
	if err != nil {
		return "", err
	}
	if err := m.rotate(); err != nil {
		logger.Warn("Failed to rotate old backups", "error", err)
	}
	return path, nil
}

func (m *Manager) create() (string, error) {
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}
	if _, err := os.Stat(m.dbPath); os.IsNotExist(err) {
		return "", fmt.Errorf("database does not exist: %s", m.dbPath)
	}

	path, err := m.nextName()
	if err != nil {
		return "", err
	}
	if err := snapshot(m.dbPath, path); err != nil {
		return "", fmt.Errorf("failed to backup database: %w", err)
	}
	logger.Info("Created backup", "path", path)
	return path, nil
}

// nextName picks an unused file name, adding seconds and then a counter on
// collision.
func (m *Manager) nextName() (string, error) {
	now := m.now()
	for _, layout := range []string{"20060102-1504", "20060102-150405"} {
		path := m.pathFor(now.Format(layout))
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		}
	}
	stamp := now.Format("20060102-150405")
	for i := 1; i <= 100; i++ {
		path := m.pathFor(fmt.Sprintf("%s-%d", stamp, i))
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		}
	}
	return "", fmt.Errorf("failed to generate unique backup filename")
}

func (m *Manager) pathFor(stamp string) string {
	return filepath.Join(m.backupDir, constants.BackupFilePrefix+stamp+constants.BackupFileSuffix)
}

// snapshot writes a consistent copy of src to dst with VACUUM INTO, falling
// back to a plain file copy.
func snapshot(src, dst string) error {
	db, err := sql.Open("sqlite", src+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open source database: %w", err)
	}
	defer db.Close()

	if err := verify(db); err != nil {
		return fmt.Errorf("source database appears to be corrupted: %w", err)
	}

	if _, err := db.Exec("VACUUM INTO ?", dst); err != nil {
		logger.Debug("VACUUM INTO failed, copying file", "error", err)
		db.Close()
		return copyFile(src, dst)
	}
	return nil
}

// List returns the available backups, newest first.
func (m *Manager) List() ([]Info, error) {
	dirEntries, err := os.ReadDir(m.backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Info{}, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []Info{}
	for _, entry := range dirEntries {
		if entry.IsDir() {
			continue
		}
		ts, ok := parseName(entry.Name())
		if !ok {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, Info{
			Path:      filepath.Join(m.backupDir, entry.Name()),
			Timestamp: ts,
			Size:      fi.Size(),
		})
	}

	sort.SliceStable(backups, func(i, j int) bool {
		if backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].Path > backups[j].Path
		}
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})
	return backups, nil
}

// parseName extracts the timestamp from "<prefix>YYYYMMDD-HHMM[SS][-N]<suffix>".
func parseName(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, constants.BackupFileSuffix) {
		return time.Time{}, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), constants.BackupFileSuffix)

	// Drop a collision counter
	if parts := strings.Split(stamp, "-"); len(parts) == 3 {
		if _, err := strconv.Atoi(parts[2]); err == nil {
			stamp = parts[0] + "-" + parts[1]
		}
	}

	for _, layout := range nameLayouts {
		if ts, err := time.ParseInLocation(layout, stamp, time.Local); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func (m *Manager) rotate() error {
	backups, err := m.List()
	if err != nil {
		return err
	}
	for i := constants.MaxBackups; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
	}
	return nil
}

// Restore replaces the database with backupPath. The current database is
// backed up first; its path is returned (empty when there was none).
func (m *Manager) Restore(backupPath string) (string, error) {
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return "", fmt.Errorf("backup file does not exist: %s", backupPath)
	}
	if err := verifyFile(backupPath); err != nil {
		return "", fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	var previous string
	if _, err := os.Stat(m.dbPath); err == nil {
		p, err := m.create()
		if err != nil {
			return "", fmt.Errorf("failed to backup current database before restore: %w", err)
		}
		previous = p
	}

	tempPath := m.dbPath + ".restore.tmp"
	if err := copyFile(backupPath, tempPath); err != nil {
		return "", fmt.Errorf("failed to copy backup file: %w", err)
	}
	if err := os.Rename(tempPath, m.dbPath); err != nil {
		if removeErr := os.Remove(tempPath); removeErr != nil {
			logger.Warn("Failed to remove temporary restore file", "path", tempPath, "error", removeErr)
		}
		return "", fmt.Errorf("failed to restore database: %w", err)
	}

	logger.Info("Restored database from backup", "backup", backupPath)
	return previous, nil
}

// verifyFile checks that path is a SQLite database holding a moodcheck schema.
func verifyFile(path string) error {
	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return err
	}
	defer db.Close()
	return verify(db)
}

func verify(db *sql.DB) error {
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'kv'").Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("database has no %s data", constants.AppName)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.ReadFrom(in); err != nil {
		return err
	}
	return out.Sync()
}
