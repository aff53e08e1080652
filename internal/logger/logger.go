// Package logger is the process-wide structured logger. Records go to a
// size-rotated file under the config directory; debug mode mirrors them to
// stderr.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/moodcheck/internal/constants"
)

const (
	maxSizeMB  = 10
	maxBackups = 3
	maxAgeDays = 28
)

// Logger is nil until Init succeeds; the helpers below are no-ops until then.
var Logger *log.Logger

var (
	mu   sync.Mutex
	file *lumberjack.Logger
)

type Config struct {
	// Debug lowers the level to debug and mirrors output to Stderr.
	Debug bool
	// Level is a charmbracelet level name ("info", "warn", ...). Empty means warn.
	Level     string
	ConfigDir string
	// Stderr defaults to os.Stderr.
	Stderr io.Writer
}

func (c Config) level() (log.Level, error) {
	if c.Debug {
		return log.DebugLevel, nil
	}
	if c.Level == "" {
		return log.WarnLevel, nil
	}
	lvl, err := log.ParseLevel(c.Level)
	if err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.Level, err)
	}
	return lvl, nil
}

// Init (re)configures the global logger. A previous log file is closed.
func Init(cfg Config) error {
	lvl, err := cfg.level()
	if err != nil {
		return err
	}

	logDir := filepath.Join(cfg.ConfigDir, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	rotating := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, constants.AppName+".log"),
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   true,
	}

	var out io.Writer = rotating
	if cfg.Debug {
		stderr := cfg.Stderr
		if stderr == nil {
			stderr = os.Stderr
		}
		out = io.MultiWriter(stderr, rotating)
	}

	mu.Lock()
	defer mu.Unlock()
	if file != nil {
		_ = file.Close()
	}
	file = rotating
	Logger = log.NewWithOptions(out, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           lvl,
		Prefix:          constants.AppName,
	})
	return nil
}

// Path returns the active log file, or "" before Init.
func Path() string {
	mu.Lock()
	defer mu.Unlock()
	if file == nil {
		return ""
	}
	return file.Filename
}

// Close releases the log file. Later records are dropped.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	Logger = nil
	if file == nil {
		return nil
	}
	err := file.Close()
	file = nil
	return err
}

func emit(lvl log.Level, msg string, keyvals []interface{}) {
	if l := Logger; l != nil {
		l.Log(lvl, msg, keyvals...)
	}
}

func Debug(msg string, keyvals ...interface{}) { emit(log.DebugLevel, msg, keyvals) }
func Info(msg string, keyvals ...interface{})  { emit(log.InfoLevel, msg, keyvals) }
func Warn(msg string, keyvals ...interface{})  { emit(log.WarnLevel, msg, keyvals) }
func Error(msg string, keyvals ...interface{}) { emit(log.ErrorLevel, msg, keyvals) }
