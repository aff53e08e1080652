package constants

import "time"

const (
	AppName            = "moodcheck"
	Version            = "v0.3.0"
	DefaultConfigPath  = "~/.config/moodcheck/moodcheck.db"
	DefaultKeyringUser = "api-token"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Storage keys
	KeyMoodStatus  = "mood_status"
	KeyMoodEntries = "mood_entries"

	// Period boundaries (hour of day, local time)
	MorningStartHour   = 5
	AfternoonStartHour = 12
	EveningStartHour   = 18

	// Remote submission defaults
	DefaultAPIURL          = "http://127.0.0.1:8787/api/v1"
	DefaultSubmitTimeout   = 8 * time.Second
	DefaultMaxRetries      = 2
	DefaultRetryBackoff    = 250 * time.Millisecond
	DefaultMaxRetryBackoff = 2 * time.Second
	DefaultSubmitsPerMin   = 6
	SubmitPriority         = "high"
	SubmitTag              = "mood-checkin"

	// Gating re-evaluation cadence
	GatingRefreshInterval = time.Minute

	// Stats defaults
	DefaultLookbackDays = 7

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "moodcheck-"
	BackupFileSuffix = ".db"

	// Notify constants
	NotifierLockfileName   = "moodcheck-notifier.lock"
	NotificationDurationMs = 4000
	TrayAppIdentifier      = "com.julianstephens.moodcheck"
	TrayExecutablePrefix   = "moodcheck-tray"

	// Environment variables
	EnvAPIToken = "MOODCHECK_API_TOKEN"
)
