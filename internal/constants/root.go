package constants

import "time"

const (
	AppName            = "dailyboost"
	DefaultKeyringUser = "active-account"
	DefaultConfigDir   = "~/.config/dailyboost"
	DefaultDataDir     = "~/.local/share/dailyboost"
	DefaultConfigName  = "config"
	EnvPrefix          = "DAILYBOOST"
	Version            = "v0.2.0"

	// DateFormat is the calendar date format used for rollover bookkeeping (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the time-of-day format used in reminder labels (HH:MM)
	TimeFormat = "15:04"

	// Storage backends
	BackendSQLite = "sqlite"
	BackendDiskv  = "diskv"
	BackendMemory = "memory"

	DefaultBackend  = BackendSQLite
	SQLiteFileName  = "dailyboost.db"
	DiskvDirName    = "kv"
	DefaultListen   = "127.0.0.1:7433"
	DefaultTimezone = "Local"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "dailyboost-"
	BackupFileSuffix = ".db"

	// Notify constants
	NotifyTimeout          = 3 * time.Second
	NotifierLockfileName   = "dailyboost-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.dailyboost"
	TrayExecutablePrefix   = "dailyboost-tray"
	NotifierTray           = "tray"
	NotifierConsole        = "console"
	NotifierNone           = "none"
	DefaultNotifier        = NotifierTray
)
