package common

import "time"

const (
	// Compression constants
	DefaultPurpose      = "quick"
	DefaultOutputFormat = "jpeg"
	MaxConcurrencyLimit = 8

	// File operation constants
	DefaultFilePermissions = 0755
	TempFileRetention      = 24 * time.Hour
	MaxSaveAttempts        = 1000

	// Progress milestones
	DefaultProgressPercent   = 20.0
	CompletedProgressPercent = 100.0

	// Event names
	EventFileProgress        = "file:progress"
	EventFileCompleted       = "file:completed"
	EventCompressionProgress = "compression:progress"
	EventStatsUpdate         = "stats:update"
)
