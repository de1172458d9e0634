// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Playback Engine - these keys configure the media engine and the playback state machine.
const (
	PlayerEngine        = "player.engine"
	PlayerLoadTimeout   = "player.load_timeout"
	PlayerScrubThrottle = "player.scrub_throttle"
	PlayerMaxRetries    = "player.max_retries"
	PlayerRepeat        = "player.repeat"
	PlayerSpeed         = "player.speed"
	Aniskip             = "player.aniskip"
)

// Progress Reporting - these keys govern when and where playback progress is persisted.
const (
	ProgressLowerBound  = "progress.lower_bound"
	ProgressUpperBound  = "progress.upper_bound"
	ProgressInterval    = "progress.interval"
	ProgressHistory     = "progress.history"
	ProgressNatsURL     = "progress.nats_url"
	ProgressNatsSubject = "progress.nats_subject"
	ProgressPostgresDSN = "progress.postgres_dsn"
)

// Subtitles - these keys define the default subtitle track selection.
const (
	SubtitlesLanguage = "subtitles.language"
	SubtitlesEnabled  = "subtitles.enabled"
	SubtitlesCache    = "subtitles.cache"
)

// Network - these keys tune the HTTP client used for subtitle retrieval.
const (
	NetworkTLSFingerprint = "network.tls_fingerprint"
)

// Settings Store - these keys control persistence of per-user playback settings.
const (
	SettingsDebounce = "settings.debounce"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-TUI application behavior.
const (
	CliColored = "cli.colored"
)
