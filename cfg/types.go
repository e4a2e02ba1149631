package cfg

// ByteSize is an integer field that accepts human-friendly sizes ("4096",
// "4Ki", "1Mi") in config files and flags, decoded by DecodeHook.
type ByteSize int64

// Config is the typed, validated configuration for the engine and its
// command-line host, the fields of spec.md §6's tuning constants plus the
// knobs cmd/ramfsctl needs to run standalone.
type Config struct {
	Engine EngineConfig `mapstructure:"engine"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// EngineConfig mirrors ramfs.Config, kept as a separate type so cfg has no
// import-cycle dependency on internal/ramfs; cmd/ramfsctl translates between
// the two at startup.
type EngineConfig struct {
	MaxHandles                int      `mapstructure:"max-handles"`
	InitialFileCapacity       ByteSize `mapstructure:"initial-file-capacity"`
	ReallocSlack              ByteSize `mapstructure:"realloc-slack"`
	DetachPlaceholderCapacity ByteSize `mapstructure:"detach-placeholder-capacity"`
	MountName                 string   `mapstructure:"mount-name"`
	StatDeviceTag             uint32   `mapstructure:"stat-device-tag"`
}

// LoggingConfig controls cmd/ramfsctl's slog setup.
type LoggingConfig struct {
	// Format is either "text" or "json".
	Format string `mapstructure:"format"`
	// FilePath, if non-empty, routes logs through lumberjack instead of
	// stdout.
	FilePath   string `mapstructure:"file-path"`
	MaxSizeMB  int    `mapstructure:"max-size-mb"`
	MaxBackups int    `mapstructure:"max-backups"`
}

// MetricsConfig controls the Prometheus HTTP exporter.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}
