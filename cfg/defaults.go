package cfg

// defaultStatDeviceTag is 'r' | ('a' << 8) | ('m' << 16), spec.md §6's
// device tag for this file system.
const defaultStatDeviceTag uint32 = uint32('r') | uint32('a')<<8 | uint32('m')<<16

// Default returns a Config populated with the constants spec.md §6
// specifies, plus reasonable defaults for the ambient knobs it doesn't.
func Default() Config {
	return Config{
		Engine: EngineConfig{
			MaxHandles:                32,
			InitialFileCapacity:       1024,
			ReallocSlack:              4096,
			DetachPlaceholderCapacity: 64,
			MountName:                 "/ram",
			StatDeviceTag:             defaultStatDeviceTag,
		},
		Logging: LoggingConfig{
			Format:     "text",
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Addr:    ":9090",
		},
	}
}
