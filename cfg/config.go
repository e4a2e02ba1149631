package cfg

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// BindFlags registers the flags cmd/ramfsctl exposes, matching the
// teacher's pattern of a single function that lays every flag's name,
// default, and help text next to the others.
func BindFlags(flags *pflag.FlagSet) {
	flags.Int("engine.max-handles", 32, "maximum number of simultaneously open handles")
	flags.String("engine.initial-file-capacity", "1024", "initial buffer capacity for a newly created file")
	flags.String("engine.realloc-slack", "4096", "extra capacity allocated beyond what a write needs")
	flags.String("engine.detach-placeholder-capacity", "64", "capacity of the placeholder buffer installed by detach")
	flags.String("engine.mount-name", "/ram", "name under which the engine is registered with the VFS host")
	flags.Uint32("engine.stat-device-tag", defaultStatDeviceTag, "stat.dev value reported for every node")

	flags.String("logging.format", "text", `log output format, "text" or "json"`)
	flags.String("logging.file-path", "", "if set, rotate logs to this file instead of stdout")
	flags.Int("logging.max-size-mb", 100, "log file size in megabytes before rotation")
	flags.Int("logging.max-backups", 3, "number of rotated log files to retain")

	flags.Bool("metrics.enabled", true, "serve Prometheus metrics over HTTP")
	flags.String("metrics.addr", ":9090", "address the metrics HTTP server listens on")
}

// Load builds a Config from defaults, an optional YAML file, and bound
// flags, in that order of increasing precedence — the same layering as the
// teacher's cfg.NewConfig.
func Load(v *viper.Viper, flags *pflag.FlagSet, configFile string) (Config, error) {
	if err := v.BindPFlags(flags); err != nil {
		return Config{}, fmt.Errorf("cfg: binding flags: %w", err)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("cfg: reading config file %q: %w", configFile, err)
		}
	}

	cfg := Default()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       DecodeHook(),
		WeaklyTypedInput: true,
		Result:           &cfg,
		TagName:          "mapstructure",
	})
	if err != nil {
		return Config{}, fmt.Errorf("cfg: building decoder: %w", err)
	}
	if err := decoder.Decode(v.AllSettings()); err != nil {
		return Config{}, fmt.Errorf("cfg: decoding: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
