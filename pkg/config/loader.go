package config

import (
	_ "embed"
	"errors"
	"os"
	"path/filepath"
	"strings"

	dotrigerrors "github.com/dotrig/dotrig/pkg/errors"
	"github.com/dotrig/dotrig/pkg/logging"
	"github.com/dotrig/dotrig/pkg/paths"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// EnvPrefix prefixes every environment variable read as configuration
const EnvPrefix = "DOTRIG_"

type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}

// LoadOptions tune Load
type LoadOptions struct {
	// File is an explicit config file; it must exist
	File string
	// Overrides are dotted keys applied last, e.g. {"paths.dest": "/tmp/x"}
	Overrides map[string]interface{}
	// Paths resolves default locations; nil means paths.New()
	Paths paths.Paths
}

// Load builds the effective configuration and validates it
func Load(opts LoadOptions) (*Config, error) {
	logger := logging.GetLogger("config")

	p := opts.Paths
	if p == nil {
		var err error
		if p, err = paths.New(); err != nil {
			return nil, err
		}
	}

	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, dotrigerrors.Wrap(err, dotrigerrors.ErrConfigParse, "failed to load defaults")
	}

	// 2. Config file
	configFile, explicit := configFilePath(opts.File, p)
	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			if err := k.Load(file.Provider(configFile), parserFor(configFile)); err != nil {
				return nil, dotrigerrors.Wrapf(err, dotrigerrors.ErrConfigParse, "failed to parse %s", configFile)
			}
			logger.Debug().Str("file", configFile).Msg("Loaded config file")
		} else if explicit {
			return nil, dotrigerrors.Wrapf(err, dotrigerrors.ErrConfigLoad, "cannot read config file %s", configFile)
		} else {
			configFile = ""
		}
	}

	// 3. Environment
	err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil)
	if err != nil {
		return nil, dotrigerrors.Wrap(err, dotrigerrors.ErrConfigLoad, "failed to load environment")
	}

	// 4. Caller overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, dotrigerrors.Wrap(err, dotrigerrors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, dotrigerrors.Wrap(err, dotrigerrors.ErrConfigParse, "failed to decode configuration")
	}

	cfg.File = configFile
	cfg.Targets = trimTargets(cfg.Targets)
	cfg.resolve(p)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// configFilePath picks the config file and reports whether it was asked for
// explicitly.
func configFilePath(flag string, p paths.Paths) (string, bool) {
	if flag != "" {
		return paths.ExpandHome(flag), true
	}
	if fromEnv := os.Getenv(paths.EnvConfig); fromEnv != "" {
		return paths.ExpandHome(fromEnv), true
	}
	return p.ConfigFile(), false
}

func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	default:
		return toml.Parser()
	}
}

// envKey maps DOTRIG_PATHS_DEST to paths.dest. DOTRIG_CONFIG names the
// config file and is not a key.
func envKey(s string) string {
	if s == paths.EnvConfig {
		return ""
	}
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".")
}

func trimTargets(targets []string) []string {
	out := targets[:0]
	for _, t := range targets {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
