package extract

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrMissingRootFile  = errors.New("root_file must not be empty")
	ErrMissingTokenFile = errors.New("token_file must not be empty")
)

// Config describes the crate layout conventions the crawler follows.
// The defaults match the modeled library; a config file can override
// any of them.
type Config struct {
	// RootFile is the crate root, relative to the crate directory.
	RootFile string `mapstructure:"root_file"`
	// TokenFile holds the token spelling macro, relative to the crate
	// directory.
	TokenFile string `mapstructure:"token_file"`
	// IgnoredModules are never followed; they contain generated
	// traversal code, not grammar declarations.
	IgnoredModules []string `mapstructure:"ignored_modules"`
	// ExtraTypes are plain (non-macro) struct names captured as nodes
	// wherever they are declared.
	ExtraTypes []string `mapstructure:"extra_types"`
	// ModuleFeatureOverrides force-gates a module to one feature name
	// regardless of its own attributes. One documented case exists: the
	// module built under two features but exported only under one.
	ModuleFeatureOverrides map[string]string `mapstructure:"module_feature_overrides"`
}

// DefaultConfig returns the modeled library's conventions.
func DefaultConfig() Config {
	return Config{
		RootFile:       "src/lib.rs",
		TokenFile:      "src/token.rs",
		IgnoredModules: []string{"fold", "visit", "visit_mut"},
		ExtraTypes:     []string{"Lifetime"},
		ModuleFeatureOverrides: map[string]string{
			"derive": "derive",
		},
	}
}

// LoadConfig loads a config file over the defaults. An empty path
// returns the defaults unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}

	viperCfg := viper.New()
	viperCfg.SetConfigFile(path)

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", readErr)
	}

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := validateConfig(cfg)
	if validateErr != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return cfg, nil
}

func validateConfig(cfg Config) error {
	if cfg.RootFile == "" {
		return ErrMissingRootFile
	}

	if cfg.TokenFile == "" {
		return ErrMissingTokenFile
	}

	return nil
}

func (cfg Config) ignoredModule(name string) bool {
	for _, ignored := range cfg.IgnoredModules {
		if name == ignored {
			return true
		}
	}

	return false
}

func (cfg Config) extraType(name string) bool {
	for _, extra := range cfg.ExtraTypes {
		if name == extra {
			return true
		}
	}

	return false
}
