package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// envPrefix namespaces the environment variables this loader reads.
const envPrefix = "ITERKIT_"

// FileSystem interface for file operations (useful for testing).
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// RealFileSystem implements FileSystem using actual file operations.
type RealFileSystem struct{}

func (rfs *RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (rfs *RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// LoaderConfig holds dependencies and optional file overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string // Direct config file path (optional)
	EnvFile    string // Direct .env file path (optional)
}

// LoaderOption is a functional option for Load.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// defaulter is implemented by config structs that can fill in defaults.
type defaulter interface {
	ApplyDefaults()
}

// validater is implemented by config structs with their own checks.
type validater interface {
	Validate() error
}

// Load loads configuration for name into cfg. It reads the YAML config
// file (explicit path, or config.yml / config/config.yml relative to the
// working directory), loads a .env file when present, applies
// ITERKIT_-prefixed environment overrides, and unmarshals into cfg. Hooks
// and `validate` struct tags run afterwards.
func Load(name string, cfg any, opts ...LoaderOption) error {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		lc.FileSystem = &RealFileSystem{}
	}

	v := viper.New()

	configFile := lc.ConfigFile
	if configFile == "" {
		configFile = findConfigFile(lc.FileSystem)
	}
	if configFile != "" && lc.FileSystem.Exists(configFile) {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", configFile, err)
		}
	}

	envFile := lc.EnvFile
	if envFile == "" && lc.FileSystem.Exists(".env") {
		envFile = ".env"
	}
	if envFile != "" && lc.FileSystem.Exists(envFile) {
		if err := lc.FileSystem.LoadEnv(envFile); err != nil {
			return fmt.Errorf("loading env file %s: %w", envFile, err)
		}
	}

	bindEnvVars(v)

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unmarshalling config for %s: %w", name, err)
	}

	if d, ok := cfg.(defaulter); ok {
		d.ApplyDefaults()
	}
	if err := ValidateStruct(cfg); err != nil {
		return fmt.Errorf("validating config for %s: %w", name, err)
	}
	if vl, ok := cfg.(validater); ok {
		if err := vl.Validate(); err != nil {
			return fmt.Errorf("validating config for %s: %w", name, err)
		}
	}
	return nil
}

func findConfigFile(fs FileSystem) string {
	for _, path := range []string{"./config.yml", "./config/config.yml"} {
		if fs.Exists(path) {
			return path
		}
	}
	return ""
}

// bindEnvVars maps ITERKIT_FEED_CAPACITY=8 onto the viper key
// "feed.capacity". Viper's AutomaticEnv does not surface env-only keys to
// Unmarshal, so the values are set explicitly. An underscore may belong to
// the key itself (logging.no_color), so every nesting variant is set.
func bindEnvVars(v *viper.Viper) {
	for _, env := range os.Environ() {
		pair := strings.SplitN(env, "=", 2)
		if len(pair) != 2 || !strings.HasPrefix(pair[0], envPrefix) {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(pair[0], envPrefix))
		for _, variant := range envKeyVariants(key) {
			v.Set(variant, pair[1])
		}
	}
}

// envKeyVariants returns every way of reading the underscores in key as
// either nesting separators or literal underscores.
//
//	feed_no_color -> [feed_no_color feed_no.color feed.no_color feed.no.color]
func envKeyVariants(key string) []string {
	parts := strings.Split(key, "_")
	variants := []string{parts[0]}
	for _, part := range parts[1:] {
		next := make([]string, 0, len(variants)*2)
		for _, prefix := range variants {
			next = append(next, prefix+"_"+part, prefix+"."+part)
		}
		variants = next
	}
	return variants
}
