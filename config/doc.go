// Package config loads application configuration for iterkit consumers.
//
// Configuration comes from three layered sources: a YAML file, an optional
// .env file, and ITERKIT_-prefixed environment variables, later sources
// overriding earlier ones. The result is unmarshalled into a caller-owned
// struct; structs exposing ApplyDefaults/Validate hooks get them called,
// and `validate` struct tags are checked with go-playground/validator.
//
//	type AppConfig struct {
//	    Feed timeout.Config `yaml:"feed" mapstructure:"feed"`
//	}
//
//	var cfg AppConfig
//	err := config.Load("feed-reader", &cfg, config.WithConfigFile("config.yml"))
package config
