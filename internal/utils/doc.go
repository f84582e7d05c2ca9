// Package utils hosts shared infrastructure for the bbump CLI.
//
// It provides LoggerFactory for constructing zap loggers and
// ConfigurationLoader for layering embedded defaults, configuration files,
// and environment overrides through Viper.
package utils
