// Package config defines the application configuration model and loads
// it from the environment and optional config files at startup.
package config
