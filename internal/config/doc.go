// Package config resolves PanelNest settings from defaults, environment
// variables, an optional YAML file and command-line flags. Later sources win:
// CLI flags > YAML config > environment variables > defaults.
package config
