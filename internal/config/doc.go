// Package config provides configuration structures and utilities for srcpgear.
// It merges CLI flags, the optional .srcpgear YAML file and built-in defaults
// into one Config, and turns that Config into search requests.
package config
