// Package config loads fxrender settings from TOML.
//
// A missing file is not an error: Load falls back to Default. Unknown keys
// are rejected so typos surface instead of silently keeping defaults.
package config
