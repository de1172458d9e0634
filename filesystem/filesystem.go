// Package filesystem routes every disk access through a swappable afero backend so that
// tests can run against memory.
package filesystem

import "github.com/spf13/afero"

var backend = afero.Afero{Fs: afero.NewOsFs()}

// API returns the active backend wrapped with afero's helpers.
func API() afero.Afero {
	return backend
}

// Fs returns the bare backend, for libraries such as viper that accept an afero.Fs.
func Fs() afero.Fs {
	return backend.Fs
}

// SetOsFs switches to the operating system filesystem.
func SetOsFs() {
	backend = afero.Afero{Fs: afero.NewOsFs()}
}

// SetMemMapFs switches to a fresh in-memory filesystem.
func SetMemMapFs() {
	backend = afero.Afero{Fs: afero.NewMemMapFs()}
}
