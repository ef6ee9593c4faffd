//go:build !windows
// +build !windows

package types

import (
	"os"
	"path/filepath"
)

func GetConfigDir() string {
	if def := os.Getenv("XDG_CONFIG_HOME"); def != "" {
		return def
	}
	def := os.Getenv("HOME")
	if def != "" {
		def = filepath.Join(def, ".config")
	} else {
		def = "./"
	}
	return def
}
