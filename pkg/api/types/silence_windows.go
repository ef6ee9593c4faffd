//go:build windows
// +build windows

package types

import (
	"os"
)

func GetConfigDir() string {
	def := os.Getenv("APPDATA")
	if def == "" {
		def = "./"
	}
	return def
}
