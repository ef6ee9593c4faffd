package types

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"
)

const (
	IS_UNKNOWN = -1
	IS_CSV     = 1
	IS_JSON    = 2
	IS_SQLITE  = 3
)

var sqlite_magic = []byte("SQLite format 3\000")

func FileTypeName(ft int) string {
	switch ft {
	case IS_CSV:
		return "csv"
	case IS_JSON:
		return "json"
	case IS_SQLITE:
		return "sqlite"
	}
	return "unknown"
}

// EvinceFileType classifies a history file by extension, falling back to
// the first bytes of the file. Anything unrecognised is treated as CSV.
func EvinceFileType(fn string) int {
	switch strings.ToLower(filepath.Ext(fn)) {
	case ".json":
		return IS_JSON
	case ".csv":
		return IS_CSV
	case ".db", ".sqlite", ".sqlite3":
		return IS_SQLITE
	}

	file, err := os.Open(fn)
	if err != nil {
		return IS_UNKNOWN
	}
	defer file.Close()
	fh := bufio.NewReader(file)
	sig, _ := fh.Peek(64)
	switch {
	case bytes.HasPrefix(sig, sqlite_magic):
		return IS_SQLITE
	case bytes.HasPrefix(bytes.TrimLeft(sig, " \t\r\n"), []byte("{")):
		return IS_JSON
	}
	return IS_CSV
}
