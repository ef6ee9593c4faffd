package types

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestExitCode(t *testing.T) {
	base := errors.New("boom")
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"plain", base, 1},
		{"argument", NewError(ErrArgument, "bad flag %s", "-x"), 2},
		{"config", WrapError(ErrConfig, base, "config"), 3},
		{"history wrapped", fmt.Errorf("load: %w", NewError(ErrHistory, "empty")), 4},
		{"device", WrapError(ErrDevice, base, "open"), 5},
		{"safety", NewError(ErrSafety, "estop"), 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWrapError(t *testing.T) {
	if WrapError(ErrDevice, nil, "x") != nil {
		t.Error("WrapError(nil) != nil")
	}
	base := os.ErrNotExist
	err := WrapError(ErrHistory, base, "history.csv")
	if !errors.Is(err, os.ErrNotExist) {
		t.Error("wrapped error lost its cause")
	}
	if got := err.Error(); got != "history.csv: "+base.Error() {
		t.Errorf("Error() = %q", got)
	}
}

func TestCentreChannels(t *testing.T) {
	c := CentreChannels()
	for j, v := range c {
		if v != CRSF_CHANNEL_MID {
			t.Fatalf("ch%d = %d", j, v)
		}
	}
}

func TestEvinceFileType(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		fn := filepath.Join(dir, name)
		if err := os.WriteFile(fn, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		return fn
	}
	tests := []struct {
		name string
		fn   string
		want int
	}{
		{"json ext", write("a.json", "0,1"), IS_JSON},
		{"csv ext", write("a.csv", "{}"), IS_CSV},
		{"db ext", write("a.db", ""), IS_SQLITE},
		{"json content", write("a.log", "  \n{\"frames\":[]}"), IS_JSON},
		{"sqlite content", write("a.bin", "SQLite format 3\000rest"), IS_SQLITE},
		{"csv content", write("a.txt", "0,992,992"), IS_CSV},
		{"missing", filepath.Join(dir, "nope.txt"), IS_UNKNOWN},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EvinceFileType(tt.fn); got != tt.want {
				t.Errorf("EvinceFileType() = %s, want %s", FileTypeName(got), FileTypeName(tt.want))
			}
		})
	}
}
