package serialdev

import (
	"os"
	"path/filepath"
	"testing"

	types "github.com/stronnag/elrsplay/pkg/api/types"
)

func TestParseDevice(t *testing.T) {
	tests := []struct {
		in    string
		klass int
		name  string
		param int
	}{
		{"", DevClass_NONE, "", 0},
		{"/dev/ttyAMA0", DevClass_SERIAL, "/dev/ttyAMA0", 921600},
		{"COM3", DevClass_SERIAL, "COM3", 921600},
		{"CP2102 USB to UART Bridge Controller", DevClass_SERIAL, "CP2102 USB to UART Bridge Controller", 921600},
		{"/dev/ttyUSB0@420000", DevClass_SERIAL, "/dev/ttyUSB0", 420000},
		{" /dev/ttyUSB0@fast ", DevClass_SERIAL, "/dev/ttyUSB0@fast", 921600},
		{"@115200", DevClass_SERIAL, "@115200", 921600},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			dd := parse_device(tt.in, 921600)
			if dd.klass != tt.klass || dd.name != tt.name || dd.param != tt.param {
				t.Errorf("parse_device(%q) = %+v", tt.in, dd)
			}
		})
	}
}

func TestOpenErrors(t *testing.T) {
	for _, dev := range []string{"", "  ", "/dev/elrsplay-does-not-exist", "/dev/elrsplay-does-not-exist@420000"} {
		p, err := Open(dev, DefaultOptions())
		if err == nil {
			p.Close()
			t.Errorf("Open(%q) succeeded", dev)
			continue
		}
		if types.KindOf(err) != types.ErrDevice {
			t.Errorf("Open(%q) error kind = %s", dev, types.KindOf(err))
		}
	}
}

func TestCanonical(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "ttyAMA0")
	if err := os.WriteFile(target, nil, 0644); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(dir, "serial0")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlink: %v", err)
	}
	want, _ := filepath.EvalSymlinks(target)
	if got := Canonical(link); got != want {
		t.Errorf("Canonical() = %q, want %q", got, want)
	}
	missing := filepath.Join(dir, "missing")
	if got := Canonical(missing); got != missing {
		t.Errorf("Canonical(missing) = %q", got)
	}
}
