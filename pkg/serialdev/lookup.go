package serialdev

import (
	"github.com/yookoala/realpath"
)

type PortInfo struct {
	Name        string
	Description string
	VID         string
	PID         string
	Serial      string
}

// Canonical resolves symlinks such as /dev/serial0, returning the path
// unchanged if that fails.
func Canonical(path string) string {
	if rp, err := realpath.Realpath(path); err == nil {
		return rp
	}
	return path
}

// Enumerate lists the USB serial ports present.
func Enumerate() ([]PortInfo, error) {
	return enumerate()
}

// get_device_by_description finds a USB serial device by its product
// description, "" if there is none.
func get_device_by_description(desc string) string {
	ports, err := enumerate()
	if err != nil {
		return ""
	}
	for _, p := range ports {
		if p.Description == desc {
			return p.Name
		}
	}
	return ""
}
