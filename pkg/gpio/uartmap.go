package gpio

import (
	"path/filepath"
	"strconv"
	"strings"
)

// UartMapping describes a Raspberry Pi 4/5 PL011 UART and its pins.
type UartMapping struct {
	TxPin       int
	RxPin       int
	Uart        int
	Device      string
	Description string
}

var mappings = []UartMapping{
	{14, 15, 0, "/dev/ttyAMA0", "UART0 (PL011) - default"},
	{0, 1, 2, "/dev/ttyAMA1", "UART2 - shared with I2C0"},
	{4, 5, 3, "/dev/ttyAMA2", "UART3"},
	{8, 9, 4, "/dev/ttyAMA3", "UART4 - shared with SPI0 CE0/CE1"},
	{12, 13, 5, "/dev/ttyAMA4", "UART5"},
}

// Notes printed after the mapping table.
var Notes = []string{
	"UART1 (mini UART) is not listed; its baud rate follows the core clock.",
	"UART2 shares GPIO0/1 with I2C0 (HAT EEPROM).",
	"UART4 shares GPIO8/9 with SPI0 CE0/CE1.",
	"Enable extra UARTs in config.txt, e.g. dtoverlay=uart3, dtoverlay=uart4, dtoverlay=uart5.",
}

func Available() []UartMapping {
	m := make([]UartMapping, len(mappings))
	copy(m, mappings)
	return m
}

func FindByTx(pin int) (UartMapping, bool) {
	for _, m := range mappings {
		if m.TxPin == pin {
			return m, true
		}
	}
	return UartMapping{}, false
}

func FindByUart(uart int) (UartMapping, bool) {
	for _, m := range mappings {
		if m.Uart == uart {
			return m, true
		}
	}
	return UartMapping{}, false
}

// FindByDevice is the reverse lookup; the path should already have had
// symlinks resolved.
func FindByDevice(path string) (UartMapping, bool) {
	path = filepath.Clean(path)
	for _, m := range mappings {
		if m.Device == path {
			return m, true
		}
	}
	return UartMapping{}, false
}

// ResolveDevicePath maps a GPIO TX pin number to its UART device. Paths
// and anything unrecognised are returned unchanged.
func ResolveDevicePath(name string) string {
	s := strings.TrimSpace(name)
	if s == "" || strings.HasPrefix(s, "/") {
		return name
	}
	if pin, err := strconv.Atoi(s); err == nil {
		if m, ok := FindByTx(pin); ok {
			return m.Device
		}
	}
	return name
}
