package serialdev

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	types "github.com/stronnag/elrsplay/pkg/api/types"
	"github.com/stronnag/elrsplay/pkg/options"
)

const (
	DevClass_NONE = iota
	DevClass_SERIAL
)

// Port is the transport to a TX module. ReadTimeout returns (0, nil) when
// nothing arrives within the timeout.
type Port interface {
	Write([]byte) (int, error)
	ReadTimeout(buf []byte, timeout time.Duration) (int, error)
	Flush() error
	Close() error
	Name() string
}

type Options struct {
	Baudrate   int
	HalfDuplex bool
}

func DefaultOptions() Options {
	return Options{Baudrate: types.CRSF_BAUDRATE, HalfDuplex: true}
}

type DevDescription struct {
	klass int
	name  string
	param int
}

func (d DevDescription) String() string {
	if d.klass == DevClass_SERIAL {
		return fmt.Sprintf("%s@%d", d.name, d.param)
	}
	return "none"
}

// parse_device splits an optional @baud suffix from a device name, as in
// /dev/ttyUSB0@420000.
func parse_device(device string, baud int) DevDescription {
	dd := DevDescription{klass: DevClass_NONE}
	device = strings.TrimSpace(device)
	if device == "" {
		return dd
	}
	dd.klass = DevClass_SERIAL
	dd.name = device
	dd.param = baud
	if n := strings.LastIndexByte(device, '@'); n > 0 {
		if b, err := strconv.Atoi(device[n+1:]); err == nil && b > 0 {
			dd.name = device[:n]
			dd.param = b
		}
	}
	return dd
}

// Open connects to the named device.
func Open(device string, o Options) (Port, error) {
	if o.Baudrate <= 0 {
		o.Baudrate = types.CRSF_BAUDRATE
	}
	dd := parse_device(device, o.Baudrate)
	options.Logf(options.LOG_DEBUG, "serialdev: opening %s\n", dd)
	if dd.klass != DevClass_SERIAL {
		return nil, types.NewError(types.ErrDevice, "no device available")
	}
	o.Baudrate = dd.param
	p, err := openSerial(dd.name, o)
	if err != nil {
		return nil, err
	}
	return p, nil
}
