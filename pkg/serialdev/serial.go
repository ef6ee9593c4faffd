package serialdev

import (
	"strings"
	"time"

	"go.bug.st/serial"

	types "github.com/stronnag/elrsplay/pkg/api/types"
	"github.com/stronnag/elrsplay/pkg/options"
)

// SerialPort is a raw 8N1 serial line without flow control.
type SerialPort struct {
	sd         serial.Port
	name       string
	halfDuplex bool
	rtmo       time.Duration
}

func openSerial(device string, o Options) (*SerialPort, error) {
	if !(strings.HasPrefix(device, "/dev/") || strings.HasPrefix(device, "COM")) {
		name := get_device_by_description(device)
		if name == "" {
			return nil, types.NewError(types.ErrDevice, "%s: no matching device", device)
		}
		device = name
	}
	mode := &serial.Mode{
		BaudRate: o.Baudrate,
		DataBits: 8,
		StopBits: serial.OneStopBit,
		Parity:   serial.NoParity,
	}
	sd, err := serial.Open(device, mode)
	if err != nil {
		return nil, types.WrapError(types.ErrDevice, err, device)
	}
	sd.ResetInputBuffer()
	duplex := "full"
	if o.HalfDuplex {
		duplex = "half"
	}
	options.Logf(options.LOG_INFO, "Opened %s at %d baud, %s duplex\n", Canonical(device), o.Baudrate, duplex)
	return &SerialPort{sd: sd, name: device, halfDuplex: o.HalfDuplex, rtmo: -1}, nil
}

func (p *SerialPort) Name() string {
	return p.name
}

// Write sends all of buf. In half duplex mode the line is drained and the
// local echo discarded before returning.
func (p *SerialPort) Write(buf []byte) (int, error) {
	tot := 0
	for tot < len(buf) {
		n, err := p.sd.Write(buf[tot:])
		tot += n
		if err != nil {
			return tot, types.WrapError(types.ErrDevice, err, "write "+p.name)
		}
	}
	if p.halfDuplex {
		if err := p.Flush(); err != nil {
			return tot, err
		}
	}
	return tot, nil
}

func (p *SerialPort) ReadTimeout(buf []byte, timeout time.Duration) (int, error) {
	if timeout != p.rtmo {
		if err := p.sd.SetReadTimeout(timeout); err != nil {
			return 0, types.WrapError(types.ErrDevice, err, "timeout "+p.name)
		}
		p.rtmo = timeout
	}
	n, err := p.sd.Read(buf)
	if err != nil {
		return n, types.WrapError(types.ErrDevice, err, "read "+p.name)
	}
	return n, nil
}

// Flush waits for queued output to be transmitted then discards any
// pending input, which on a half duplex line is our own echo.
func (p *SerialPort) Flush() error {
	if err := p.sd.Drain(); err != nil {
		return types.WrapError(types.ErrDevice, err, "drain "+p.name)
	}
	if err := p.sd.ResetInputBuffer(); err != nil {
		return types.WrapError(types.ErrDevice, err, "reset "+p.name)
	}
	return nil
}

func (p *SerialPort) Close() error {
	return p.sd.Close()
}
