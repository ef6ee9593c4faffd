package main

import (
	"errors"
	"fmt"
	"time"

	types "github.com/stronnag/elrsplay/pkg/api/types"
	"github.com/stronnag/elrsplay/pkg/crsf"
	"github.com/stronnag/elrsplay/pkg/options"
)

// pause between successive pings
var ping_interval = 100 * time.Millisecond

func (a *app) cmdPing(args []string) error {
	var timeout, count int
	fs := newFlagSet("ping")
	fs.IntVar(&timeout, "t", 1000, "Response timeout (ms)")
	fs.IntVar(&timeout, "timeout", 1000, "Response timeout (ms)")
	fs.IntVar(&count, "count", 3, "Number of pings")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if count <= 0 || timeout <= 0 {
		return types.NewError(types.ErrArgument, "ping: count and timeout must be positive")
	}

	port, err := a.openPort()
	if err != nil {
		return err
	}
	defer port.Close()
	fmt.Fprintf(a.out, "Pinging ELRS TX on %s...\n", a.cfg.Device.Port)

	fr := crsf.NewFrameReader(port)
	ping := crsf.DevicePing()
	received := 0
	var total time.Duration
	for j := 0; j < count; j++ {
		fr.Reset()
		start := time.Now()
		if _, err := port.Write(ping); err != nil {
			fmt.Fprintln(a.out, "Send failed")
			continue
		}
		frame, err := fr.ReadFrame(time.Duration(timeout) * time.Millisecond)
		rtt := time.Since(start)
		switch {
		case errors.Is(err, crsf.ErrTimeout):
			fmt.Fprintln(a.out, "Timeout")
		case err != nil:
			return err
		default:
			ms := float64(rtt) / float64(time.Millisecond)
			if ft := crsf.FrameType(frame); ft == types.FRAME_DEVICE_INFO {
				if di, ok := crsf.ParseDeviceInfo(frame); ok {
					fmt.Fprintf(a.out, "Response from %s: time=%.3fms\n", di.Name, ms)
				} else {
					fmt.Fprintf(a.out, "Response (DEVICE_INFO, parse failed): time=%.3fms\n", ms)
				}
			} else {
				fmt.Fprintf(a.out, "Response (type=0x%x): time=%.3fms\n", ft, ms)
			}
			received++
			total += rtt
		}
		if j < count-1 {
			time.Sleep(ping_interval)
		}
	}

	fmt.Fprintln(a.out, "--- ping statistics ---")
	fmt.Fprintf(a.out, "%d packets transmitted, %d received, %d%% packet loss\n",
		count, received, (count-received)*100/count)
	if received == 0 {
		return types.NewError(types.ErrDevice, "no response")
	}
	fmt.Fprintf(a.out, "rtt avg = %.3f ms\n", float64(total)/float64(received)/float64(time.Millisecond))
	return nil
}

func (a *app) cmdInfo(args []string) error {
	var timeout int
	fs := newFlagSet("info")
	fs.IntVar(&timeout, "t", 2000, "Response timeout (ms)")
	fs.IntVar(&timeout, "timeout", 2000, "Response timeout (ms)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	port, err := a.openPort()
	if err != nil {
		return err
	}
	defer port.Close()
	fmt.Fprintf(a.out, "Querying device info on %s...\n", a.cfg.Device.Port)

	if _, err := port.Write(crsf.DevicePing()); err != nil {
		return types.WrapError(types.ErrDevice, err, "failed to send ping")
	}
	frame, err := crsf.NewFrameReader(port).ReadFrame(time.Duration(timeout) * time.Millisecond)
	if errors.Is(err, crsf.ErrTimeout) {
		return types.NewError(types.ErrDevice, "no response from device (timeout %dms)", timeout)
	} else if err != nil {
		return err
	}
	if ft := crsf.FrameType(frame); ft != types.FRAME_DEVICE_INFO {
		return types.NewError(types.ErrDevice, "unexpected response type: 0x%02X (expected DEVICE_INFO 0x%02X)",
			ft, types.FRAME_DEVICE_INFO)
	}
	di, ok := crsf.ParseDeviceInfo(frame)
	if !ok {
		return types.NewError(types.ErrDevice, "failed to parse DEVICE_INFO response")
	}

	fmt.Fprintf(a.out, "Device: %s\n", a.cfg.Device.Port)
	fmt.Fprintf(a.out, "Baudrate: %d\n", a.cfg.Device.Baudrate)
	fmt.Fprintln(a.out, "Protocol: CRSF")
	fmt.Fprintf(a.out, "Device Name: %s\n", di.Name)
	fmt.Fprintf(a.out, "Serial: %X\n", di.Serial[:])
	fmt.Fprintf(a.out, "Hardware ID: %X\n", di.HardwareID[:])
	fmt.Fprintf(a.out, "Firmware ID: %X\n", di.FirmwareID[:])
	fmt.Fprintf(a.out, "Parameters: %d\n", di.ParamCount)
	fmt.Fprintf(a.out, "Parameter Protocol: %d\n", di.ParamVersion)
	for k, v := range di.Summary() {
		options.Logf(options.LOG_DEBUG, "%-8s : %s\n", k, v)
	}
	return nil
}
