package main

import (
	"errors"
	"flag"
	"io"
	"os"
	"time"

	types "github.com/stronnag/elrsplay/pkg/api/types"
	"github.com/stronnag/elrsplay/pkg/config"
	"github.com/stronnag/elrsplay/pkg/crsf"
	"github.com/stronnag/elrsplay/pkg/options"
	"github.com/stronnag/elrsplay/pkg/safety"
	"github.com/stronnag/elrsplay/pkg/serialdev"
)

var (
	// help was requested for a sub-command; exits 0
	errShowHelp    = &types.Error{Kind: types.ErrNone, Msg: "help"}
	errInterrupted = &types.Error{Kind: types.ErrorKind(types.ExitInterrupted), Msg: "interrupted"}
)

// spacing of the disarm frames sent on the way out
var drain_interval = 20 * time.Millisecond

type app struct {
	cfg  *config.Config
	out  io.Writer
	open func(string, serialdev.Options) (serialdev.Port, error)
	// key presses for interactive play; nil uses the controlling tty
	keys <-chan rune
}

func newApp(cfg *config.Config, out io.Writer) *app {
	return &app{cfg: cfg, out: out, open: serialdev.Open}
}

func (a *app) dispatch(cmd string, args []string) error {
	switch cmd {
	case "play":
		return a.cmdPlay(args)
	case "validate":
		return a.cmdValidate(args)
	case "ping":
		return a.cmdPing(args)
	case "info":
		return a.cmdInfo(args)
	case "send":
		return a.cmdSend(args)
	case "gpio":
		return a.cmdGpio(args)
	case "convert":
		return a.cmdConvert(args)
	case "help":
		options.Usage()
		return nil
	}
	return types.NewError(types.ErrArgument, "unknown command \"%s\"", cmd)
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return errShowHelp
		}
		return types.WrapError(types.ErrArgument, err, fs.Name())
	}
	if fs.NArg() > 0 {
		return types.NewError(types.ErrArgument, "%s: unexpected argument \"%s\"", fs.Name(), fs.Arg(0))
	}
	return nil
}

func (a *app) openPort() (serialdev.Port, error) {
	return a.open(a.cfg.Device.Port, serialdev.Options{
		Baudrate:   a.cfg.Device.Baudrate,
		HalfDuplex: a.cfg.Device.HalfDuplex,
	})
}

// drain sends the failsafe pattern so the TX module ends disarmed with
// the throttle low.
func (a *app) drain(s *crsf.Sender, sup *safety.Supervisor) {
	n := sup.Config().DisarmFrames
	options.Logf(options.LOG_INFO, "Sending %d disarm frames\n", n)
	for j := 0; j < n; j++ {
		if err := s.Send(sup.FailsafeChannels()); err != nil {
			options.Logf(options.LOG_WARN, "disarm: %v\n", err)
			return
		}
		time.Sleep(drain_interval)
	}
}
