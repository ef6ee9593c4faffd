package main

import (
	"strconv"
	"strings"
	"time"

	types "github.com/stronnag/elrsplay/pkg/api/types"
	"github.com/stronnag/elrsplay/pkg/crsf"
	"github.com/stronnag/elrsplay/pkg/options"
	"github.com/stronnag/elrsplay/pkg/safety"
)

// parseChannels fills chans from a comma separated list of CRSF values.
func parseChannels(s string, chans *types.ChannelData) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	for j, p := range strings.Split(s, ",") {
		if j == types.MAX_CHANNELS {
			break
		}
		v, err := strconv.ParseInt(strings.TrimSpace(p), 10, 16)
		if err != nil {
			return types.NewError(types.ErrArgument, "send: invalid channel value \"%s\"", p)
		}
		chans[j] = int16(v)
	}
	return nil
}

func (a *app) cmdSend(args []string) error {
	var chstr string
	var duration int
	var arm bool
	var rate float64
	fs := newFlagSet("send")
	fs.StringVar(&chstr, "channels", "", "Channel values, comma separated")
	fs.IntVar(&duration, "duration", 1000, "Duration (ms)")
	fs.BoolVar(&arm, "arm", false, "Hold the arm channel high")
	fs.Float64Var(&rate, "rate", 500, "Packet rate (Hz)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if rate <= 0 {
		return types.NewError(types.ErrArgument, "send: rate must be positive")
	}

	chans := types.CentreChannels()
	chans[types.THROTTLE_CHANNEL] = types.CRSF_CHANNEL_MIN
	if err := parseChannels(chstr, &chans); err != nil {
		return err
	}
	sc := a.cfg.SafetyConfig()
	if arm {
		chans[sc.ArmChannel] = types.CRSF_CHANNEL_MAX
	}

	port, err := a.openPort()
	if err != nil {
		return err
	}
	defer port.Close()

	sup := safety.NewSupervisor(sc)
	safety.InstallSignalHandler(sup)
	defer safety.Uninstall()
	sender := crsf.NewSender(port)

	armed := ""
	if arm {
		armed = " (ARMED)"
	}
	options.Logf(options.LOG_INFO, "Sending for %dms%s...\n", duration, armed)

	interval := time.Duration(float64(time.Second) / rate)
	start := time.Now()
	last := start.Add(-interval)
	for !safety.ShutdownRequested() {
		now := time.Now()
		if now.Sub(start) >= time.Duration(duration)*time.Millisecond {
			break
		}
		if now.Sub(last) >= interval {
			c := chans
			sup.Process(&c)
			if err := sender.Send(c); err != nil {
				return err
			}
			sup.NotifySent()
			last = now
		}
		time.Sleep(hot_loop_sleep)
	}

	a.drain(sender, sup)
	options.Logf(options.LOG_INFO, "Done, %d frames\n", sender.Sent())
	if safety.ShutdownRequested() {
		return errInterrupted
	}
	return nil
}
