package main

import (
	"context"
	"fmt"
	"time"

	"github.com/mattn/go-tty"
	"golang.org/x/sync/errgroup"

	types "github.com/stronnag/elrsplay/pkg/api/types"
	"github.com/stronnag/elrsplay/pkg/crsf"
	"github.com/stronnag/elrsplay/pkg/history"
	"github.com/stronnag/elrsplay/pkg/options"
	"github.com/stronnag/elrsplay/pkg/playback"
	"github.com/stronnag/elrsplay/pkg/rt"
	"github.com/stronnag/elrsplay/pkg/safety"
)

const hot_loop_sleep = 100 * time.Microsecond

const key_help = "Keys: <space> pause/resume, a arm, d disarm, e emergency stop, q quit"

func (a *app) cmdPlay(args []string) error {
	var hfile string
	var loopCount, startTime, endTime uint
	var armDelay int
	var dry, interactive bool
	popts := playback.DefaultOptions()
	popts.RateHz = a.cfg.Playback.DefaultRateHz

	fs := newFlagSet("play")
	fs.StringVar(&hfile, "H", "", "History file (csv, json, sqlite)")
	fs.StringVar(&hfile, "history", "", "History file (csv, json, sqlite)")
	fs.Float64Var(&popts.RateHz, "r", popts.RateHz, "Packet rate (Hz)")
	fs.Float64Var(&popts.RateHz, "rate", popts.RateHz, "Packet rate (Hz)")
	fs.BoolVar(&popts.Loop, "l", false, "Loop playback")
	fs.BoolVar(&popts.Loop, "loop", false, "Loop playback")
	fs.UintVar(&loopCount, "loop-count", 0, "Number of loops (0 = forever)")
	fs.UintVar(&startTime, "start-time", 0, "Start position (ms)")
	fs.UintVar(&endTime, "end-time", 0, "End position (ms, 0 = end of history)")
	fs.Float64Var(&popts.Speed, "s", 1.0, "Speed multiplier")
	fs.Float64Var(&popts.Speed, "speed", 1.0, "Speed multiplier")
	fs.BoolVar(&dry, "n", false, "Dry run, don't open the device")
	fs.BoolVar(&dry, "dry-run", false, "Dry run, don't open the device")
	fs.IntVar(&armDelay, "arm-delay", -1, "Arm delay (ms)")
	fs.BoolVar(&interactive, "i", false, "Interactive keyboard control")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if hfile == "" {
		return types.NewError(types.ErrArgument, "play: history file (-H) required")
	}
	if popts.RateHz <= 0 || popts.Speed <= 0 {
		return types.NewError(types.ErrArgument, "play: rate and speed must be positive")
	}
	popts.LoopCount = uint32(loopCount)
	if loopCount > 0 {
		popts.Loop = true
	}
	popts.StartTimeMs = uint32(startTime)
	popts.EndTimeMs = uint32(endTime)

	h, err := history.Load(hfile)
	if err != nil {
		return err
	}
	v := history.Validate(h.Frames, false)
	for _, w := range v.Warnings {
		options.Logf(options.LOG_WARN, "%s\n", w)
	}
	if !v.Valid {
		for _, e := range v.Errors {
			options.Logf(options.LOG_ERROR, "%s\n", e)
		}
		return types.NewError(types.ErrHistory, "%s: validation failed", hfile)
	}
	options.Logf(options.LOG_INFO, "Loaded %d frames (%s, %.1fs) from %s\n", h.Meta.FrameCount,
		h.Meta.Format, float64(h.Meta.DurationMs)/1000.0, hfile)

	sc := a.cfg.SafetyConfig()
	popts.ArmDelayMs = a.cfg.Playback.ArmDelayMs
	if armDelay >= 0 {
		sc.ArmDelayMs = uint32(armDelay)
		popts.ArmDelayMs = uint32(armDelay)
	}
	sup := safety.NewSupervisor(sc)
	safety.InstallSignalHandler(sup)
	defer safety.Uninstall()

	var sender *crsf.Sender
	if !dry {
		port, err := a.openPort()
		if err != nil {
			return err
		}
		defer port.Close()
		sender = crsf.NewSender(port)
	} else {
		options.Logf(options.LOG_INFO, "Dry run, nothing will be sent\n")
	}

	var writeErr error
	eng := playback.NewEngine()
	eng.SetFrames(h.Frames)
	eng.SetOptions(popts)
	eng.SetSendHook(func(c types.ChannelData) bool {
		if safety.ShutdownRequested() {
			return false
		}
		sup.Process(&c)
		if sender != nil {
			if err := sender.Send(c); err != nil {
				writeErr = err
				return false
			}
		}
		sup.NotifySent()
		return true
	})

	keys := a.keys
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	if interactive && keys == nil {
		kc, err := ttyKeys(g, gctx)
		if err != nil {
			options.Logf(options.LOG_WARN, "interactive: %v\n", err)
		} else {
			keys = kc
		}
	}
	if interactive {
		fmt.Fprintln(a.out, key_help)
	}

	quit := false
	g.Go(func() error {
		defer cancel()
		if a.cfg.Scheduling.Realtime {
			restore, _ := rt.Enable(a.cfg.Scheduling.Priority)
			defer restore()
		}
		quit = hotLoop(eng, sup, keys)
		return nil
	})
	g.Wait()

	if sender != nil && writeErr == nil {
		a.drain(sender, sup)
	}
	st := eng.Stats()
	fmt.Fprintf(a.out, "Playback: %s\n", st)
	options.Logf(options.LOG_DEBUG, "jitter p50 %.0fµs p99 %.0fµs\n", st.P50JitterUs, st.P99JitterUs)

	switch {
	case writeErr != nil:
		return writeErr
	case safety.ShutdownRequested() && !quit:
		return errInterrupted
	}
	return nil
}

// hotLoop drives the engine until it stops, shutdown is requested or q is
// pressed. It returns true for a keyboard quit.
func hotLoop(eng *playback.Engine, sup *safety.Supervisor, keys <-chan rune) bool {
	eng.Start()
	for eng.State() != types.Stopped {
		if safety.ShutdownRequested() {
			eng.Stop()
			break
		}
		select {
		case k := <-keys:
			if handleKey(k, eng, sup) {
				eng.Stop()
				return true
			}
		default:
		}
		eng.Tick()
		sup.CheckFailsafe()
		time.Sleep(hot_loop_sleep)
	}
	return false
}

func handleKey(k rune, eng *playback.Engine, sup *safety.Supervisor) bool {
	switch k {
	case ' ':
		if eng.State() == types.Paused {
			eng.Resume()
			options.Logf(options.LOG_INFO, "Resumed\n")
		} else {
			eng.Pause()
			vt, idx := eng.Position()
			options.Logf(options.LOG_INFO, "Paused at %.1fs (frame %d)\n", float64(vt)/1000.0, idx)
		}
	case 'a', 'A':
		if sup.RequestArm() {
			options.Logf(options.LOG_INFO, "Arm requested\n")
		}
	case 'd', 'D':
		sup.RequestDisarm()
	case 'e', 'E', '!':
		sup.EmergencyStop()
	case 'q', 'Q':
		options.Logf(options.LOG_INFO, "Quit\n")
		return true
	}
	return false
}

// ttyKeys reads key presses from the controlling terminal until ctx is
// done.
func ttyKeys(g *errgroup.Group, ctx context.Context) (<-chan rune, error) {
	t, err := tty.Open()
	if err != nil {
		return nil, err
	}
	kc := make(chan rune)
	g.Go(func() error {
		<-ctx.Done()
		return t.Close()
	})
	g.Go(func() error {
		for {
			r, err := t.ReadRune()
			if err != nil {
				return nil
			}
			select {
			case kc <- r:
			case <-ctx.Done():
				return nil
			}
		}
	})
	return kc, nil
}
