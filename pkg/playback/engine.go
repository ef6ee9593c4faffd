package playback

import (
	"sort"
	"sync/atomic"
	"time"

	"github.com/bmizerany/perks/quantile"

	types "github.com/stronnag/elrsplay/pkg/api/types"
)

type Options struct {
	RateHz      float64
	Loop        bool
	LoopCount   uint32 // 0 = forever
	StartTimeMs uint32
	EndTimeMs   uint32 // 0 = last frame
	Speed       float64
	ArmDelayMs  uint32
}

func DefaultOptions() Options {
	return Options{RateHz: 500, Speed: 1.0, ArmDelayMs: 3000}
}

// SendHook receives each dispatched channel set. Returning false stops
// playback.
type SendHook func(types.ChannelData) bool

type Clock interface {
	Now() time.Time
}

type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }

// Engine replays a history timeline at a fixed wire rate. It is driven by
// repeated calls to Tick from a single goroutine; only State may be read
// from elsewhere.
type Engine struct {
	frames   []types.HistoryFrame
	opts     Options
	hook     SendHook
	clock    Clock
	state    atomic.Int32
	complete bool

	interval  time.Duration
	started   time.Time
	startWall time.Time
	lastSend  time.Time
	pausedAt  time.Time

	index   int
	vtime   uint32
	current types.ChannelData

	sent   uint64
	loops  uint32
	jsum   float64
	jcount uint64
	jmax   float64
	jq     *quantile.Stream
}

func NewEngine() *Engine {
	e := &Engine{clock: wallClock{}, current: stoppedChannels()}
	e.SetOptions(DefaultOptions())
	return e
}

func stoppedChannels() types.ChannelData {
	c := types.CentreChannels()
	c[types.THROTTLE_CHANNEL] = types.CRSF_CHANNEL_MIN
	return c
}

func (e *Engine) SetClock(c Clock) {
	e.clock = c
}

// SetFrames hands the timeline to the engine, which does not modify it.
func (e *Engine) SetFrames(frames []types.HistoryFrame) {
	e.frames = frames
}

func (e *Engine) SetOptions(o Options) {
	if o.RateHz <= 0 {
		o.RateHz = DefaultOptions().RateHz
	}
	if o.Speed <= 0 {
		o.Speed = 1.0
	}
	e.opts = o
	e.interval = time.Duration(float64(time.Second) / o.RateHz)
}

func (e *Engine) Options() Options {
	return e.opts
}

func (e *Engine) SetSendHook(h SendHook) {
	e.hook = h
}

func (e *Engine) State() types.PlaybackState {
	return types.PlaybackState(e.state.Load())
}

// Complete is true once playback reached its end time or loop limit.
func (e *Engine) Complete() bool {
	return e.complete
}

func (e *Engine) Current() types.ChannelData {
	return e.current
}

// Position returns the virtual time (ms) and frame index last dispatched.
func (e *Engine) Position() (uint32, int) {
	return e.vtime, e.index
}

func (e *Engine) Start() {
	if len(e.frames) == 0 {
		return
	}
	now := e.clock.Now()
	e.sent = 0
	e.loops = 0
	e.jsum = 0
	e.jcount = 0
	e.jmax = 0
	e.jq = quantile.NewTargeted(0.50, 0.95, 0.99)
	e.complete = false
	e.started = now
	e.startWall = now
	e.lastSend = now
	e.vtime = e.opts.StartTimeMs
	e.index = e.findIndex(uint64(e.opts.StartTimeMs))
	e.current = e.frames[e.index].Chans
	e.state.Store(int32(types.Playing))
}

// Stop leaves the local cache at centre with the throttle low.
func (e *Engine) Stop() {
	e.state.Store(int32(types.Stopped))
	e.current = stoppedChannels()
}

func (e *Engine) Pause() {
	if e.state.CompareAndSwap(int32(types.Playing), int32(types.Paused)) {
		e.pausedAt = e.clock.Now()
	}
}

// Resume continues from the position at which playback was paused: the
// wall clock origin moves forward by the time spent paused, so virtual time
// does not advance while paused.
func (e *Engine) Resume() {
	if e.state.CompareAndSwap(int32(types.Paused), int32(types.Playing)) {
		now := e.clock.Now()
		e.startWall = e.startWall.Add(now.Sub(e.pausedAt))
		e.lastSend = now
	}
}

func (e *Engine) endTime() uint64 {
	if e.opts.EndTimeMs != 0 {
		return uint64(e.opts.EndTimeMs)
	}
	return uint64(e.frames[len(e.frames)-1].Stamp)
}

func (e *Engine) virtualTime(now time.Time) uint64 {
	el := float64(now.Sub(e.startWall)) / float64(time.Millisecond)
	if el < 0 {
		el = 0
	}
	return uint64(e.opts.StartTimeMs) + uint64(el*e.opts.Speed)
}

// findIndex returns the last frame stamped at or before v
func (e *Engine) findIndex(v uint64) int {
	n := sort.Search(len(e.frames), func(i int) bool {
		return uint64(e.frames[i].Stamp) > v
	})
	if n == 0 {
		return 0
	}
	return n - 1
}

func (e *Engine) finish() {
	e.complete = true
	e.Stop()
}

// Tick dispatches one frame if the send interval has elapsed. It never
// blocks (other than in the send hook) and returns true when a frame was
// sent.
func (e *Engine) Tick() bool {
	if e.State() != types.Playing || len(e.frames) == 0 {
		return false
	}
	now := e.clock.Now()
	since := now.Sub(e.lastSend)
	if since < e.interval {
		return false
	}

	jit := since - e.interval
	if jit < 0 {
		jit = -jit
	}
	jus := float64(jit) / float64(time.Microsecond)
	e.jsum += jus
	e.jcount++
	if jus > e.jmax {
		e.jmax = jus
	}
	e.jq.Insert(jus)

	e.lastSend = e.lastSend.Add(e.interval)
	if now.Sub(e.lastSend) > 3*e.interval {
		e.lastSend = now
	}

	v := e.virtualTime(now)
	if v >= e.endTime() {
		if !e.opts.Loop {
			e.finish()
			return false
		}
		e.loops++
		if e.opts.LoopCount != 0 && e.loops >= e.opts.LoopCount {
			e.finish()
			return false
		}
		e.startWall = now
		v = uint64(e.opts.StartTimeMs)
	}

	e.index = e.findIndex(v)
	e.vtime = uint32(v)
	e.current = e.frames[e.index].Chans
	if e.hook != nil && !e.hook(e.current) {
		e.Stop()
		return false
	}
	e.sent++
	return true
}
