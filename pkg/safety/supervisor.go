package safety

import (
	"sync/atomic"
	"time"

	types "github.com/stronnag/elrsplay/pkg/api/types"
	"github.com/stronnag/elrsplay/pkg/options"
)

type State int32

const (
	Disarmed State = iota
	ArmPending
	Armed
	Failsafe
	EmergencyStop
)

func (s State) String() string {
	switch s {
	case Disarmed:
		return "DISARMED"
	case ArmPending:
		return "ARM_PENDING"
	case Armed:
		return "ARMED"
	case Failsafe:
		return "FAILSAFE"
	case EmergencyStop:
		return "EMERGENCY_STOP"
	}
	return "UNKNOWN"
}

type Config struct {
	ArmChannel        int // 0 based
	ArmThreshold      int16
	ThrottleMin       int16
	FailsafeTimeoutMs uint32
	ArmDelayMs        uint32
	DisarmFrames      int
}

func DefaultConfig() Config {
	return Config{
		ArmChannel:        4,
		ArmThreshold:      1500,
		ThrottleMin:       types.CRSF_CHANNEL_MIN,
		FailsafeTimeoutMs: 500,
		ArmDelayMs:        3000,
		DisarmFrames:      10,
	}
}

// operator overrides of the recorded arm channel
const (
	manualNone int32 = iota
	manualArm
	// held until the arm channel is seen low
	manualDisarm
)

// Supervisor gates the channels sent to the TX module. The state word and
// timestamps are atomics as EmergencyStop may be called from the signal
// watcher while the main loop is in Process.
type Supervisor struct {
	cfg      Config
	state    atomic.Int32
	manual   atomic.Int32
	armStart atomic.Int64 // ns since epoch
	lastSent atomic.Int64 // ns since epoch
	epoch    time.Time
	now      func() time.Time
}

func NewSupervisor(cfg Config) *Supervisor {
	s := &Supervisor{now: time.Now}
	s.SetConfig(cfg)
	s.epoch = s.now()
	return s
}

// SetClock replaces the time source; the supervisor is reset to its
// initial timing state.
func (s *Supervisor) SetClock(now func() time.Time) {
	s.now = now
	s.epoch = now()
	s.armStart.Store(0)
	s.lastSent.Store(0)
}

func (s *Supervisor) SetConfig(cfg Config) {
	if cfg.ArmChannel < 0 || cfg.ArmChannel >= types.MAX_CHANNELS {
		cfg.ArmChannel = DefaultConfig().ArmChannel
	}
	s.cfg = cfg
}

func (s *Supervisor) Config() Config {
	return s.cfg
}

func (s *Supervisor) elapsed() int64 {
	return int64(s.now().Sub(s.epoch))
}

func (s *Supervisor) State() State {
	return State(s.state.Load())
}

func (s *Supervisor) IsArmed() bool {
	return s.State() == Armed
}

func (s *Supervisor) armChannelHigh(chans *types.ChannelData) bool {
	return chans[s.cfg.ArmChannel] > s.cfg.ArmThreshold
}

// IsArmRequested reports whether chans ask for arming, after any manual
// arm or disarm from RequestArm / RequestDisarm.
func (s *Supervisor) IsArmRequested(chans *types.ChannelData) bool {
	switch s.manual.Load() {
	case manualArm:
		return true
	case manualDisarm:
		return false
	}
	return s.armChannelHigh(chans)
}

func (s *Supervisor) cas(from, to State) bool {
	if s.state.CompareAndSwap(int32(from), int32(to)) {
		options.Logf(options.LOG_DEBUG, "safety: %s -> %s\n", from, to)
		return true
	}
	return false
}

// Process applies the state machine to chans in place. Throttle is held at
// the configured minimum in every state but Armed.
func (s *Supervisor) Process(chans *types.ChannelData) {
	st := s.State()
	if st == EmergencyStop || st == Failsafe {
		*chans = s.FailsafeChannels()
		return
	}

	if !s.armChannelHigh(chans) {
		s.manual.CompareAndSwap(manualDisarm, manualNone)
	}
	req := s.IsArmRequested(chans)
	switch st {
	case Disarmed:
		chans[types.THROTTLE_CHANNEL] = s.cfg.ThrottleMin
		if req {
			s.armStart.Store(s.elapsed())
			s.cas(Disarmed, ArmPending)
		}
	case ArmPending:
		chans[types.THROTTLE_CHANNEL] = s.cfg.ThrottleMin
		if !req {
			s.cas(ArmPending, Disarmed)
		} else if s.elapsed()-s.armStart.Load() >= int64(s.cfg.ArmDelayMs)*int64(time.Millisecond) {
			if s.cas(ArmPending, Armed) {
				options.Logf(options.LOG_INFO, "Armed\n")
			}
		}
	case Armed:
		if !req {
			chans[types.THROTTLE_CHANNEL] = s.cfg.ThrottleMin
			if s.cas(Armed, Disarmed) {
				options.Logf(options.LOG_INFO, "Disarmed\n")
			}
		}
	}
	// a concurrent emergency stop wins over whatever was decided above
	if s.State() == EmergencyStop {
		*chans = s.FailsafeChannels()
	}
}

// RequestArm arms regardless of the arm channel, after the arm delay. The
// request holds until RequestDisarm or an emergency stop. It reports
// whether the arm delay was started.
func (s *Supervisor) RequestArm() bool {
	st := s.State()
	if st == EmergencyStop || st == Failsafe {
		return false
	}
	s.manual.Store(manualArm)
	if st == Disarmed {
		s.armStart.Store(s.elapsed())
		return s.cas(Disarmed, ArmPending)
	}
	return false
}

// RequestDisarm disarms and ignores the arm channel until it has been
// seen low, so a recording holding it high cannot re-arm.
func (s *Supervisor) RequestDisarm() {
	s.manual.Store(manualDisarm)
	if s.cas(Armed, Disarmed) || s.cas(ArmPending, Disarmed) {
		options.Logf(options.LOG_INFO, "Disarmed\n")
	}
}

func (s *Supervisor) EmergencyStop() {
	s.manual.Store(manualNone)
	if State(s.state.Swap(int32(EmergencyStop))) != EmergencyStop {
		options.Logf(options.LOG_WARN, "EMERGENCY STOP\n")
	}
}

// NotifySent records a successful frame write and recovers from Failsafe.
func (s *Supervisor) NotifySent() {
	s.lastSent.Store(s.elapsed())
	if s.cas(Failsafe, Disarmed) {
		options.Logf(options.LOG_INFO, "Failsafe cleared\n")
	}
}

// CheckFailsafe enters Failsafe when nothing has been sent within the
// timeout.
func (s *Supervisor) CheckFailsafe() {
	st := s.State()
	if st == EmergencyStop || st == Failsafe {
		return
	}
	dt := s.elapsed() - s.lastSent.Load()
	if dt >= int64(s.cfg.FailsafeTimeoutMs)*int64(time.Millisecond) {
		if s.cas(st, Failsafe) {
			options.Logf(options.LOG_WARN, "Failsafe: no frame sent for %dms\n", dt/int64(time.Millisecond))
		}
	}
}

func (s *Supervisor) FailsafeChannels() types.ChannelData {
	c := types.CentreChannels()
	c[types.THROTTLE_CHANNEL] = s.cfg.ThrottleMin
	c[s.cfg.ArmChannel] = types.CRSF_CHANNEL_MIN
	return c
}
