package playback

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

type Stats struct {
	FramesSent     uint64
	LoopsCompleted uint32
	ElapsedMs      uint64
	ActualRateHz   float64
	AvgJitterUs    float64
	MaxJitterUs    float64
	P50JitterUs    float64
	P95JitterUs    float64
	P99JitterUs    float64
}

func (e *Engine) Stats() Stats {
	st := Stats{FramesSent: e.sent, LoopsCompleted: e.loops}
	if e.started.IsZero() {
		return st
	}
	el := e.clock.Now().Sub(e.started)
	st.ElapsedMs = uint64(el.Milliseconds())
	if el > 0 {
		st.ActualRateHz = float64(e.sent) / el.Seconds()
	}
	if e.jcount > 0 {
		st.AvgJitterUs = e.jsum / float64(e.jcount)
		st.MaxJitterUs = e.jmax
		st.P50JitterUs = e.jq.Query(0.50)
		st.P95JitterUs = e.jq.Query(0.95)
		st.P99JitterUs = e.jq.Query(0.99)
	}
	return st
}

func (s Stats) String() string {
	return fmt.Sprintf("frames %s, loops %d, elapsed %s, rate %s, jitter avg %.0fµs p95 %.0fµs max %.0fµs",
		humanize.Comma(int64(s.FramesSent)), s.LoopsCompleted,
		humanize.SIWithDigits(float64(s.ElapsedMs)/1000.0, 2, "s"),
		humanize.SIWithDigits(s.ActualRateHz, 1, "Hz"),
		s.AvgJitterUs, s.P95JitterUs, s.MaxJitterUs)
}
