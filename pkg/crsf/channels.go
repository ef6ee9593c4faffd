package crsf

import (
	types "github.com/stronnag/elrsplay/pkg/api/types"
)

func clamp(v, lo, hi int16) int16 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

const (
	crsf_span = types.CRSF_CHANNEL_MAX - types.CRSF_CHANNEL_MIN
	pwm_span  = types.PWM_MAX - types.PWM_MIN
)

// PwmToCrsf maps a PWM value (µs) to the CRSF channel domain, clamping
// first. Integer arithmetic rounded to nearest, so 1500 lands on 992.
func PwmToCrsf(pwm int16) int16 {
	pwm = clamp(pwm, types.PWM_MIN, types.PWM_MAX)
	v := (int32(pwm-types.PWM_MIN)*crsf_span + pwm_span/2) / pwm_span
	return int16(v + types.CRSF_CHANNEL_MIN)
}

func CrsfToPwm(v int16) int16 {
	v = ClampChannel(v)
	p := (int32(v-types.CRSF_CHANNEL_MIN)*pwm_span + crsf_span/2) / crsf_span
	return int16(p + types.PWM_MIN)
}

func ClampChannel(v int16) int16 {
	return clamp(v, types.CRSF_CHANNEL_MIN, types.CRSF_CHANNEL_MAX)
}

// ClampAll clamps every channel into the CRSF range.
func ClampAll(c types.ChannelData) types.ChannelData {
	for j := range c {
		c[j] = ClampChannel(c[j])
	}
	return c
}

// PackChannels packs 16 clamped 11 bit channels, least significant bit
// first, into 22 bytes.
func PackChannels(chans types.ChannelData) [types.RC_PAYLOAD_SIZE]byte {
	var out [types.RC_PAYLOAD_SIZE]byte
	packInto(chans, out[:])
	return out
}

func packInto(chans types.ChannelData, buf []byte) {
	bits := uint32(0)
	nbits := 0
	n := 0
	for _, c := range chans {
		bits |= uint32(ClampChannel(c)) << nbits
		nbits += types.CHANNEL_BITS
		for nbits >= 8 {
			buf[n] = byte(bits)
			n++
			bits >>= 8
			nbits -= 8
		}
	}
	// 176 bits divide exactly into 22 bytes, nothing is left over
}

// UnpackChannels is the inverse of PackChannels. buf must hold at least 22
// bytes.
func UnpackChannels(buf []byte) types.ChannelData {
	var chans types.ChannelData
	bits := uint32(0)
	nbits := 0
	n := 0
	for j := range chans {
		for nbits < types.CHANNEL_BITS {
			bits |= uint32(buf[n]) << nbits
			n++
			nbits += 8
		}
		chans[j] = int16(bits & 0x7ff)
		bits >>= types.CHANNEL_BITS
		nbits -= types.CHANNEL_BITS
	}
	return chans
}
