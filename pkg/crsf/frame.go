package crsf

import (
	types "github.com/stronnag/elrsplay/pkg/api/types"
)

const (
	min_frame_len = 2 // type + crc
	max_frame_len = types.MAX_FRAME_SIZE - 2
)

func is_sync(b byte) bool {
	return b == types.ADDR_TRANSMITTER || b == types.ADDR_FC
}

// BuildRcChannelsFrame returns a complete RC_CHANNELS_PACKED frame
// addressed to the TX module.
func BuildRcChannelsFrame(chans types.ChannelData) [types.RC_FRAME_SIZE]byte {
	var buf [types.RC_FRAME_SIZE]byte
	buf[0] = types.SYNC_BYTE
	buf[1] = types.RC_FRAME_SIZE - 2
	buf[2] = types.FRAME_RC_CHANNELS
	packInto(chans, buf[3:])
	buf[25] = Crc8(buf[2:25])
	return buf
}

// BuildDevicePingFrame uses extended addressing: the payload is the
// destination and origin addresses.
func BuildDevicePingFrame(dest, origin byte) []byte {
	buf := make([]byte, 6)
	buf[0] = types.SYNC_BYTE
	buf[1] = 4
	buf[2] = types.FRAME_DEVICE_PING
	buf[3] = dest
	buf[4] = origin
	buf[5] = Crc8(buf[2:5])
	return buf
}

// DevicePing is a broadcast ping from the handset address.
func DevicePing() []byte {
	return BuildDevicePingFrame(types.ADDR_BROADCAST, types.ADDR_HANDSET)
}

func ValidateFrame(buf []byte) bool {
	if len(buf) < 4 {
		return false
	}
	if !is_sync(buf[0]) {
		return false
	}
	flen := int(buf[1])
	if flen < min_frame_len || len(buf) < flen+2 {
		return false
	}
	return Crc8(buf[2:flen+1]) == buf[flen+1]
}

func FrameType(buf []byte) byte {
	if len(buf) < 3 {
		return 0
	}
	return buf[2]
}

// ExtractFrame scans buf for the next CRC-valid frame. It returns the
// number of leading bytes the caller may discard and, when one was found,
// a copy of the frame. A plausible but incomplete frame is never consumed,
// so the caller should append more input and try again.
func ExtractFrame(buf []byte) (int, []byte) {
	for off := 0; off < len(buf); off++ {
		if !is_sync(buf[off]) {
			continue
		}
		if off+1 >= len(buf) {
			return off, nil
		}
		flen := int(buf[off+1])
		if flen < min_frame_len || flen > max_frame_len {
			continue
		}
		end := off + flen + 2
		if end > len(buf) {
			return off, nil
		}
		if Crc8(buf[off+2:end-1]) != buf[end-1] {
			continue
		}
		frame := make([]byte, end-off)
		copy(frame, buf[off:end])
		return end, frame
	}
	return len(buf), nil
}
