package crsf

import (
	"bytes"

	types "github.com/stronnag/elrsplay/pkg/api/types"
)

// ParseDeviceInfo decodes a DEVICE_INFO frame:
//
//	[sync len 0x29 dest origin name... 0 serial(4) hw(4) fw(4) nparam pver crc]
//
// Any length or CRC violation yields nil, false.
func ParseDeviceInfo(frame []byte) (*types.DeviceInfo, bool) {
	if !ValidateFrame(frame) || FrameType(frame) != types.FRAME_DEVICE_INFO {
		return nil, false
	}
	flen := int(frame[1])
	if flen+2 < types.DEVICE_INFO_MINLEN {
		return nil, false
	}
	// payload sits between the type byte and the crc, after dest/origin
	payload := frame[5 : flen+1]
	nul := bytes.IndexByte(payload, 0)
	if nul < 0 {
		return nil, false
	}
	rest := payload[nul+1:]
	if len(rest) < 14 {
		return nil, false
	}
	di := &types.DeviceInfo{Name: string(payload[:nul])}
	copy(di.Serial[:], rest[0:4])
	copy(di.HardwareID[:], rest[4:8])
	copy(di.FirmwareID[:], rest[8:12])
	di.ParamCount = rest[12]
	di.ParamVersion = rest[13]
	return di, true
}

// BuildDeviceInfoFrame encodes di as a DEVICE_INFO response; used by test
// fixtures and the loopback device.
func BuildDeviceInfoFrame(dest, origin byte, di *types.DeviceInfo) []byte {
	name := di.Name
	if n := max_frame_len - 2 - 2 - 1 - 14; len(name) > n {
		name = name[:n]
	}
	plen := 2 + len(name) + 1 + 14
	buf := make([]byte, 0, plen+4)
	buf = append(buf, types.ADDR_FC, byte(plen+2), types.FRAME_DEVICE_INFO, dest, origin)
	buf = append(buf, name...)
	buf = append(buf, 0)
	buf = append(buf, di.Serial[:]...)
	buf = append(buf, di.HardwareID[:]...)
	buf = append(buf, di.FirmwareID[:]...)
	buf = append(buf, di.ParamCount, di.ParamVersion)
	buf = append(buf, Crc8(buf[2:]))
	return buf
}
