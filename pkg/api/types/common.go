package types

import (
	"fmt"
	"strings"
)

// CRSF device addresses
const (
	ADDR_BROADCAST   = 0x00
	ADDR_FC          = 0xC8
	ADDR_HANDSET     = 0xEA
	ADDR_TRANSMITTER = 0xEE
	// Outbound frames are addressed to the TX module
	SYNC_BYTE = ADDR_TRANSMITTER
)

// CRSF frame types
const (
	FRAME_LINK_STATISTICS = 0x14
	FRAME_RC_CHANNELS     = 0x16
	FRAME_DEVICE_PING     = 0x28
	FRAME_DEVICE_INFO     = 0x29
)

const (
	MAX_FRAME_SIZE     = 64
	MAX_CHANNELS       = 16
	CHANNEL_BITS       = 11
	RC_PAYLOAD_SIZE    = 22
	RC_FRAME_SIZE      = 26
	THROTTLE_CHANNEL   = 2
	CRSF_BAUDRATE      = 921600
	CRSF_BAUDRATE_RX   = 420000
	DEVICE_INFO_MINLEN = 21
)

const (
	CRSF_CHANNEL_MIN = 172
	CRSF_CHANNEL_MID = 992
	CRSF_CHANNEL_MAX = 1811

	PWM_MIN = 988
	PWM_MID = 1500
	PWM_MAX = 2012
)

// ChannelData is one complete set of RC channel values in the CRSF domain.
type ChannelData [MAX_CHANNELS]int16

// CentreChannels returns all channels at mid stick.
func CentreChannels() ChannelData {
	var c ChannelData
	for j := range c {
		c[j] = CRSF_CHANNEL_MID
	}
	return c
}

func (c ChannelData) String() string {
	var sb strings.Builder
	for j, v := range c {
		if j > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "%d", v)
	}
	return sb.String()
}

// HistoryFrame is a single recorded channel sample. Stamp is in
// milliseconds on the recording's own clock.
type HistoryFrame struct {
	Stamp uint32
	Chans ChannelData
}

// DeviceInfo is the decoded payload of a DEVICE_INFO response
type DeviceInfo struct {
	Name         string
	Serial       [4]byte
	HardwareID   [4]byte
	FirmwareID   [4]byte
	ParamCount   uint8
	ParamVersion uint8
}

func (d *DeviceInfo) Summary() map[string]string {
	m := make(map[string]string)
	m["Name"] = d.Name
	m["Serial"] = fmt.Sprintf("%X", d.Serial[:])
	m["Hardware"] = fmt.Sprintf("%X", d.HardwareID[:])
	m["Firmware"] = fmt.Sprintf("%X", d.FirmwareID[:])
	m["Params"] = fmt.Sprintf("%d", d.ParamCount)
	m["Protocol"] = fmt.Sprintf("%d", d.ParamVersion)
	return m
}

type PlaybackState int32

const (
	Stopped PlaybackState = iota
	Playing
	Paused
)

func (p PlaybackState) String() string {
	switch p {
	case Stopped:
		return "Stopped"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	}
	return "Unknown"
}
