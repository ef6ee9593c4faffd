package crsf

import (
	"testing"

	types "github.com/stronnag/elrsplay/pkg/api/types"
)

func sample_info() *types.DeviceInfo {
	return &types.DeviceInfo{
		Name:         "ELRS TX",
		Serial:       [4]byte{'E', 'L', 'R', 'S'},
		HardwareID:   [4]byte{0, 0, 0, 1},
		FirmwareID:   [4]byte{0, 3, 4, 2},
		ParamCount:   23,
		ParamVersion: 1,
	}
}

func TestParseDeviceInfo(t *testing.T) {
	want := sample_info()
	f := BuildDeviceInfoFrame(types.ADDR_HANDSET, types.ADDR_TRANSMITTER, want)
	if !ValidateFrame(f) {
		t.Fatalf("built frame does not validate: % x", f)
	}
	got, ok := ParseDeviceInfo(f)
	if !ok {
		t.Fatal("ParseDeviceInfo() failed")
	}
	if *got != *want {
		t.Errorf("ParseDeviceInfo() = %+v, want %+v", got, want)
	}
}

func TestParseDeviceInfoEmptyName(t *testing.T) {
	di := sample_info()
	di.Name = ""
	f := BuildDeviceInfoFrame(types.ADDR_HANDSET, types.ADDR_TRANSMITTER, di)
	if len(f) != types.DEVICE_INFO_MINLEN {
		t.Fatalf("minimal frame len = %d, want %d", len(f), types.DEVICE_INFO_MINLEN)
	}
	got, ok := ParseDeviceInfo(f)
	if !ok || got.Name != "" || got.ParamCount != 23 {
		t.Errorf("ParseDeviceInfo() = %+v, %v", got, ok)
	}
}

func TestParseDeviceInfoRejects(t *testing.T) {
	good := BuildDeviceInfoFrame(types.ADDR_HANDSET, types.ADDR_TRANSMITTER, sample_info())

	badcrc := append([]byte{}, good...)
	badcrc[len(badcrc)-1] ^= 1

	// name without terminator: overwrite the NUL and fix up the crc
	nz := sample_info()
	nz.HardwareID = [4]byte{1, 1, 1, 1}
	nz.FirmwareID = [4]byte{2, 2, 2, 2}
	nonul := BuildDeviceInfoFrame(types.ADDR_HANDSET, types.ADDR_TRANSMITTER, nz)
	for j := 5; j < len(nonul)-1; j++ {
		if nonul[j] == 0 {
			nonul[j] = 'x'
			break
		}
	}
	nonul[len(nonul)-1] = Crc8(nonul[2 : len(nonul)-1])

	// valid crc, but too few trailing bytes after the name
	short := []byte{types.ADDR_FC, 0, types.FRAME_DEVICE_INFO, 0xea, 0xee, 'a', 'b', 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13}
	short[1] = byte(len(short) - 1)
	short = append(short, Crc8(short[2:]))

	tests := []struct {
		name string
		buf  []byte
	}{
		{"bad crc", badcrc},
		{"wrong type", DevicePing()},
		{"no terminator", nonul},
		{"short trailer", short},
		{"truncated", good[:10]},
		{"empty", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if di, ok := ParseDeviceInfo(tt.buf); ok {
				t.Errorf("ParseDeviceInfo() = %+v, want failure", di)
			}
		})
	}
}
