package crsf

import (
	"testing"
)

func TestCrc8(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want byte
	}{
		{"empty", nil, 0x00},
		{"zero", []byte{0x00}, 0x00},
		{"ff", []byte{0xff}, 0xf9},
		{"check string", []byte("123456789"), 0xbc},
		{"type and payload", []byte{0x16, 0xab, 0xcd, 0xef}, 0x69},
		{"ping", []byte{0x28, 0x00, 0xea}, 0x54},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Crc8(tt.data); got != tt.want {
				t.Errorf("Crc8() = %#02x, want %#02x", got, tt.want)
			}
		})
	}
}

func TestCrc8TableMatchesBitwise(t *testing.T) {
	for c := 0; c < 256; c++ {
		for a := 0; a < 256; a += 17 {
			if got, want := Crc8DvbS2(byte(c), byte(a)), crc8_dvb_s2_bitwise(byte(c), byte(a)); got != want {
				t.Fatalf("Crc8DvbS2(%#x, %#x) = %#x, want %#x", c, a, got, want)
			}
		}
	}
}

func TestCrc8Incremental(t *testing.T) {
	data := []byte{0x16, 0xab, 0xcd, 0xef}
	crc := byte(0)
	for _, b := range data {
		crc = Crc8DvbS2(crc, b)
	}
	if want := Crc8(data); crc != want {
		t.Errorf("incremental crc = %#x, want %#x", crc, want)
	}
}
