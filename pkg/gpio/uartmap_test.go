package gpio

import "testing"

func TestResolveDevicePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/dev/ttyUSB0", "/dev/ttyUSB0"},
		{"14", "/dev/ttyAMA0"},
		{"0", "/dev/ttyAMA1"},
		{"4", "/dev/ttyAMA2"},
		{"8", "/dev/ttyAMA3"},
		{"12", "/dev/ttyAMA4"},
		{"15", "15"},
		{"99", "99"},
		{"ttyS0", "ttyS0"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ResolveDevicePath(tt.in); got != tt.want {
				t.Errorf("ResolveDevicePath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLookups(t *testing.T) {
	if m, ok := FindByUart(4); !ok || m.TxPin != 8 || m.RxPin != 9 {
		t.Errorf("FindByUart(4) = %+v, %v", m, ok)
	}
	if _, ok := FindByUart(1); ok {
		t.Error("UART1 should not be mapped")
	}
	if m, ok := FindByDevice("/dev/../dev/ttyAMA2"); !ok || m.Uart != 3 {
		t.Errorf("FindByDevice() = %+v, %v", m, ok)
	}
	if _, ok := FindByTx(15); ok {
		t.Error("RX pin matched as TX")
	}
}

func TestAvailableIsCopy(t *testing.T) {
	a := Available()
	if len(a) != 5 {
		t.Fatalf("len = %d", len(a))
	}
	a[0].Device = "x"
	if m, _ := FindByTx(14); m.Device != "/dev/ttyAMA0" {
		t.Error("Available() exposed the table")
	}
}
