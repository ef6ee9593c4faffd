package history

import (
	"testing"

	types "github.com/stronnag/elrsplay/pkg/api/types"
)

func frameAt(stamp uint32, vals ...int16) types.HistoryFrame {
	f := types.HistoryFrame{Stamp: stamp, Chans: types.CentreChannels()}
	copy(f.Chans[:], vals)
	return f
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		frames   []types.HistoryFrame
		strict   bool
		valid    bool
		errors   []string
		warnings []string
	}{
		{
			name:   "good",
			frames: []types.HistoryFrame{frameAt(0), frameAt(20), frameAt(40)},
			valid:  true,
		},
		{
			name:   "empty",
			frames: nil,
			valid:  false,
			errors: []string{"No frames to validate"},
		},
		{
			name:   "decreasing",
			frames: []types.HistoryFrame{frameAt(0), frameAt(20), frameAt(10)},
			valid:  false,
			errors: []string{"Frame 2: Timestamp not monotonic (10 < 20)"},
		},
		{
			name:     "duplicate",
			frames:   []types.HistoryFrame{frameAt(0), frameAt(20), frameAt(20)},
			valid:    true,
			warnings: []string{"Frame 2: Duplicate timestamp 20"},
		},
		{
			name:     "range",
			frames:   []types.HistoryFrame{frameAt(0, 100)},
			valid:    true,
			warnings: []string{"Frame 0, CH1: Value out of range (100)"},
		},
		{
			name:   "strict promotes",
			frames: []types.HistoryFrame{frameAt(0, 100), frameAt(0)},
			strict: true,
			valid:  false,
			errors: []string{"Frame 0, CH1: Value out of range (100)", "Frame 1: Duplicate timestamp 0"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Validate(tt.frames, tt.strict)
			if res.Valid != tt.valid {
				t.Errorf("Valid = %v, want %v", res.Valid, tt.valid)
			}
			if !equal(res.Errors, tt.errors) {
				t.Errorf("Errors = %q, want %q", res.Errors, tt.errors)
			}
			if !equal(res.Warnings, tt.warnings) {
				t.Errorf("Warnings = %q, want %q", res.Warnings, tt.warnings)
			}
		})
	}
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for j := range a {
		if a[j] != b[j] {
			return false
		}
	}
	return true
}
