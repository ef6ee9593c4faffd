package history

import (
	"fmt"

	types "github.com/stronnag/elrsplay/pkg/api/types"
)

type Validation struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// Validate checks timestamp order and channel ranges. Strict mode treats
// every warning as an error.
func Validate(frames []types.HistoryFrame, strict bool) Validation {
	res := Validation{Valid: true}
	if len(frames) == 0 {
		res.Valid = false
		res.Errors = append(res.Errors, "No frames to validate")
		return res
	}

	for i, f := range frames {
		if i > 0 {
			prev := frames[i-1].Stamp
			if f.Stamp < prev {
				res.Valid = false
				res.Errors = append(res.Errors,
					fmt.Sprintf("Frame %d: Timestamp not monotonic (%d < %d)", i, f.Stamp, prev))
			} else if f.Stamp == prev {
				res.Warnings = append(res.Warnings, fmt.Sprintf("Frame %d: Duplicate timestamp %d", i, f.Stamp))
			}
		}
		for ch, v := range f.Chans {
			if v < types.CRSF_CHANNEL_MIN || v > types.CRSF_CHANNEL_MAX {
				res.Warnings = append(res.Warnings,
					fmt.Sprintf("Frame %d, CH%d: Value out of range (%d)", i, ch+1, v))
			}
		}
	}

	if strict && len(res.Warnings) > 0 {
		res.Valid = false
		res.Errors = append(res.Errors, res.Warnings...)
		res.Warnings = nil
	}
	return res
}
