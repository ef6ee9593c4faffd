package main

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"

	types "github.com/stronnag/elrsplay/pkg/api/types"
	"github.com/stronnag/elrsplay/pkg/history"
)

func (a *app) cmdValidate(args []string) error {
	var hfile string
	var strict bool
	fs := newFlagSet("validate")
	fs.StringVar(&hfile, "H", "", "History file to validate")
	fs.StringVar(&hfile, "history", "", "History file to validate")
	fs.BoolVar(&strict, "strict", false, "Treat warnings as errors")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if hfile == "" {
		return types.NewError(types.ErrArgument, "validate: history file (-H) required")
	}

	fmt.Fprintf(a.out, "Validating: %s\n", hfile)
	h, err := history.Load(hfile)
	if err != nil {
		fmt.Fprintf(a.out, "Result: INVALID - %v\n", err)
		return err
	}
	m := h.Meta
	res := history.Validate(h.Frames, strict)
	if m.Name != "" {
		fmt.Fprintf(a.out, "  Name: %s\n", m.Name)
	}
	fmt.Fprintf(a.out, "  Format: %s\n", m.Format)
	fmt.Fprintf(a.out, "  Frames: %s\n", humanize.Comma(int64(m.FrameCount)))
	fmt.Fprintf(a.out, "  Duration: %ss\n", strconv.FormatFloat(float64(m.DurationMs)/1000.0, 'g', 6, 64))
	fmt.Fprintf(a.out, "  Channels: %d\n", m.ChannelCount)
	fmt.Fprintf(a.out, "  Rate: %sHz\n", strconv.FormatFloat(m.RateHz, 'g', 6, 64))
	if len(res.Warnings) > 0 {
		fmt.Fprintln(a.out, "  Warnings:")
		for _, w := range res.Warnings {
			fmt.Fprintf(a.out, "    - %s\n", w)
		}
	}
	if len(res.Errors) > 0 {
		fmt.Fprintln(a.out, "  Errors:")
		for _, e := range res.Errors {
			fmt.Fprintf(a.out, "    - %s\n", e)
		}
	}
	if !res.Valid {
		fmt.Fprintln(a.out, "Result: INVALID")
		return types.NewError(types.ErrHistory, "%s: %d error(s)", hfile, len(res.Errors))
	}
	fmt.Fprintln(a.out, "Result: VALID")
	return nil
}
