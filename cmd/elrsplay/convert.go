package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	types "github.com/stronnag/elrsplay/pkg/api/types"
	"github.com/stronnag/elrsplay/pkg/history"
)

func outputType(fn, format string) int {
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(fn)), ".")
	}
	switch format {
	case "csv":
		return types.IS_CSV
	case "json":
		return types.IS_JSON
	case "db", "sqlite", "sqlite3":
		return types.IS_SQLITE
	}
	return types.IS_UNKNOWN
}

func (a *app) cmdConvert(args []string) error {
	var in, out, format string
	fs := newFlagSet("convert")
	fs.StringVar(&in, "H", "", "Input history file")
	fs.StringVar(&out, "o", "", "Output file")
	fs.StringVar(&format, "format", "", "Output format [csv|json|sqlite] (default from extension)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if in == "" || out == "" {
		return types.NewError(types.ErrArgument, "convert: -H and -o are required")
	}
	ft := outputType(out, format)
	if ft == types.IS_UNKNOWN {
		return types.NewError(types.ErrArgument, "convert: unknown output format for %s", out)
	}

	h, err := history.Load(in)
	if err != nil {
		return err
	}
	session := uuid.New().String()
	switch ft {
	case types.IS_SQLITE:
		err = history.WriteSQLite(out, h, session)
	default:
		var fh *os.File
		fh, err = os.Create(out)
		if err != nil {
			break
		}
		if ft == types.IS_CSV {
			err = history.WriteCSV(fh, h)
		} else {
			err = history.WriteJSON(fh, h, session)
		}
		if cerr := fh.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		return types.WrapError(types.ErrGeneral, err, out)
	}
	fmt.Fprintf(a.out, "Converted %s frames (%s -> %s), session %s\n", humanize.Comma(int64(len(h.Frames))),
		h.Meta.Format, types.FileTypeName(ft), session)
	return nil
}
