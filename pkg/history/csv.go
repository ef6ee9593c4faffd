package history

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	types "github.com/stronnag/elrsplay/pkg/api/types"
)

// is_header treats a first field holding anything other than digits,
// '-' and blanks as a column heading.
func is_header(field string) bool {
	for _, c := range field {
		if !(c >= '0' && c <= '9') && c != '-' && c != ' ' && c != '\t' {
			return true
		}
	}
	return false
}

func readCSV(rd io.Reader) (*History, error) {
	r := csv.NewReader(rd)
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1
	r.ReuseRecord = true

	h := &History{}
	first := true
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, lineError(pe.Line, pe.Err.Error())
			}
			return nil, types.WrapError(types.ErrHistory, err, "csv")
		}
		line, _ := r.FieldPos(0)
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		if first {
			first = false
			if is_header(record[0]) {
				continue
			}
		}
		f, err := parseRecord(record, line)
		if err != nil {
			return nil, err
		}
		h.Frames = append(h.Frames, f)
	}
	return h, nil
}

func parseRecord(record []string, line int) (types.HistoryFrame, error) {
	var f types.HistoryFrame
	ts := strings.TrimSpace(record[0])
	if ts == "" {
		return f, lineError(line, "Missing timestamp")
	}
	v, err := strconv.ParseUint(ts, 10, 32)
	if err != nil {
		return f, lineError(line, "Invalid timestamp")
	}
	f.Stamp = uint32(v)
	n := 0
	for _, s := range record[1:] {
		if n == types.MAX_CHANNELS {
			break
		}
		c, err := strconv.ParseInt(strings.TrimSpace(s), 10, 16)
		if err != nil {
			return f, lineError(line, "Invalid channel value")
		}
		f.Chans[n] = int16(c)
		n++
	}
	fillCentre(&f.Chans, n)
	return f, nil
}

// WriteCSV writes a header and one line per frame with the history's
// active channels.
func WriteCSV(w io.Writer, h *History) error {
	nch := h.Meta.ChannelCount
	if nch <= 0 || nch > types.MAX_CHANNELS {
		nch = types.MAX_CHANNELS
	}
	cw := csv.NewWriter(w)
	rec := make([]string, nch+1)
	rec[0] = "timestamp_ms"
	for j := 1; j <= nch; j++ {
		rec[j] = fmt.Sprintf("ch%d", j)
	}
	cw.Write(rec)
	for _, f := range h.Frames {
		rec[0] = strconv.FormatUint(uint64(f.Stamp), 10)
		for j := 0; j < nch; j++ {
			rec[j+1] = strconv.Itoa(int(f.Chans[j]))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
