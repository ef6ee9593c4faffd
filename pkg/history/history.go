package history

import (
	"io"
	"os"

	types "github.com/stronnag/elrsplay/pkg/api/types"
)

type Metadata struct {
	Name         string
	Format       string
	DurationMs   uint32
	FrameCount   int
	ChannelCount int
	RateHz       float64
}

type History struct {
	Frames []types.HistoryFrame
	Meta   Metadata
}

// Load reads a CSV, JSON or SQLite history, choosing the reader from the
// file's extension or content.
func Load(fn string) (*History, error) {
	ft := types.EvinceFileType(fn)
	switch ft {
	case types.IS_UNKNOWN:
		if _, err := os.Stat(fn); err != nil {
			return nil, types.WrapError(types.ErrHistory, err, "cannot open file")
		}
		return nil, types.NewError(types.ErrHistory, "unknown file format: %s", fn)
	case types.IS_SQLITE:
		return loadSQLite(fn)
	}
	fh, err := os.Open(fn)
	if err != nil {
		return nil, types.WrapError(types.ErrHistory, err, "cannot open file")
	}
	defer fh.Close()
	return LoadReader(fh, ft)
}

// LoadReader parses a CSV or JSON stream.
func LoadReader(r io.Reader, ft int) (*History, error) {
	var h *History
	var err error
	switch ft {
	case types.IS_CSV:
		h, err = readCSV(r)
	case types.IS_JSON:
		h, err = readJSON(r)
	default:
		return nil, types.NewError(types.ErrHistory, "cannot stream %s history", types.FileTypeName(ft))
	}
	if err != nil {
		return nil, err
	}
	if len(h.Frames) == 0 {
		return nil, types.NewError(types.ErrHistory, "No frames found in file")
	}
	h.Meta = computeMetadata(h.Frames, types.FileTypeName(ft), h.Meta.Name)
	return h, nil
}

func computeMetadata(frames []types.HistoryFrame, format, name string) Metadata {
	m := Metadata{Name: name, Format: format, FrameCount: len(frames)}
	if len(frames) == 0 {
		return m
	}
	m.DurationMs = frames[len(frames)-1].Stamp - frames[0].Stamp
	if len(frames) > 1 && m.DurationMs > 0 {
		m.RateHz = float64(len(frames)-1) * 1000.0 / float64(m.DurationMs)
	}
	for ch := 0; ch < types.MAX_CHANNELS; ch++ {
		for _, f := range frames {
			if f.Chans[ch] != types.CRSF_CHANNEL_MID {
				m.ChannelCount = ch + 1
				break
			}
		}
	}
	if m.ChannelCount == 0 {
		m.ChannelCount = 8
	}
	return m
}

func fillCentre(c *types.ChannelData, from int) {
	for j := from; j < types.MAX_CHANNELS; j++ {
		c[j] = types.CRSF_CHANNEL_MID
	}
}

func lineError(line int, msg string) error {
	return types.NewError(types.ErrHistory, "Line %d: %s", line, msg)
}
