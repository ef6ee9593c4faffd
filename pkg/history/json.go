package history

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema"

	types "github.com/stronnag/elrsplay/pkg/api/types"
)

const history_schema = `{
  "type": "object",
  "required": ["frames"],
  "properties": {
    "metadata": {
      "type": "object",
      "properties": {"name": {"type": "string"}}
    },
    "frames": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "t": {"$ref": "#/definitions/stamp"},
          "timestamp_ms": {"$ref": "#/definitions/stamp"},
          "ch": {"$ref": "#/definitions/channels"},
          "channels": {"$ref": "#/definitions/channels"}
        }
      }
    }
  },
  "definitions": {
    "stamp": {"type": "integer", "minimum": 0, "maximum": 4294967295},
    "channels": {
      "type": "array",
      "items": {"type": "integer", "minimum": -32768, "maximum": 32767}
    }
  }
}`

const schema_url = "http://elrsplay.local/schema/history.json"

var (
	schema     *jsonschema.Schema
	schemaErr  error
	schemaOnce sync.Once
)

func historySchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if schemaErr = c.AddResource(schema_url, strings.NewReader(history_schema)); schemaErr != nil {
			return
		}
		schema, schemaErr = c.Compile(schema_url)
	})
	return schema, schemaErr
}

type jsonFrame struct {
	T           *uint32  `json:"t,omitempty"`
	TimestampMs *uint32  `json:"timestamp_ms,omitempty"`
	Ch          *[]int16 `json:"ch,omitempty"`
	Channels    *[]int16 `json:"channels,omitempty"`
}

type jsonMeta struct {
	Name         string  `json:"name,omitempty"`
	Format       string  `json:"source_format,omitempty"`
	DurationMs   uint32  `json:"duration_ms,omitempty"`
	FrameCount   int     `json:"frame_count,omitempty"`
	ChannelCount int     `json:"channel_count,omitempty"`
	RateHz       float64 `json:"rate_hz,omitempty"`
	Session      string  `json:"session,omitempty"`
}

type jsonHistory struct {
	Metadata *jsonMeta   `json:"metadata,omitempty"`
	Frames   []jsonFrame `json:"frames"`
}

func readJSON(rd io.Reader) (*History, error) {
	data, err := io.ReadAll(rd)
	if err != nil {
		return nil, types.WrapError(types.ErrHistory, err, "read")
	}
	sch, err := historySchema()
	if err != nil {
		return nil, types.WrapError(types.ErrGeneral, err, "history schema")
	}
	if err := sch.Validate(bytes.NewReader(data)); err != nil {
		return nil, types.WrapError(types.ErrHistory, err, "JSON error")
	}

	var jh jsonHistory
	if err := json.Unmarshal(data, &jh); err != nil {
		return nil, types.WrapError(types.ErrHistory, err, "JSON parse error")
	}

	h := &History{Frames: make([]types.HistoryFrame, 0, len(jh.Frames))}
	if jh.Metadata != nil {
		h.Meta.Name = jh.Metadata.Name
	}
	for _, jf := range jh.Frames {
		var f types.HistoryFrame
		switch {
		case jf.T != nil:
			f.Stamp = *jf.T
		case jf.TimestampMs != nil:
			f.Stamp = *jf.TimestampMs
		default:
			return nil, types.NewError(types.ErrHistory, "Missing timestamp in frame")
		}
		chans := jf.Ch
		if chans == nil {
			chans = jf.Channels
		}
		if chans == nil {
			return nil, types.NewError(types.ErrHistory, "Missing channels in frame")
		}
		n := copy(f.Chans[:], *chans)
		fillCentre(&f.Chans, n)
		h.Frames = append(h.Frames, f)
	}
	return h, nil
}

// WriteJSON writes the history in the compact "t"/"ch" form; session, if
// not empty, is recorded in the metadata.
func WriteJSON(w io.Writer, h *History, session string) error {
	nch := h.Meta.ChannelCount
	if nch <= 0 || nch > types.MAX_CHANNELS {
		nch = types.MAX_CHANNELS
	}
	jh := jsonHistory{
		Metadata: &jsonMeta{
			Name:         h.Meta.Name,
			Format:       h.Meta.Format,
			DurationMs:   h.Meta.DurationMs,
			FrameCount:   h.Meta.FrameCount,
			ChannelCount: h.Meta.ChannelCount,
			RateHz:       h.Meta.RateHz,
			Session:      session,
		},
		Frames: make([]jsonFrame, len(h.Frames)),
	}
	for j := range h.Frames {
		stamp := h.Frames[j].Stamp
		ch := make([]int16, nch)
		copy(ch, h.Frames[j].Chans[:nch])
		jh.Frames[j] = jsonFrame{T: &stamp, Ch: &ch}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	return enc.Encode(&jh)
}
