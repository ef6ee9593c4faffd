package history

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"

	types "github.com/stronnag/elrsplay/pkg/api/types"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	fn := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(fn, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return fn
}

func TestLoadCSV(t *testing.T) {
	fn := writeFile(t, "flight.csv",
		"timestamp_ms,ch1,ch2,ch3,ch4,ch5,ch6,ch7,ch8\n"+
			"0,992,992,172,992,172,172,172,172\n"+
			"\n"+
			"20, 992, 992, 200, 992, 172, 172, 172, 172\n"+
			"40,992,992,250,992,172,172,172,172\n")
	h, err := Load(fn)
	if err != nil {
		t.Fatal(err)
	}
	if len(h.Frames) != 3 {
		t.Fatalf("frames = %d", len(h.Frames))
	}
	if h.Frames[1].Stamp != 20 || h.Frames[1].Chans[2] != 200 || h.Frames[1].Chans[15] != 992 {
		t.Errorf("frame 1 = %+v", h.Frames[1])
	}
	m := h.Meta
	if m.Format != "csv" || m.DurationMs != 40 || m.FrameCount != 3 || m.ChannelCount != 8 || m.RateHz != 50 {
		t.Errorf("metadata = %+v", m)
	}
}

func TestCSVErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"bad channel", "0,992,abc,172\n", "Line 1: Invalid channel value"},
		{"bad timestamp", "time,ch1\n0,992\n1x,992\n", "Line 3: Invalid timestamp"},
		{"negative timestamp", "0,992\n-5,992\n", "Line 2: Invalid timestamp"},
		{"missing timestamp", "0,992\n,992\n", "Line 2: Missing timestamp"},
		{"overflow", "0,40000\n", "Line 1: Invalid channel value"},
		{"empty", "\n\n", "No frames found in file"},
		{"header only", "timestamp_ms,ch1\n", "No frames found in file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadReader(strings.NewReader(tt.data), types.IS_CSV)
			if err == nil {
				t.Fatal("no error")
			}
			if err.Error() != tt.want {
				t.Errorf("error = %q, want %q", err, tt.want)
			}
			if types.ExitCode(err) != 4 {
				t.Errorf("exit code = %d, want 4", types.ExitCode(err))
			}
		})
	}
}

func TestCSVExtraChannelsIgnored(t *testing.T) {
	line := "0" + strings.Repeat(",1000", 20) + "\n"
	h, err := LoadReader(strings.NewReader(line), types.IS_CSV)
	if err != nil {
		t.Fatal(err)
	}
	if h.Frames[0].Chans[15] != 1000 || h.Meta.ChannelCount != 16 {
		t.Errorf("frame = %+v meta %+v", h.Frames[0], h.Meta)
	}
}

func TestLoadJSON(t *testing.T) {
	fn := writeFile(t, "flight.json", `{
  "metadata": {"name": "hover test", "recorder": "tx16s"},
  "frames": [
    {"t": 0, "ch": [992, 992, 172, 992, 172, 172, 172, 172]},
    {"timestamp_ms": 20, "channels": [992, 992, 200, 992]}
  ]
}`)
	h, err := Load(fn)
	if err != nil {
		t.Fatal(err)
	}
	if h.Meta.Name != "hover test" || h.Meta.Format != "json" || h.Meta.RateHz != 50 {
		t.Errorf("metadata = %+v", h.Meta)
	}
	if h.Frames[1].Stamp != 20 || h.Frames[1].Chans[2] != 200 || h.Frames[1].Chans[4] != 992 {
		t.Errorf("frame 1 = %+v", h.Frames[1])
	}
}

func TestJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"no frames", `{"metadata": {}}`, "JSON error"},
		{"frames not array", `{"frames": 3}`, "JSON error"},
		{"bad stamp", `{"frames": [{"t": -1, "ch": [992]}]}`, "JSON error"},
		{"bad channel", `{"frames": [{"t": 0, "ch": ["x"]}]}`, "JSON error"},
		{"missing stamp", `{"frames": [{"ch": [992]}]}`, "Missing timestamp in frame"},
		{"missing channels", `{"frames": [{"t": 0}]}`, "Missing channels in frame"},
		{"empty", `{"frames": []}`, "No frames found in file"},
		{"syntax", `{"frames": [`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadReader(strings.NewReader(tt.data), types.IS_JSON)
			if err == nil {
				t.Fatal("no error")
			}
			if !strings.HasPrefix(err.Error(), tt.want) {
				t.Errorf("error = %q, want prefix %q", err, tt.want)
			}
			if types.KindOf(err) != types.ErrHistory {
				t.Errorf("kind = %s", types.KindOf(err))
			}
		})
	}
}

func TestDetectByContent(t *testing.T) {
	fn := writeFile(t, "flight.log", `{"frames": [{"t": 0, "ch": [992]}]}`)
	h, err := Load(fn)
	if err != nil {
		t.Fatal(err)
	}
	if h.Meta.Format != "json" {
		t.Errorf("format = %s", h.Meta.Format)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	if types.ExitCode(err) != 4 {
		t.Errorf("err = %v", err)
	}
}

func sampleHistory() *History {
	frames := make([]types.HistoryFrame, 50)
	for j := range frames {
		frames[j].Stamp = uint32(j * 20)
		frames[j].Chans = types.CentreChannels()
		frames[j].Chans[types.THROTTLE_CHANNEL] = int16(172 + j*10)
		frames[j].Chans[5] = 1811
	}
	return &History{Frames: frames, Meta: computeMetadata(frames, "csv", "sample")}
}

func TestWriteReadBack(t *testing.T) {
	h := sampleHistory()
	dir := t.TempDir()

	var cb bytes.Buffer
	if err := WriteCSV(&cb, h); err != nil {
		t.Fatal(err)
	}
	var jb bytes.Buffer
	if err := WriteJSON(&jb, h, "session-1"); err != nil {
		t.Fatal(err)
	}
	dbn := filepath.Join(dir, "h.db")
	if err := WriteSQLite(dbn, h, "session-1"); err != nil {
		t.Fatal(err)
	}

	hc, err := LoadReader(&cb, types.IS_CSV)
	if err != nil {
		t.Fatal(err)
	}
	hj, err := LoadReader(&jb, types.IS_JSON)
	if err != nil {
		t.Fatal(err)
	}
	hs, err := Load(dbn)
	if err != nil {
		t.Fatal(err)
	}
	for _, got := range []*History{hc, hj, hs} {
		if !reflect.DeepEqual(got.Frames, h.Frames) {
			t.Errorf("%s frames differ", got.Meta.Format)
		}
		if got.Meta.ChannelCount != 6 || got.Meta.DurationMs != 980 {
			t.Errorf("%s meta = %+v", got.Meta.Format, got.Meta)
		}
	}
	if hj.Meta.Name != "sample" || hs.Meta.Name != "sample" {
		t.Errorf("names %q %q", hj.Meta.Name, hs.Meta.Name)
	}
	if hs.Meta.Format != "sqlite" {
		t.Errorf("format = %s", hs.Meta.Format)
	}
}

func TestSQLiteEmpty(t *testing.T) {
	h := &History{}
	fn := filepath.Join(t.TempDir(), "empty.sqlite")
	if err := WriteSQLite(fn, h, ""); err != nil {
		t.Fatal(err)
	}
	_, err := Load(fn)
	if err == nil || err.Error() != "No frames found in file" {
		t.Errorf("err = %v", err)
	}
}

func TestSQLiteChannelOverflow(t *testing.T) {
	h := &History{Frames: []types.HistoryFrame{
		{Stamp: 0, Chans: types.CentreChannels()},
		{Stamp: 20, Chans: types.CentreChannels()},
	}}
	fn := filepath.Join(t.TempDir(), "wide.db")
	if err := WriteSQLite(fn, h, ""); err != nil {
		t.Fatal(err)
	}
	db, err := sqlx.Open("sqlite", fn)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`update frames set ch3 = 40000 where stamp = 20`); err != nil {
		t.Fatal(err)
	}
	db.Close()

	_, err = Load(fn)
	if err == nil || err.Error() != "Frame 1: Invalid channel value" || types.KindOf(err) != types.ErrHistory {
		t.Errorf("err = %v", err)
	}
}

func TestMetadataDefaults(t *testing.T) {
	frames := []types.HistoryFrame{{Stamp: 100, Chans: types.CentreChannels()}}
	m := computeMetadata(frames, "csv", "")
	if m.ChannelCount != 8 || m.DurationMs != 0 || m.RateHz != 0 {
		t.Errorf("metadata = %+v", m)
	}
}
