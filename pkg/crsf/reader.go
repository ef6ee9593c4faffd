package crsf

import (
	"errors"
	"io"
	"time"

	types "github.com/stronnag/elrsplay/pkg/api/types"
)

var ErrTimeout = errors.New("timeout waiting for frame")

// TimedReader is satisfied by serial ports that return (0, nil) once a
// read timeout expires.
type TimedReader interface {
	ReadTimeout(buf []byte, timeout time.Duration) (int, error)
}

// FrameReader accumulates bytes from a port and hands back whole frames.
// Bytes surplus to a returned frame are kept for the next call.
type FrameReader struct {
	rd  TimedReader
	buf []byte
	inp []byte
}

func NewFrameReader(rd TimedReader) *FrameReader {
	return &FrameReader{rd: rd, buf: make([]byte, 0, 2*types.MAX_FRAME_SIZE),
		inp: make([]byte, types.MAX_FRAME_SIZE)}
}

// ReadFrame returns the next valid frame, or ErrTimeout once timeout has
// elapsed without one.
func (f *FrameReader) ReadFrame(timeout time.Duration) ([]byte, error) {
	deadline := time.Now().Add(timeout)
	for {
		if len(f.buf) > 0 {
			n, frame := ExtractFrame(f.buf)
			f.buf = append(f.buf[:0], f.buf[n:]...)
			if frame != nil {
				return frame, nil
			}
		}
		remain := time.Until(deadline)
		if remain <= 0 {
			return nil, ErrTimeout
		}
		if remain < time.Millisecond {
			remain = time.Millisecond
		}
		n, err := f.rd.ReadTimeout(f.inp, remain)
		if n > 0 {
			f.buf = append(f.buf, f.inp[:n]...)
		}
		if err != nil && err != io.EOF {
			return nil, err
		}
		if err == io.EOF && n == 0 {
			// nothing more will arrive and the buffer holds no frame
			return nil, ErrTimeout
		}
	}
}

// Reset drops any buffered input.
func (f *FrameReader) Reset() {
	f.buf = f.buf[:0]
}
