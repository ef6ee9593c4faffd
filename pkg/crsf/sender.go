package crsf

import (
	"io"

	types "github.com/stronnag/elrsplay/pkg/api/types"
)

// Sender writes RC channel frames to a TX module.
type Sender struct {
	w     io.Writer
	count uint64
}

func NewSender(w io.Writer) *Sender {
	return &Sender{w: w}
}

func (s *Sender) Send(chans types.ChannelData) error {
	buf := BuildRcChannelsFrame(chans)
	if _, err := s.w.Write(buf[:]); err != nil {
		return types.WrapError(types.ErrDevice, err, "write failed")
	}
	s.count++
	return nil
}

// Sent is the number of frames successfully written.
func (s *Sender) Sent() uint64 {
	return s.count
}
