package amr

import (
	"context"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/voicebrief-ai/audio-pipeline/pkg/audio/isobmff"
)

type FramerSuite struct {
	suite.Suite
}

func TestFramerSuite(t *testing.T) {
	suite.Run(t, new(FramerSuite))
}

func containerBox(tag string, payload []byte) []byte {
	buf := make([]byte, 8+len(payload))
	binary.BigEndian.PutUint32(buf[0:4], uint32(8+len(payload)))
	copy(buf[4:8], tag)
	copy(buf[8:], payload)
	return buf
}

func (s *FramerSuite) TestFrameFromContainer() {
	frames := []byte{0x3C, 0x48, 0x11, 0x22}
	container := append(containerBox("ftyp", []byte("3gp4....")), containerBox("mdat", frames)...)

	framed, err := FrameFromContainer(container, FrameOptions{})
	s.Require().NoError(err)
	s.Equal(MagicHeader, string(framed[:len(MagicHeader)]))
	s.Equal(frames, framed[len(MagicHeader):])
}

func (s *FramerSuite) TestMissingPayloadBox() {
	container := containerBox("ftyp", []byte("3gp4...."))

	_, err := FrameFromContainer(container, FrameOptions{})
	s.ErrorIs(err, isobmff.ErrBoxNotFound)
}

func (s *FramerSuite) TestMalformedContainerStrict() {
	container := make([]byte, 8)
	binary.BigEndian.PutUint32(container[0:4], 4) // smaller than header
	copy(container[4:8], "mdat")

	_, err := FrameFromContainer(container, FrameOptions{})
	s.ErrorIs(err, isobmff.ErrMalformedBox)
}

func (s *FramerSuite) TestLooseScanRecoversFromMalformedLeadingBox() {
	bad := make([]byte, 8)
	binary.BigEndian.PutUint32(bad[0:4], 4)
	copy(bad[4:8], "junk")
	container := append(bad, containerBox("mdat", []byte{9, 8, 7, 6})...)

	_, err := FrameFromContainer(container, FrameOptions{})
	s.Require().Error(err)

	framed, err := FrameFromContainer(container, FrameOptions{AllowLooseScan: true})
	s.Require().NoError(err)
	s.Equal([]byte{9, 8, 7, 6}, framed[len(MagicHeader):])
}

type stubCodec struct {
	output []byte
	err    error
}

func (c *stubCodec) Decode(_ context.Context, _ []byte) ([]byte, error) {
	return c.output, c.err
}

func (s *FramerSuite) TestAdapterPassesThroughOutput() {
	adapter := NewAdapter(&stubCodec{output: []byte("RIFF....WAVE")})

	decoded, err := adapter.Decode(context.Background(), []byte(MagicHeader))
	s.Require().NoError(err)
	s.Equal([]byte("RIFF....WAVE"), decoded)
}

func (s *FramerSuite) TestAdapterNormalizesCodecError() {
	adapter := NewAdapter(&stubCodec{err: errors.New("decoder exploded")})

	_, err := adapter.Decode(context.Background(), []byte(MagicHeader))
	s.ErrorIs(err, ErrCodecDecode)
}

func (s *FramerSuite) TestAdapterNormalizesEmptyOutput() {
	adapter := NewAdapter(&stubCodec{output: nil})

	_, err := adapter.Decode(context.Background(), []byte(MagicHeader))
	s.ErrorIs(err, ErrCodecDecode)
}

func (s *FramerSuite) TestAdapterWithoutCodec() {
	adapter := NewAdapter(nil)

	_, err := adapter.Decode(context.Background(), []byte(MagicHeader))
	s.ErrorIs(err, ErrCodecDecode)
}
