// Package wav reads and writes canonical 44-byte WAV headers and splits
// oversized PCM buffers into independently valid segments.
package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// HeaderSize is the canonical RIFF/WAVE header length this package
// produces and expects.
const HeaderSize = 44

var (
	// ErrNotWAV means the buffer does not carry the RIFF/WAVE signature or
	// is shorter than a header.
	ErrNotWAV = errors.New("wav: not a WAV buffer")
	// ErrBadFormat means the header fields are unusable (zero channels or
	// bit depth).
	ErrBadFormat = errors.New("wav: unusable format fields")
)

// Header is the canonical PCM WAV file header.
type Header struct {
	ChunkID       [4]byte // "RIFF"
	ChunkSize     uint32  // file size - 8
	Format        [4]byte // "WAVE"
	Subchunk1ID   [4]byte // "fmt "
	Subchunk1Size uint32  // 16 for PCM
	AudioFormat   uint16  // 1 for PCM
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32 // SampleRate * NumChannels * BitsPerSample / 8
	BlockAlign    uint16 // NumChannels * BitsPerSample / 8
	BitsPerSample uint16
	Subchunk2ID   [4]byte // "data"
	Subchunk2Size uint32  // PCM byte count
}

// NewHeader builds a PCM header for the given format and payload length.
func NewHeader(numChannels, sampleRate, bitsPerSample, dataSize int) Header {
	blockAlign := uint16(numChannels) * uint16(bitsPerSample) / 8
	return Header{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     uint32(HeaderSize - 8 + dataSize),
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: 16,
		AudioFormat:   1,
		NumChannels:   uint16(numChannels),
		SampleRate:    uint32(sampleRate),
		ByteRate:      uint32(sampleRate) * uint32(blockAlign),
		BlockAlign:    blockAlign,
		BitsPerSample: uint16(bitsPerSample),
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: uint32(dataSize),
	}
}

// Encode serializes the header into its 44-byte wire form.
func (h Header) Encode() ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, HeaderSize))
	if err := binary.Write(buf, binary.LittleEndian, h); err != nil {
		return nil, fmt.Errorf("wav: encode header: %w", err)
	}
	return buf.Bytes(), nil
}

// IsWAV reports whether buf starts with a RIFF/WAVE signature.
func IsWAV(buf []byte) bool {
	return len(buf) >= 12 && string(buf[0:4]) == "RIFF" && string(buf[8:12]) == "WAVE"
}

// ParseHeader reads the format fields from the fixed header offsets:
// channels at 22, sample rate at 24, bits per sample at 34, data size at
// 40. Recorders that emit extra chunks before "data" are outside this
// package's contract.
func ParseHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, fmt.Errorf("%w: %d bytes", ErrNotWAV, len(buf))
	}
	if !IsWAV(buf) {
		return Header{}, fmt.Errorf("%w: missing RIFF/WAVE signature", ErrNotWAV)
	}

	header := Header{}
	reader := bytes.NewReader(buf[:HeaderSize])
	if err := binary.Read(reader, binary.LittleEndian, &header); err != nil {
		return Header{}, fmt.Errorf("wav: parse header: %w", err)
	}

	if header.NumChannels == 0 || header.BitsPerSample == 0 {
		return Header{}, fmt.Errorf("%w: channels=%d bits=%d", ErrBadFormat, header.NumChannels, header.BitsPerSample)
	}
	return header, nil
}
