package wav

import (
	"errors"
	"fmt"
)

// ErrChunkTooSmall means maxChunkBytes cannot hold a header plus at least
// one whole sample-frame.
var ErrChunkTooSmall = errors.New("wav: chunk size too small")

// Split cuts buf into standalone WAV buffers of at most maxChunkBytes
// each. A buffer that already fits is returned unchanged as the single
// chunk. Every chunk's PCM payload length is an exact multiple of the
// source blockAlign, so no boundary ever splits a sample-frame, and
// concatenating the chunk payloads in order reproduces the original PCM
// bytes exactly.
func Split(buf []byte, maxChunkBytes int) ([][]byte, error) {
	if len(buf) <= maxChunkBytes {
		return [][]byte{buf}, nil
	}

	header, err := ParseHeader(buf)
	if err != nil {
		return nil, err
	}

	blockAlign := int(header.NumChannels) * int(header.BitsPerSample) / 8
	if blockAlign <= 0 {
		return nil, fmt.Errorf("%w: blockAlign=%d", ErrBadFormat, blockAlign)
	}

	// Floor to a whole number of sample-frames per chunk.
	maxPCMPerChunk := ((maxChunkBytes - HeaderSize) / blockAlign) * blockAlign
	if maxPCMPerChunk <= 0 {
		return nil, fmt.Errorf("%w: %d bytes cannot hold a header and a %d-byte frame", ErrChunkTooSmall, maxChunkBytes, blockAlign)
	}

	pcm := buf[HeaderSize:]
	if declared := int(header.Subchunk2Size); declared >= 0 && declared < len(pcm) {
		pcm = pcm[:declared]
	}

	chunks := make([][]byte, 0, len(pcm)/maxPCMPerChunk+1)
	for offset := 0; offset < len(pcm); offset += maxPCMPerChunk {
		end := offset + maxPCMPerChunk
		if end > len(pcm) {
			end = len(pcm)
		}
		segment := pcm[offset:end]

		chunkHeader := NewHeader(
			int(header.NumChannels),
			int(header.SampleRate),
			int(header.BitsPerSample),
			len(segment),
		)
		encoded, err := chunkHeader.Encode()
		if err != nil {
			return nil, err
		}

		chunk := make([]byte, 0, HeaderSize+len(segment))
		chunk = append(chunk, encoded...)
		chunk = append(chunk, segment...)
		chunks = append(chunks, chunk)
	}

	return chunks, nil
}
