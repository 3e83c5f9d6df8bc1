package amr

import (
	"context"
	"errors"
	"fmt"
)

// ErrCodecDecode means the codec produced no usable output for a correctly
// framed AMR stream.
var ErrCodecDecode = errors.New("amr: codec decode failed")

// Codec decodes an AMR-framed byte stream (magic header plus frames) into
// PCM/WAV bytes. The DSP work is entirely the implementation's concern.
type Codec interface {
	Decode(ctx context.Context, framed []byte) ([]byte, error)
}

// Adapter normalizes codec results: any error or empty output becomes
// ErrCodecDecode so callers have a single failure to branch on.
type Adapter struct {
	codec Codec
}

func NewAdapter(codec Codec) *Adapter {
	return &Adapter{codec: codec}
}

// Decode runs the codec and validates its output.
func (a *Adapter) Decode(ctx context.Context, framed []byte) ([]byte, error) {
	if a == nil || a.codec == nil {
		return nil, fmt.Errorf("%w: no codec configured", ErrCodecDecode)
	}

	decoded, err := a.codec.Decode(ctx, framed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCodecDecode, err)
	}
	if len(decoded) == 0 {
		return nil, fmt.Errorf("%w: codec returned no output", ErrCodecDecode)
	}
	return decoded, nil
}
