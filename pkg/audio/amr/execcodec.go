package amr

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/voicebrief-ai/audio-pipeline/pkg/logging"
)

const defaultDecoderBinary = "ffmpeg"

// ExecCodec shells out to an ffmpeg-compatible binary to decode AMR into
// 16-bit mono WAV. This is the production binding for the external codec.
type ExecCodec struct {
	// BinaryPath is the decoder executable; defaults to "ffmpeg" on PATH.
	BinaryPath string
}

func (c *ExecCodec) Decode(ctx context.Context, framed []byte) ([]byte, error) {
	binary := strings.TrimSpace(c.BinaryPath)
	if binary == "" {
		binary = defaultDecoderBinary
	}

	cmd := exec.CommandContext(ctx, binary,
		"-hide_banner", "-loglevel", "error",
		"-f", "amr", "-i", "pipe:0",
		"-ar", "16000", "-ac", "1",
		"-f", "wav", "pipe:1",
	)
	cmd.Stdin = bytes.NewReader(framed)

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		logging.NewLogger(ctx).Errorf("decoder %q failed: %v stderr=%q", binary, err, strings.TrimSpace(stderr.String()))
		return nil, fmt.Errorf("decoder %q: %w", binary, err)
	}
	return stdout.Bytes(), nil
}
