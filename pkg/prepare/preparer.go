// Package prepare turns an arbitrary uploaded recording into exactly one
// PreparedAudio value the transcription backends accept. Raw AMR is
// decoded, 3GP containers get a best-effort extract-and-decode with
// fallback to the untouched container, and everything else is forwarded
// with an extension-inferred MIME type.
package prepare

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/voicebrief-ai/audio-pipeline/pkg/audio/amr"
	"github.com/voicebrief-ai/audio-pipeline/pkg/audio/sniff"
	"github.com/voicebrief-ai/audio-pipeline/pkg/logging"
	"github.com/voicebrief-ai/audio-pipeline/pkg/model"
	"github.com/voicebrief-ai/audio-pipeline/pkg/utils"
)

// ErrEmptyUpload means the upload carried no bytes at all.
var ErrEmptyUpload = errors.New("prepare: empty upload")

const (
	containerMIMEType = "audio/mp4"
	wavMIMEType       = "audio/wav"
	brand3GPPrefix    = "3gp"
)

// Preparer applies the format-normalization policy.
type Preparer struct {
	adapter        *amr.Adapter
	allowLooseScan bool
}

// Option configures a Preparer.
type Option func(*Preparer)

// WithLooseBoxScan enables the permissive payload-box scan when strict
// container parsing fails. Opt-in: false positives are possible on
// arbitrary files.
func WithLooseBoxScan(enabled bool) Option {
	return func(p *Preparer) {
		p.allowLooseScan = enabled
	}
}

// New builds a Preparer around the external AMR codec.
func New(codec amr.Codec, opts ...Option) *Preparer {
	p := &Preparer{adapter: amr.NewAdapter(codec)}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Prepare classifies buf and produces the single PreparedAudio for it.
// Format failures on the container path degrade to forwarding the
// original bytes; a codec failure on the direct AMR path is fatal since
// no transcription backend accepts undecoded AMR.
func (p *Preparer) Prepare(ctx context.Context, buf []byte, filename string) (model.PreparedAudio, error) {
	if len(buf) == 0 {
		return model.PreparedAudio{}, utils.WrapIfNotNil(ErrEmptyUpload)
	}

	log := logging.NewLogger(ctx)
	kind := sniff.Detect(buf)
	log.Infof("prepare filename=%q size=%d kind=%s", filename, len(buf), kind)

	switch kind {
	case sniff.KindAMR:
		decoded, err := p.adapter.Decode(ctx, buf)
		if err != nil {
			return model.PreparedAudio{}, utils.WrapIfNotNil(err, "raw AMR input")
		}
		return model.PreparedAudio{
			Buffer:   decoded,
			Name:     replaceExtension(filename, ".wav"),
			MIMEType: wavMIMEType,
		}, nil

	case sniff.KindISO:
		return p.prepareContainer(ctx, buf, filename), nil

	default:
		return model.PreparedAudio{
			Buffer:   buf,
			Name:     filename,
			MIMEType: sniff.MIMEFromFilename(filename),
		}, nil
	}
}

// prepareContainer never fails: any problem on the extraction path falls
// back to forwarding the container bytes untouched.
func (p *Preparer) prepareContainer(ctx context.Context, buf []byte, filename string) model.PreparedAudio {
	log := logging.NewLogger(ctx)
	forwarded := model.PreparedAudio{
		Buffer:   buf,
		Name:     filename,
		MIMEType: containerMIMEType,
	}

	brand := sniff.Brand(buf)
	if !strings.HasPrefix(strings.ToLower(brand), brand3GPPrefix) {
		return forwarded
	}

	framed, err := amr.FrameFromContainer(buf, amr.FrameOptions{AllowLooseScan: p.allowLooseScan})
	if err != nil {
		log.Warnf("container extraction failed, forwarding as-is: %v", err)
		return forwarded
	}

	decoded, err := p.adapter.Decode(ctx, framed)
	if err != nil {
		log.Warnf("container decode failed, forwarding as-is: %v", err)
		return forwarded
	}

	return model.PreparedAudio{
		Buffer:   decoded,
		Name:     replaceExtension(filename, ".wav"),
		MIMEType: wavMIMEType,
	}
}

func replaceExtension(filename, newExt string) string {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	if base == "" {
		base = "recording"
	}
	return base + newExt
}
