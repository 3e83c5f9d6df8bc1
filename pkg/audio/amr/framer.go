// Package amr turns container-extracted AMR payload into a codec-ready
// stream and adapts the external AMR decoder behind a narrow interface.
package amr

import (
	"fmt"

	"github.com/voicebrief-ai/audio-pipeline/pkg/audio/isobmff"
	"github.com/voicebrief-ai/audio-pipeline/pkg/utils"
)

// MagicHeader is the 6-byte signature a standalone AMR-NB stream requires.
const MagicHeader = "#!AMR\n"

// payloadBoxTag is the container box carrying the raw audio frames.
const payloadBoxTag = "mdat"

// FrameOptions controls container extraction.
type FrameOptions struct {
	// AllowLooseScan enables the permissive tag scan when strict parsing
	// fails. Off by default: the scan can match tag bytes inside metadata.
	AllowLooseScan bool
}

// FrameFromContainer extracts the first mdat payload from an ISO container
// and prepends the AMR magic header, producing a self-describing stream
// the codec accepts.
func FrameFromContainer(container []byte, opts FrameOptions) ([]byte, error) {
	box, err := locatePayloadBox(container, opts)
	if err != nil {
		return nil, err
	}

	payload, err := isobmff.Payload(container, box)
	if err != nil {
		return nil, utils.WrapIfNotNil(err)
	}

	framed := make([]byte, 0, len(MagicHeader)+len(payload))
	framed = append(framed, MagicHeader...)
	framed = append(framed, payload...)
	return framed, nil
}

func locatePayloadBox(container []byte, opts FrameOptions) (isobmff.Box, error) {
	boxes, err := isobmff.ParseTopLevel(container)
	if err == nil {
		box, ok := isobmff.FindBox(boxes, payloadBoxTag)
		if !ok {
			return isobmff.Box{}, fmt.Errorf("%w: no %q box at top level", isobmff.ErrBoxNotFound, payloadBoxTag)
		}
		return box, nil
	}

	if opts.AllowLooseScan {
		if box, ok := isobmff.FindPayloadBoxLoose(container, payloadBoxTag); ok {
			return box, nil
		}
	}
	return isobmff.Box{}, utils.WrapIfNotNil(err)
}
