// Package transcribe decides whether prepared audio is sent whole or in
// chunks, fans chunk calls out concurrently with per-call failure
// isolation, and merges the results deterministically.
package transcribe

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/voicebrief-ai/audio-pipeline/pkg/audio/wav"
	"github.com/voicebrief-ai/audio-pipeline/pkg/logging"
	"github.com/voicebrief-ai/audio-pipeline/pkg/model"
	"github.com/voicebrief-ai/audio-pipeline/pkg/utils"
)

var (
	// ErrAllChunksFailed means every chunk call failed; there is nothing to
	// merge.
	ErrAllChunksFailed = errors.New("transcribe: all chunks failed")
	// ErrEmptyTranscript means the backend returned only whitespace. This
	// points at unrecoverable audio quality, not a transient fault, so it
	// is surfaced rather than retried.
	ErrEmptyTranscript = errors.New("transcribe: empty transcript")
)

const (
	// defaultMaxRequestBytes is the size ceiling a single transcription
	// request may carry; above it WAV audio is chunked.
	defaultMaxRequestBytes = 20 * 1024 * 1024

	defaultMaxConcurrent = 4
)

// Orchestrator runs transcription against one backend.
type Orchestrator struct {
	service         model.TranscriptionService
	maxRequestBytes int
	maxConcurrent   int
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithMaxRequestBytes overrides the backend's known request size ceiling.
func WithMaxRequestBytes(limit int) Option {
	return func(o *Orchestrator) {
		if limit > 0 {
			o.maxRequestBytes = limit
		}
	}
}

// WithMaxConcurrent caps in-flight chunk calls.
func WithMaxConcurrent(limit int) Option {
	return func(o *Orchestrator) {
		if limit > 0 {
			o.maxConcurrent = limit
		}
	}
}

func New(service model.TranscriptionService, opts ...Option) (*Orchestrator, error) {
	if service == nil {
		return nil, utils.WrapIfNotNil(errors.New("transcription service is required"))
	}

	o := &Orchestrator{
		service:         service,
		maxRequestBytes: defaultMaxRequestBytes,
		maxConcurrent:   defaultMaxConcurrent,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o, nil
}

// Transcribe sends audio to the backend, chunking oversized WAV buffers.
// Chunk results are merged in submission order; ordering never depends on
// completion order.
func (o *Orchestrator) Transcribe(ctx context.Context, audio model.PreparedAudio) (model.TranscriptionOutcome, error) {
	log := logging.NewLogger(ctx)
	requestID := uuid.NewString()

	if !o.needsChunking(audio) {
		log.Infof("transcribe request_id=%s name=%q size=%d chunks=1", requestID, audio.Name, audio.SizeBytes())
		transcript, err := o.service.Transcribe(ctx, audio)
		if err != nil {
			return model.TranscriptionOutcome{}, utils.WrapIfNotNil(err)
		}
		return validateOutcome(model.TranscriptionOutcome{Transcript: strings.TrimSpace(transcript)})
	}

	chunks, err := wav.Split(audio.Buffer, o.maxRequestBytes)
	if err != nil {
		return model.TranscriptionOutcome{}, utils.WrapIfNotNil(err)
	}
	log.Infof("transcribe request_id=%s name=%q size=%d chunks=%d", requestID, audio.Name, audio.SizeBytes(), len(chunks))

	transcripts, errs := o.fanOut(ctx, audio, chunks)
	return mergeOutcome(transcripts, errs)
}

func (o *Orchestrator) needsChunking(audio model.PreparedAudio) bool {
	return audio.SizeBytes() > o.maxRequestBytes && wav.IsWAV(audio.Buffer)
}

// fanOut issues one call per chunk and waits for every call to settle.
// Results land in fixed-size slices indexed by chunk position; there is no
// other shared state between the calls.
func (o *Orchestrator) fanOut(ctx context.Context, audio model.PreparedAudio, chunks [][]byte) ([]string, []error) {
	transcripts := make([]string, len(chunks))
	errs := make([]error, len(chunks))
	semaphore := make(chan struct{}, o.maxConcurrent)

	wg := sync.WaitGroup{}
	for i, chunk := range chunks {
		wg.Add(1)
		go func(index int, chunk []byte) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					log := logging.NewLogger(ctx)
					utils.PrintStack(fmt.Sprintf("chunk %d panicked: %v", index+1, r), log)
					errs[index] = fmt.Errorf("chunk %d panicked: %v", index+1, r)
				}
			}()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			chunkAudio := model.PreparedAudio{
				Buffer:   chunk,
				Name:     chunkName(audio.Name, index),
				MIMEType: audio.MIMEType,
			}
			transcript, err := o.service.Transcribe(ctx, chunkAudio)
			if err != nil {
				errs[index] = err
				return
			}
			transcripts[index] = strings.TrimSpace(transcript)
		}(i, chunk)
	}
	wg.Wait()

	return transcripts, errs
}

func mergeOutcome(transcripts []string, errs []error) (model.TranscriptionOutcome, error) {
	succeeded := make([]string, 0, len(transcripts))
	failedIndices := make([]string, 0)
	successCount := 0
	for i := range transcripts {
		if errs[i] != nil {
			failedIndices = append(failedIndices, strconv.Itoa(i+1))
			continue
		}
		successCount++
		// Silent chunks would leave doubled spaces in the join.
		if transcripts[i] != "" {
			succeeded = append(succeeded, transcripts[i])
		}
	}

	if successCount == 0 {
		return model.TranscriptionOutcome{}, fmt.Errorf("%w: %d of %d", ErrAllChunksFailed, len(failedIndices), len(transcripts))
	}

	outcome := model.TranscriptionOutcome{
		Transcript: strings.TrimSpace(strings.Join(succeeded, " ")),
	}
	if len(failedIndices) > 0 {
		outcome.PartialFailure = fmt.Sprintf(
			"chunk %s of %d failed to transcribe; the transcript has gaps",
			strings.Join(failedIndices, ", "),
			len(transcripts),
		)
	}
	return validateOutcome(outcome)
}

func validateOutcome(outcome model.TranscriptionOutcome) (model.TranscriptionOutcome, error) {
	if outcome.Transcript == "" {
		return model.TranscriptionOutcome{}, utils.WrapIfNotNil(ErrEmptyTranscript)
	}
	return outcome, nil
}

func chunkName(name string, index int) string {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	if base == "" {
		base = "recording"
	}
	if ext == "" {
		ext = ".wav"
	}
	return fmt.Sprintf("%s_part%d%s", base, index+1, ext)
}
