package model

import "context"

// TranscriptionService converts prepared audio into plain transcript text.
// Implementations wrap an external speech-to-text backend; failures carry
// an HTTP-style status code via ServiceError where the backend reports one.
type TranscriptionService interface {
	Transcribe(ctx context.Context, audio PreparedAudio) (string, error)
}

// SummarizationService produces raw summarization output for one model.
// The returned string is the backend's text as-is; tolerant parsing into a
// Summary is the caller's concern.
type SummarizationService interface {
	Summarize(ctx context.Context, req SummarizeRequest) (string, error)
}
