package model

// PreparedAudio is the normalized form of an uploaded recording: a byte
// buffer plus the filename and MIME type the transcription backend should
// see. Exactly one PreparedAudio is produced per upload.
type PreparedAudio struct {
	Buffer   []byte
	Name     string
	MIMEType string
}

// SizeBytes returns the length of the audio payload.
func (a PreparedAudio) SizeBytes() int {
	return len(a.Buffer)
}

// TranscriptionOutcome is the merged result of one or more transcription
// calls. PartialFailure is set only when the audio was chunked and at
// least one (but not every) chunk call failed.
type TranscriptionOutcome struct {
	Transcript     string
	PartialFailure string
}
