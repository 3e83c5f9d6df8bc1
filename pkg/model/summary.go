package model

import "strings"

// Summary is the structured analysis of a transcript. Field names and
// JSON tags are the contract for structured output requested from the
// summarization backends.
type Summary struct {
	BriefSummary       string `json:"brief_summary" jsonschema_description:"Two or three sentence summary of the conversation"`
	Participants       string `json:"participants" jsonschema_description:"Who is speaking and their apparent roles"`
	KeyPoints          string `json:"key_points" jsonschema_description:"The main points discussed, one per line"`
	Agreements         string `json:"agreements" jsonschema_description:"Agreements or commitments made by the participants"`
	LegallySignificant string `json:"legally_significant" jsonschema_description:"Statements that may carry legal significance"`
	Cautions           string `json:"cautions" jsonschema_description:"Caveats the reader should keep in mind"`

	// Degraded is set when the backend response could not be parsed as the
	// structured shape and the summary was synthesized from raw text.
	Degraded bool `json:"-"`
}

// HasContent reports whether any structured field carries text.
func (s Summary) HasContent() bool {
	for _, field := range []string{
		s.BriefSummary, s.Participants, s.KeyPoints,
		s.Agreements, s.LegallySignificant, s.Cautions,
	} {
		if strings.TrimSpace(field) != "" {
			return true
		}
	}
	return false
}

// SummarizeRequest carries one summarization call: a system instruction,
// the model to use, the transcript as user text, and the JSON schema the
// backend should shape its answer to.
type SummarizeRequest struct {
	Instruction string
	Model       string
	Input       string
	Schema      map[string]any
}
