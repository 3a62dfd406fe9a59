package entities

// Well-known intents emitted by the response generator.
const (
	// IntentGeneralConversation is the fallback intent used when the
	// generator output cannot be parsed as structured data.
	IntentGeneralConversation = "general_conversation"

	IntentVitalsConsentGranted  = "vitals_consent_granted"
	IntentVitalsConsentDeclined = "vitals_consent_declined"
)

// ToolAction is a side-effect request coming back from the response
// generator: a named operation plus free-form parameters.
type ToolAction struct {
	Operation  string                 `json:"operation"`
	Parameters map[string]interface{} `json:"parameters,omitempty"`
}

// StructuredReply is the normalized shape every response-generator call
// must ultimately yield. Utterance is always present; a raw, unparsable
// model output becomes the utterance with the fallback intent.
type StructuredReply struct {
	Utterance  string      `json:"utterance"`
	Intent     string      `json:"intent,omitempty"`
	ToolAction *ToolAction `json:"tool_action,omitempty"`
}

// WantsVitalsStart reports whether the reply signals the client to begin
// the video vitals flow.
func (r StructuredReply) WantsVitalsStart() bool {
	if r.Intent == IntentVitalsConsentGranted {
		return true
	}
	return r.ToolAction != nil && r.ToolAction.Operation == "start_video_vitals"
}

// WantsVitalsDecline reports whether the reply signals a declined vitals
// consent.
func (r StructuredReply) WantsVitalsDecline() bool {
	return r.Intent == IntentVitalsConsentDeclined
}
