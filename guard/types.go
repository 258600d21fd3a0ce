package guard

// DetectionRequest is the wire shape of a detection call. It is built per
// call and never retained by the client.
type DetectionRequest struct {
	// Prompt is the text to classify. Required.
	Prompt string `json:"prompt"`

	// UserAnonID is an optional anonymous identifier for the end user the
	// prompt originated from, used server-side for per-user signals.
	UserAnonID string `json:"userAnonId,omitempty"`

	// Metadata carries optional arbitrary key/value context.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// DetectionResponse is the result of a detection call.
//
// When the detection service is unreachable, slow, or erroring, the
// client fails open: Safe is true and Error describes what happened.
// Detection must never be a single point of failure for the host
// application.
type DetectionResponse struct {
	// Safe is false when the service classified the prompt as an
	// injection attempt. Absent fields decode to false.
	Safe bool `json:"safe"`

	// DetectionID identifies this detection server-side. Empty when
	// unavailable (including every fail-open path).
	DetectionID string `json:"detectionId"`

	// Error is a human-readable description of an operational failure, or
	// an error passed through from the service. Empty on clean results.
	Error string `json:"error,omitempty"`
}
