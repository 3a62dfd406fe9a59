package api

import "time"

// CreateSessionResponse represents the response payload for session creation
type CreateSessionResponse struct {
	SessionID string    `json:"session_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ReportUploadResponse represents the response payload for a report upload
type ReportUploadResponse struct {
	FileName string `json:"file_name"`
	Analysis string `json:"analysis"`
}

// VitalsRequest represents a completed vital signs measurement
type VitalsRequest struct {
	HeartRateBPM       float64 `json:"heart_rate_bpm"`
	PupilDiameterLeft  float64 `json:"pupil_diameter_left,omitempty"`
	PupilDiameterRight float64 `json:"pupil_diameter_right,omitempty"`
	BlinkRate          float64 `json:"blink_rate,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
