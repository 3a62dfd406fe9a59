package entities

import "time"

// ReportSummary is the stored analysis of one uploaded document.
type ReportSummary struct {
	FileName  string    `json:"file_name" bson:"file_name"`
	Analysis  string    `json:"analysis" bson:"analysis"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// VitalsFreshness bounds how long a measurement counts as "just
// completed". Past the window it is session history, not a fresh result.
const VitalsFreshness = 2 * time.Minute

// VitalsObservation is one video-derived vitals measurement. JustCompleted
// marks a fresh measurement that should augment the next assistant turns;
// older observations stay in history but never re-trigger augmentation.
type VitalsObservation struct {
	HeartRateBPM       float64   `json:"heart_rate_bpm" bson:"heart_rate_bpm"`
	PupilDiameterLeft  float64   `json:"pupil_diameter_left" bson:"pupil_diameter_left"`
	PupilDiameterRight float64   `json:"pupil_diameter_right" bson:"pupil_diameter_right"`
	BlinkRate          float64   `json:"blink_rate" bson:"blink_rate"`
	JustCompleted      bool      `json:"just_completed" bson:"just_completed"`
	MeasuredAt         time.Time `json:"measured_at" bson:"measured_at"`
}

// JustMeasured reports whether the observation should still present
// itself as a fresh measurement at the given time.
func (v VitalsObservation) JustMeasured(now time.Time) bool {
	return v.JustCompleted && !v.MeasuredAt.IsZero() && now.Sub(v.MeasuredAt) <= VitalsFreshness
}

// ContextSnapshot is the point-in-time read of accumulated report and
// vitals data for one session. Only the most recent vitals observation is
// surfaced.
type ContextSnapshot struct {
	Report       *ReportSummary
	LatestVitals *VitalsObservation
}
