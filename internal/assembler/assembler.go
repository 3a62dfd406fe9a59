// Package assembler builds the augmented prompt passed to the response
// generator: accumulated session context first, then the raw user
// transcript. Assembly is pure — no side effects, no backend calls.
package assembler

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/satori-health/meridia/domain/entities"
)

const (
	// MaxAnalysisChars bounds how much report analysis is injected into
	// a single prompt.
	MaxAnalysisChars = 2000

	truncationMarker = "...[truncated]"
	separator        = "---"
)

// Build produces one prompt string from a final transcript plus the
// session context snapshot. Identical inputs always yield an identical
// output string.
func Build(transcript string, snap entities.ContextSnapshot) string {
	var blocks []string

	if snap.Report != nil {
		blocks = append(blocks, reportBlock(*snap.Report))
	}
	if snap.LatestVitals != nil && snap.LatestVitals.JustCompleted {
		blocks = append(blocks, vitalsBlock(*snap.LatestVitals))
	}

	if len(blocks) == 0 {
		return transcript
	}

	blocks = append(blocks, separator, transcript)
	return strings.Join(blocks, "\n")
}

func reportBlock(report entities.ReportSummary) string {
	analysis := report.Analysis
	if len(analysis) > MaxAnalysisChars {
		// Never cut a multibyte rune in half.
		cut := MaxAnalysisChars
		for cut > 0 && !utf8.RuneStart(analysis[cut]) {
			cut--
		}
		analysis = analysis[:cut] + truncationMarker
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[UPLOADED MEDICAL REPORT: %s]\n", report.FileName)
	b.WriteString(analysis)
	b.WriteString("\nThe report above has already been uploaded and analyzed. Do not ask the user to upload it again.")
	return b.String()
}

func vitalsBlock(vitals entities.VitalsObservation) string {
	var b strings.Builder
	b.WriteString("[VITAL SIGNS JUST MEASURED]\n")
	fmt.Fprintf(&b, "Heart rate: %.0f bpm\n", vitals.HeartRateBPM)
	fmt.Fprintf(&b, "Pupil diameter (left/right): %.1f mm / %.1f mm\n",
		vitals.PupilDiameterLeft, vitals.PupilDiameterRight)
	fmt.Fprintf(&b, "Blink rate: %.1f blinks/min\n", vitals.BlinkRate)
	b.WriteString("Compare these measurements against the uploaded report and give one combined recommendation.")
	return b.String()
}
