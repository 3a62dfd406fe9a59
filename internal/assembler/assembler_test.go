package assembler

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/satori-health/meridia/domain/entities"
)

func sampleSnapshot() entities.ContextSnapshot {
	return entities.ContextSnapshot{
		Report: &entities.ReportSummary{
			FileName:  "blood_panel.pdf",
			Analysis:  "Hemoglobin slightly below reference range.",
			CreatedAt: time.Date(2025, 11, 7, 10, 0, 0, 0, time.UTC),
		},
		LatestVitals: &entities.VitalsObservation{
			HeartRateBPM:       72,
			PupilDiameterLeft:  3.5,
			PupilDiameterRight: 3.6,
			BlinkRate:          15.2,
			JustCompleted:      true,
			MeasuredAt:         time.Date(2025, 11, 7, 10, 5, 0, 0, time.UTC),
		},
	}
}

func TestBuild_PassthroughWithoutContext(t *testing.T) {
	got := Build("how are you", entities.ContextSnapshot{})
	if got != "how are you" {
		t.Errorf("Build() = %q, want raw transcript", got)
	}
}

func TestBuild_BlockOrder(t *testing.T) {
	prompt := Build("what do my results mean", sampleSnapshot())

	reportIdx := strings.Index(prompt, "[UPLOADED MEDICAL REPORT: blood_panel.pdf]")
	vitalsIdx := strings.Index(prompt, "[VITAL SIGNS JUST MEASURED]")
	sepIdx := strings.Index(prompt, "---")
	transcriptIdx := strings.Index(prompt, "what do my results mean")

	if reportIdx < 0 || vitalsIdx < 0 || sepIdx < 0 || transcriptIdx < 0 {
		t.Fatalf("prompt missing expected sections:\n%s", prompt)
	}
	if !(reportIdx < vitalsIdx && vitalsIdx < sepIdx && sepIdx < transcriptIdx) {
		t.Errorf("sections out of order: report=%d vitals=%d sep=%d transcript=%d",
			reportIdx, vitalsIdx, sepIdx, transcriptIdx)
	}

	if !strings.Contains(prompt, "Do not ask the user to upload it again") {
		t.Error("report block missing re-upload suppression instruction")
	}
	if !strings.Contains(prompt, "Heart rate: 72 bpm") {
		t.Error("vitals block missing heart rate line")
	}
}

func TestBuild_Deterministic(t *testing.T) {
	snap := sampleSnapshot()
	first := Build("question", snap)
	second := Build("question", snap)
	if first != second {
		t.Error("Build() is not a pure function of its inputs")
	}
}

func TestBuild_AnalysisTruncated(t *testing.T) {
	snap := entities.ContextSnapshot{
		Report: &entities.ReportSummary{
			FileName: "long.pdf",
			Analysis: strings.Repeat("x", MaxAnalysisChars+500),
		},
	}

	prompt := Build("summary please", snap)
	if !strings.Contains(prompt, "...[truncated]") {
		t.Error("prompt missing truncation marker")
	}
	if strings.Contains(prompt, strings.Repeat("x", MaxAnalysisChars+1)) {
		t.Error("analysis not truncated to bound")
	}
}

func TestBuild_TruncationKeepsRunesIntact(t *testing.T) {
	// Fill right up to the bound with ASCII, then place a multibyte rune
	// straddling it.
	analysis := strings.Repeat("x", MaxAnalysisChars-1) + "éfollow-up text"
	snap := entities.ContextSnapshot{
		Report: &entities.ReportSummary{FileName: "r.pdf", Analysis: analysis},
	}

	prompt := Build("summary please", snap)
	if !utf8.ValidString(prompt) {
		t.Fatal("truncated prompt contains an invalid UTF-8 sequence")
	}
	if !strings.Contains(prompt, "...[truncated]") {
		t.Error("prompt missing truncation marker")
	}
	if strings.Contains(prompt, "\xc3...[truncated]") {
		t.Error("marker preceded by a half rune")
	}
}

func TestBuild_StaleVitalsExcluded(t *testing.T) {
	snap := sampleSnapshot()
	snap.LatestVitals.JustCompleted = false

	prompt := Build("hello", snap)
	if strings.Contains(prompt, "[VITAL SIGNS JUST MEASURED]") {
		t.Error("stale vitals observation still augmented the prompt")
	}
	if !strings.Contains(prompt, "[UPLOADED MEDICAL REPORT") {
		t.Error("report block missing")
	}
}

func TestBuild_VitalsOnly(t *testing.T) {
	snap := sampleSnapshot()
	snap.Report = nil

	prompt := Build("hello", snap)
	if strings.Contains(prompt, "[UPLOADED MEDICAL REPORT") {
		t.Error("unexpected report block")
	}
	if !strings.HasSuffix(prompt, "hello") {
		t.Errorf("prompt does not end with raw transcript:\n%s", prompt)
	}
}
