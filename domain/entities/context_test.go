package entities

import (
	"testing"
	"time"
)

func TestVitalsObservationJustMeasured(t *testing.T) {
	now := time.Date(2025, 11, 7, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		obs  VitalsObservation
		want bool
	}{
		{
			name: "fresh measurement",
			obs:  VitalsObservation{JustCompleted: true, MeasuredAt: now.Add(-30 * time.Second)},
			want: true,
		},
		{
			name: "measurement past the freshness window",
			obs:  VitalsObservation{JustCompleted: true, MeasuredAt: now.Add(-VitalsFreshness - time.Second)},
			want: false,
		},
		{
			name: "flag cleared",
			obs:  VitalsObservation{JustCompleted: false, MeasuredAt: now},
			want: false,
		},
		{
			name: "missing timestamp",
			obs:  VitalsObservation{JustCompleted: true},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.obs.JustMeasured(now); got != tt.want {
				t.Errorf("JustMeasured() = %v, want %v", got, tt.want)
			}
		})
	}
}
