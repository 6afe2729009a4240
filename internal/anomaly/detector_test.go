package anomaly

import (
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		series []float64
		sigma  float64
		want   Classification
		color  Color
	}{
		{"Empty", nil, 2, Insufficient, ColorNeutral},
		{"TwoPoints", []float64{90, 10}, 2, Insufficient, ColorNeutral},
		{"FlatSeries", []float64{95, 95, 95, 95}, 2, Stable, ColorNeutral},
		{"FlatSeriesHighSigma", []float64{95, 95, 95}, 10, Stable, ColorNeutral},
		{"CollapseOnFlatBaseline", []float64{10, 10, 10, 10, 1}, 2, Critical, ColorRed},
		{"SpikeOnFlatBaseline", []float64{10, 10, 10, 10, 50}, 2, Improvement, ColorGreen},
		{"MildDrop", []float64{90, 100, 110, 80}, 2, Warning, ColorYellow},
		{"DeepDrop", []float64{90, 100, 110, 60}, 2, Critical, ColorRed},
		{"WithinBand", []float64{90, 100, 110, 95}, 2, Stable, ColorNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.series, tt.sigma)
			if got.Classification != tt.want {
				t.Errorf("Classify() = %s, want %s (z=%v)", got.Classification, tt.want, got.ZScore)
			}
			if got.Color != tt.color {
				t.Errorf("Classify() color = %s, want %s", got.Color, tt.color)
			}
		})
	}
}

func TestClassify_Deterministic(t *testing.T) {
	series := []float64{80, 90, 100, 85}
	a := Classify(series, 2)
	b := Classify(series, 2)
	if a != b {
		t.Errorf("Classify is not deterministic: %+v vs %+v", a, b)
	}
}
