package anomaly

import (
	"servicegov/internal/metrics"
)

// Classification of a series tail against its trailing baseline.
type Classification string

const (
	Insufficient Classification = "INSUFFICIENT DATA"
	Critical     Classification = "CRITICAL"
	Warning      Classification = "WARNING"
	Improvement  Classification = "IMPROVEMENT"
	Stable       Classification = "STABLE"
)

// Color is the severity token consumers use to style a verdict.
type Color string

const (
	ColorRed     Color = "red"
	ColorYellow  Color = "yellow"
	ColorGreen   Color = "green"
	ColorNeutral Color = "gray"
)

// Verdict is the stateless output of a classification pass.
type Verdict struct {
	Classification Classification `json:"classification"`
	Color          Color          `json:"severity_color"`
	ZScore         float64        `json:"z_score"`
}

// DefaultSigmaThreshold is the z-score band used when callers pass no override.
const DefaultSigmaThreshold = 2.0

// Stand-in for a zero standard deviation; keeps flat baselines from dividing
// by zero while still producing huge z-scores for any deviation.
const zeroStdEpsilon = 0.001

// Classify compares the last point of a time-ordered series against the mean
// and standard deviation of all earlier points. Drops below the sigma band are
// WARNING, drops below the band widened by one sigma are CRITICAL, and rises
// above the band are IMPROVEMENT. Pure and deterministic.
func Classify(series []float64, sigmaThreshold float64) Verdict {
	if sigmaThreshold <= 0 {
		sigmaThreshold = DefaultSigmaThreshold
	}
	if len(series) < 3 {
		return Verdict{Classification: Insufficient, Color: ColorNeutral}
	}

	baseline := series[:len(series)-1]
	current := series[len(series)-1]

	mu := metrics.Mean(baseline)
	std := metrics.StdDev(baseline)
	if std == 0 {
		std = zeroStdEpsilon
	}
	z := (current - mu) / std

	switch {
	case z < -(sigmaThreshold + 1):
		return Verdict{Classification: Critical, Color: ColorRed, ZScore: z}
	case z < -sigmaThreshold:
		return Verdict{Classification: Warning, Color: ColorYellow, ZScore: z}
	case z > sigmaThreshold:
		return Verdict{Classification: Improvement, Color: ColorGreen, ZScore: z}
	default:
		return Verdict{Classification: Stable, Color: ColorNeutral, ZScore: z}
	}
}
