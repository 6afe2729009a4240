package metrics

// Point is a single (period, value) observation of a metric.
type Point struct {
	Period string  `json:"period"`
	Value  float64 `json:"value"`
}

// Series is an ordered sequence of points. Periods are unique and strictly
// ascending; aggregation keeps this invariant by construction.
type Series []Point

// Values returns the series values in period order.
func (s Series) Values() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Value
	}
	return out
}
