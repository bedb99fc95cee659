package model

// Band is the qualitative health rating derived from the numeric score.
type Band string

const (
	// BandExcellent covers scores of 90 and above.
	BandExcellent Band = "excellent"
	// BandGood covers scores of 70 to 89.
	BandGood Band = "good"
	// BandNeedsAttention covers everything below 70.
	BandNeedsAttention Band = "needs attention"
)

// HealthReport is the weighted environment score with its per-check
// deductions, computed independently of the differ.
type HealthReport struct {
	Score      int
	Band       Band
	Deductions []Deduction
}

// Deduction records one failing health check and the weight it cost.
type Deduction struct {
	Key    CheckKey
	Weight int
	Reason string
}

// Healthy reports whether the score reached at least the good band.
func (r HealthReport) Healthy() bool {
	return r.Band == BandExcellent || r.Band == BandGood
}
