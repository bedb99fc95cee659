package model

// Severity ranks how urgently a discrepancy needs fixing.
type Severity string

const (
	// SeverityBlocking prevents the project from building or running.
	SeverityBlocking Severity = "blocking"
	// SeverityRecommended degrades the team baseline but does not block.
	SeverityRecommended Severity = "recommended"
	// SeverityInformational is advisory only.
	SeverityInformational Severity = "informational"
)

// Discrepancy records one field where desired and observed state disagree.
// Derived deterministically from a ProbeResult plus the fixed severity
// policy table in internal/diff.
type Discrepancy struct {
	Key       CheckKey
	Expected  string
	Observed  string
	Severity  Severity
	Suggested string
}
