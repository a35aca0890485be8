package domain

// Ledger score weights. Only completed installments count; the upfront
// tranche never scores because completion implies it was paid.
const (
	secondPaidPoints   = 15
	secondMissedPoints = -10
	thirdPaidPoints    = 20
	thirdMissedPoints  = -15
)

// CompletedOutcome is the scoring-relevant slice of a completed
// installment.
type CompletedOutcome struct {
	Second string
	Third  string
}

// LedgerScore sums the payment-history score over a user's completed
// installments. Unbounded, signed.
func LedgerScore(completed []CompletedOutcome) int {
	score := 0
	for _, c := range completed {
		switch c.Second {
		case TranchePaid:
			score += secondPaidPoints
		case TrancheMissed:
			score += secondMissedPoints
		}
		switch c.Third {
		case TranchePaid:
			score += thirdPaidPoints
		case TrancheMissed:
			score += thirdMissedPoints
		}
	}
	return score
}

// Tier maps a ledger score to a display-only rank. Recomputed on read,
// never stored.
func Tier(score int) string {
	switch {
	case score >= 90:
		return "top"
	case score >= 70:
		return "high"
	case score >= 50:
		return "rising"
	case score >= 30:
		return "consistent"
	default:
		return "entry-level"
	}
}

// ApprovalRiskInput collects the counts feeding the 0-10 approval gate
// score. This numeric space is unrelated to the ledger score.
type ApprovalRiskInput struct {
	RejectedInstallments int
	OnTimePayments       int
	MissedPayments       int
	CompanyRejections    int
}

// ApprovalRiskScore computes the coarse decision-time risk score, clamped
// to [0, 10]. Anything above 8 blocks approval.
func ApprovalRiskScore(in ApprovalRiskInput) float64 {
	score := float64(in.RejectedInstallments) * 3
	score += float64(in.MissedPayments) * 4
	score -= float64(in.OnTimePayments) * 1.5
	if in.CompanyRejections > 5 {
		score += 5
	}
	if score < 0 {
		score = 0
	}
	if score > 10 {
		score = 10
	}
	return score
}

// ApprovalRiskThreshold is the cutoff above which an employee cannot be
// approved.
const ApprovalRiskThreshold = 8

// ClassifyRisk derives the collection risk level of an approved
// installment from its missed-tranche count and days elapsed since the
// upfront payment.
func ClassifyRisk(missed int, overdueDays int) string {
	if missed >= 2 || overdueDays > 15 {
		return RiskHigh
	}
	if missed == 1 || overdueDays > 7 {
		return RiskMedium
	}
	return RiskLow
}
