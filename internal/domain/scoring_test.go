package domain

import "testing"

func TestLedgerScore(t *testing.T) {
	tests := []struct {
		name      string
		completed []CompletedOutcome
		want      int
	}{
		{"no history", nil, 0},
		{"both paid", []CompletedOutcome{{Second: TranchePaid, Third: TranchePaid}}, 35},
		{"both missed", []CompletedOutcome{{Second: TrancheMissed, Third: TrancheMissed}}, -25},
		{"second paid third missed cancels out", []CompletedOutcome{{Second: TranchePaid, Third: TrancheMissed}}, 0},
		{"non-terminal statuses ignored", []CompletedOutcome{{Second: TrancheDue, Third: TranchePending}}, 0},
		{"accumulates across installments", []CompletedOutcome{
			{Second: TranchePaid, Third: TranchePaid},
			{Second: TrancheMissed, Third: TranchePaid},
		}, 45},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LedgerScore(tt.completed); got != tt.want {
				t.Errorf("LedgerScore = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTier(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{95, "top"},
		{90, "top"},
		{70, "high"},
		{50, "rising"},
		{30, "consistent"},
		{29, "entry-level"},
		{-10, "entry-level"},
	}
	for _, tt := range tests {
		if got := Tier(tt.score); got != tt.want {
			t.Errorf("Tier(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestApprovalRiskScore(t *testing.T) {
	t.Run("clean history is zero", func(t *testing.T) {
		if got := ApprovalRiskScore(ApprovalRiskInput{}); got != 0 {
			t.Errorf("got %v, want 0", got)
		}
	})

	t.Run("on-time payments lower the score", func(t *testing.T) {
		got := ApprovalRiskScore(ApprovalRiskInput{MissedPayments: 1, OnTimePayments: 2})
		if got != 1 {
			t.Errorf("got %v, want 1", got)
		}
	})

	t.Run("clamped below at zero", func(t *testing.T) {
		if got := ApprovalRiskScore(ApprovalRiskInput{OnTimePayments: 10}); got != 0 {
			t.Errorf("got %v, want 0", got)
		}
	})

	t.Run("clamped above at ten", func(t *testing.T) {
		got := ApprovalRiskScore(ApprovalRiskInput{RejectedInstallments: 4, MissedPayments: 4})
		if got != 10 {
			t.Errorf("got %v, want 10", got)
		}
	})

	t.Run("company penalty needs more than five rejections", func(t *testing.T) {
		base := ApprovalRiskInput{MissedPayments: 1}
		at5 := ApprovalRiskScore(ApprovalRiskInput{MissedPayments: 1, CompanyRejections: 5})
		at6 := ApprovalRiskScore(ApprovalRiskInput{MissedPayments: 1, CompanyRejections: 6})
		if at5 != ApprovalRiskScore(base) {
			t.Errorf("penalty applied at exactly 5 rejections")
		}
		if at6 != ApprovalRiskScore(base)+5 {
			t.Errorf("got %v, want +5 over base", at6)
		}
	})
}

func TestClassifyRisk(t *testing.T) {
	tests := []struct {
		name        string
		missed      int
		overdueDays int
		want        string
	}{
		{"clean", 0, 0, RiskLow},
		{"two missed", 2, 0, RiskHigh},
		{"long overdue", 0, 16, RiskHigh},
		{"one missed", 1, 0, RiskMedium},
		{"week overdue", 0, 8, RiskMedium},
		{"boundary seven days", 0, 7, RiskLow},
		{"boundary fifteen days", 0, 15, RiskMedium},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyRisk(tt.missed, tt.overdueDays); got != tt.want {
				t.Errorf("ClassifyRisk(%d, %d) = %q, want %q", tt.missed, tt.overdueDays, got, tt.want)
			}
		})
	}
}
