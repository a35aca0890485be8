package service

import (
	"errors"
	"testing"
	"time"

	"hyvai/internal/domain"
	"hyvai/internal/models"

	"gorm.io/gorm"
)

func localMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func newScoringFixture() (*ScoringService, *fakeLedger, *fakeOutcomes, *fakePaymentCounter, *fakeRiskCache, *fakeRiskCache) {
	ledger := &fakeLedger{}
	outcomes := &fakeOutcomes{}
	payments := &fakePaymentCounter{}
	userCache := &fakeRiskCache{}
	companyCache := &fakeRiskCache{}
	svc := NewScoringService(ledger, outcomes, payments, userCache, companyCache, testLogger())
	return svc, ledger, outcomes, payments, userCache, companyCache
}

func TestLedgerScoreFor(t *testing.T) {
	svc, _, outcomes, _, _, _ := newScoringFixture()
	outcomes.completed = []domain.CompletedOutcome{
		{Second: domain.TranchePaid, Third: domain.TranchePaid},
		{Second: domain.TrancheMissed, Third: domain.TranchePaid},
	}
	got, err := svc.LedgerScoreFor(7)
	if err != nil {
		t.Fatalf("LedgerScoreFor: %v", err)
	}
	if got != 45 {
		t.Errorf("score = %d, want 45", got)
	}
}

func TestRecordScoreIfAbsentToday(t *testing.T) {
	t.Run("first write of the day records", func(t *testing.T) {
		svc, ledger, outcomes, _, _, _ := newScoringFixture()
		outcomes.completed = []domain.CompletedOutcome{{Second: domain.TranchePaid, Third: domain.TranchePaid}}
		score, recorded, err := svc.RecordScoreIfAbsentToday(7)
		if err != nil {
			t.Fatalf("RecordScoreIfAbsentToday: %v", err)
		}
		if !recorded {
			t.Error("recorded = false, want true")
		}
		if score != 35 {
			t.Errorf("score = %d, want 35", score)
		}
		if len(ledger.entries) != 1 {
			t.Fatalf("ledger entries = %d, want 1", len(ledger.entries))
		}
		// the dedup key is the server-local calendar day
		if got, want := ledger.entries[0].RecordedOn, localMidnight(time.Now()); !got.Equal(want) {
			t.Errorf("recorded_on = %v, want local midnight %v", got, want)
		}
	})

	t.Run("same day is a no-op", func(t *testing.T) {
		svc, ledger, _, _, _, _ := newScoringFixture()
		today := localMidnight(time.Now())
		ledger.entries = []models.ScoreHistory{{UserID: 7, Score: 10, RecordedOn: today}}
		_, recorded, err := svc.RecordScoreIfAbsentToday(7)
		if err != nil {
			t.Fatalf("RecordScoreIfAbsentToday: %v", err)
		}
		if recorded {
			t.Error("recorded = true for an existing same-day entry")
		}
		if len(ledger.entries) != 1 {
			t.Errorf("ledger entries = %d, want 1", len(ledger.entries))
		}
	})

	t.Run("losing the insert race is not an error", func(t *testing.T) {
		svc, ledger, _, _, _, _ := newScoringFixture()
		ledger.insertErr = gorm.ErrDuplicatedKey
		_, recorded, err := svc.RecordScoreIfAbsentToday(7)
		if err != nil {
			t.Fatalf("RecordScoreIfAbsentToday: %v", err)
		}
		if recorded {
			t.Error("recorded = true after duplicate-key insert")
		}
	})

	t.Run("other insert errors surface", func(t *testing.T) {
		svc, ledger, _, _, _, _ := newScoringFixture()
		ledger.insertErr = errors.New("disk full")
		_, _, err := svc.RecordScoreIfAbsentToday(7)
		if err == nil {
			t.Error("err = nil, want insert error")
		}
	})
}

func TestApprovalRisk(t *testing.T) {
	t.Run("combines the counts and caches", func(t *testing.T) {
		svc, _, outcomes, payments, userCache, companyCache := newScoringFixture()
		outcomes.userRejections = 1
		outcomes.companyRejections = 6
		payments.missed = 1
		payments.paid = 2
		// 1*3 + 1*4 - 2*1.5 + 5 = 9
		got := svc.ApprovalRisk(7, 3)
		if got != 9 {
			t.Errorf("risk = %v, want 9", got)
		}
		if userCache.scores[7] != 9 {
			t.Errorf("user cache = %v, want 9", userCache.scores[7])
		}
		if companyCache.scores[3] != 9 {
			t.Errorf("company cache = %v, want 9", companyCache.scores[3])
		}
	})

	t.Run("no company skips the company signal", func(t *testing.T) {
		svc, _, outcomes, _, _, companyCache := newScoringFixture()
		outcomes.companyRejections = 100
		got := svc.ApprovalRisk(7, 0)
		if got != 0 {
			t.Errorf("risk = %v, want 0 without company", got)
		}
		if len(companyCache.scores) != 0 {
			t.Error("company cache written without a company")
		}
	})

	t.Run("fails closed on read errors", func(t *testing.T) {
		svc, _, outcomes, _, _, _ := newScoringFixture()
		outcomes.err = errors.New("db gone")
		if got := svc.ApprovalRisk(7, 3); got != 10 {
			t.Errorf("risk = %v, want 10 on read failure", got)
		}
	})

	t.Run("cache failure does not change the score", func(t *testing.T) {
		svc, _, _, _, userCache, _ := newScoringFixture()
		userCache.err = errors.New("cache gone")
		if got := svc.ApprovalRisk(7, 0); got != 0 {
			t.Errorf("risk = %v, want 0 despite cache failure", got)
		}
	})
}
