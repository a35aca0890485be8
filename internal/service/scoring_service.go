package service

import (
	"errors"
	"time"

	"hyvai/internal/domain"
	"hyvai/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ScoreLedger is the append-only per-user score history store.
type ScoreLedger interface {
	ExistsForDay(userID uint, day time.Time) (bool, error)
	Insert(entry *models.ScoreHistory) error
	ListByUser(userID uint) ([]models.ScoreHistory, error)
}

// OutcomeSource reads the installment history feeding both scoring
// formulas.
type OutcomeSource interface {
	CompletedOutcomes(userID uint) ([]domain.CompletedOutcome, error)
	CountRejectedByUser(userID uint) (int64, error)
	CountRejectedByCompany(companyID uint) (int64, error)
}

// PaymentCounter counts a user's transactions by payment status.
type PaymentCounter interface {
	CountByUserStatus(userID uint, status string) (int64, error)
}

// RiskScoreCache persists a computed approval risk score onto a record.
type RiskScoreCache interface {
	CacheRiskScore(id uint, score float64) error
}

// ScoringService owns the ledger score, the once-per-day recording rule
// and the decision-time approval risk score.
type ScoringService struct {
	ledger       ScoreLedger
	outcomes     OutcomeSource
	payments     PaymentCounter
	userCache    RiskScoreCache
	companyCache RiskScoreCache
	log          *logrus.Logger
}

func NewScoringService(ledger ScoreLedger, outcomes OutcomeSource, payments PaymentCounter, userCache, companyCache RiskScoreCache, log *logrus.Logger) *ScoringService {
	return &ScoringService{
		ledger:       ledger,
		outcomes:     outcomes,
		payments:     payments,
		userCache:    userCache,
		companyCache: companyCache,
		log:          log,
	}
}

// LedgerScoreFor recomputes the user's score from their completed
// installments.
func (s *ScoringService) LedgerScoreFor(userID uint) (int, error) {
	completed, err := s.outcomes.CompletedOutcomes(userID)
	if err != nil {
		return 0, err
	}
	return domain.LedgerScore(completed), nil
}

// RecordScoreIfAbsentToday computes the current ledger score and appends
// it, at most once per (user, calendar day). The existence check is a
// fast path; the unique index on (user_id, recorded_on) is what actually
// prevents same-day double writes under concurrency. Returns the score
// and whether a new row was written.
func (s *ScoringService) RecordScoreIfAbsentToday(userID uint) (int, bool, error) {
	score, err := s.LedgerScoreFor(userID)
	if err != nil {
		return 0, false, err
	}
	// calendar day in server-local time, not a UTC-epoch truncation;
	// near local midnight the two disagree on the date
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	exists, err := s.ledger.ExistsForDay(userID, today)
	if err != nil {
		return score, false, err
	}
	if exists {
		return score, false, nil
	}
	err = s.ledger.Insert(&models.ScoreHistory{
		UserID:     userID,
		Score:      score,
		RecordedOn: today,
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost the race to another same-day write; that row is just as
		// good as ours.
		return score, false, nil
	}
	if err != nil {
		return score, false, err
	}
	return score, true, nil
}

// History returns the user's score ledger oldest first.
func (s *ScoringService) History(userID uint) ([]models.ScoreHistory, error) {
	return s.ledger.ListByUser(userID)
}

// ApprovalRisk computes the coarse 0-10 decision-time risk score and
// caches it onto the user and company rows. Fails closed: any read error
// yields the maximum score.
func (s *ScoringService) ApprovalRisk(userID, companyID uint) float64 {
	rejected, err := s.outcomes.CountRejectedByUser(userID)
	if err != nil {
		s.log.WithError(err).WithField("user_id", userID).Error("approval risk: rejected count")
		return 10
	}
	onTime, err := s.payments.CountByUserStatus(userID, domain.PaymentPaid)
	if err != nil {
		s.log.WithError(err).WithField("user_id", userID).Error("approval risk: on-time count")
		return 10
	}
	missed, err := s.payments.CountByUserStatus(userID, domain.PaymentMissed)
	if err != nil {
		s.log.WithError(err).WithField("user_id", userID).Error("approval risk: missed count")
		return 10
	}
	var companyRejections int64
	if companyID != 0 {
		companyRejections, err = s.outcomes.CountRejectedByCompany(companyID)
		if err != nil {
			s.log.WithError(err).WithField("company_id", companyID).Error("approval risk: company rejections")
			return 10
		}
	}

	score := domain.ApprovalRiskScore(domain.ApprovalRiskInput{
		RejectedInstallments: int(rejected),
		OnTimePayments:       int(onTime),
		MissedPayments:       int(missed),
		CompanyRejections:    int(companyRejections),
	})

	// Cached scores drive dashboards only; a failed write must not block
	// the decision.
	if err := s.userCache.CacheRiskScore(userID, score); err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("approval risk: cache user score")
	}
	if companyID != 0 {
		if err := s.companyCache.CacheRiskScore(companyID, score); err != nil {
			s.log.WithError(err).WithField("company_id", companyID).Warn("approval risk: cache company score")
		}
	}
	return score
}
