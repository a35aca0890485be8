package service

import (
	"errors"
	"time"

	"hyvai/internal/domain"
	"hyvai/internal/models"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// InstallmentStore is the persistence surface the state machine needs.
// UpdateLocked must serialize concurrent updates to the same installment.
type InstallmentStore interface {
	Create(i *models.InstallmentApplication) error
	PromoteCompleted(userID uint) error
	CountActive(userID uint) (int64, error)
	UpdateLocked(id uint, fn func(tx *gorm.DB, row *models.InstallmentApplication) error) error
}

// ProductSource resolves the product whose price fixes the tranche
// amounts.
type ProductSource interface {
	GetByID(id uint) (*models.Product, error)
}

// UserSource resolves the applying employee and their company.
type UserSource interface {
	GetByID(id uint) (*models.User, error)
}

// PaidSum totals paid transactions against one installment.
type PaidSum interface {
	SumPaidForInstallment(installmentID uint) (decimal.Decimal, error)
}

// RiskGate yields the 0-10 approval risk score for a decision.
type RiskGate interface {
	ApprovalRisk(userID, companyID uint) float64
}

// ScoreRecorder appends a ledger snapshot, at most once per day.
type ScoreRecorder interface {
	RecordScoreIfAbsentToday(userID uint) (int, bool, error)
}

// InstallmentService owns the installment application lifecycle: creation
// through the eligibility gate, admin decisions, tranche updates and
// derived completion.
type InstallmentService struct {
	installments InstallmentStore
	products     ProductSource
	users        UserSource
	payments     PaidSum
	risk         RiskGate
	scores       ScoreRecorder
	log          *logrus.Logger
}

func NewInstallmentService(
	installments InstallmentStore,
	products ProductSource,
	users UserSource,
	payments PaidSum,
	risk RiskGate,
	scores ScoreRecorder,
	log *logrus.Logger,
) *InstallmentService {
	return &InstallmentService{
		installments: installments,
		products:     products,
		users:        users,
		payments:     payments,
		risk:         risk,
		scores:       scores,
		log:          log,
	}
}

// CanApply promotes any fully-paid installments to completed, then checks
// that the user has no active (non-completed) application left. The
// promotion write is the documented side effect of this check.
func (s *InstallmentService) CanApply(userID uint) (bool, error) {
	if err := s.installments.PromoteCompleted(userID); err != nil {
		return false, err
	}
	active, err := s.installments.CountActive(userID)
	if err != nil {
		return false, err
	}
	return active == 0, nil
}

// Apply creates a new installment application for the employee. The
// tranche amounts are 60/25/15% of the product's current price, rounded
// to 2 decimals, and stay fixed for the life of the application.
func (s *InstallmentService) Apply(employee Identity, productID uint) (*models.InstallmentApplication, error) {
	eligible, err := s.CanApply(employee.UserID)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, ErrNotEligible
	}

	product, err := s.products.GetByID(productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	amounts := domain.SplitPrice(product.Price)
	app := &models.InstallmentApplication{
		UserID:               employee.UserID,
		ProductID:            product.ID,
		FirstPayment:         amounts.First,
		SecondPayment:        amounts.Second,
		ThirdPayment:         amounts.Third,
		Status:               domain.StatusPending,
		UpfrontPaymentStatus: domain.TranchePending,
		SecondPaymentStatus:  domain.TrancheDue,
		ThirdPaymentStatus:   domain.TrancheDue,
	}
	if err := s.installments.Create(app); err != nil {
		return nil, err
	}
	return app, nil
}

// Decide approves or rejects a pending application. Approval is gated on
// the upfront requirement and on the risk policy; both gates run only on
// the first decision of a currently-pending record.
func (s *InstallmentService) Decide(admin Identity, id uint, decision, rejectionReason string) (*models.InstallmentApplication, error) {
	if decision != domain.StatusApproved && decision != domain.StatusRejected {
		return nil, ErrInvalidDecision
	}
	if decision == domain.StatusRejected && rejectionReason == "" {
		return nil, ErrRejectionReasonRequired
	}

	var decided *models.InstallmentApplication
	err := s.installments.UpdateLocked(id, func(tx *gorm.DB, row *models.InstallmentApplication) error {
		if row.Status != domain.StatusPending {
			return ErrAlreadyProcessed
		}

		if decision == domain.StatusApproved {
			user, err := s.users.GetByID(row.UserID)
			if err != nil {
				return err
			}
			var companyID uint
			if user.CompanyID != nil {
				companyID = *user.CompanyID
			}
			if s.risk.ApprovalRisk(row.UserID, companyID) > domain.ApprovalRiskThreshold {
				return ErrHighRiskEmployee
			}
			if user.Company != nil && user.Company.RiskCategory == domain.RiskHigh {
				return ErrHighRiskCompany
			}

			paid, err := s.payments.SumPaidForInstallment(row.ID)
			if err != nil {
				return err
			}
			if paid.LessThan(row.FirstPayment) {
				return ErrUpfrontNotMet
			}

			row.Status = domain.StatusApproved
			row.ApprovedBy = &admin.UserID
		} else {
			row.SetTrancheState(domain.RejectedState())
			row.RejectionReason = rejectionReason
		}
		decided = row
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAlreadyProcessed
	}
	if err != nil {
		return nil, err
	}
	return decided, nil
}

// UpdateRequest is the admin's partial tranche/status edit. Nil fields
// are left untouched.
type UpdateRequest struct {
	Status  *string
	Upfront *string
	Second  *string
	Third   *string
}

// AdminUpdate applies a general tranche edit under a per-installment
// write lock and enforces the lifecycle invariants (rejection reset,
// upfront-paid re-arm, derived completion). When a later tranche status
// changed, a score snapshot is recorded afterwards; a failed score write
// is logged but never fails the committed update.
func (s *InstallmentService) AdminUpdate(admin Identity, id uint, req UpdateRequest) (*models.InstallmentApplication, error) {
	var (
		updated      *models.InstallmentApplication
		scoreTrigger bool
		ownerID      uint
	)
	err := s.installments.UpdateLocked(id, func(tx *gorm.DB, row *models.InstallmentApplication) error {
		result := domain.ApplyUpdate(row.TrancheState(), domain.TrancheUpdate{
			Status:  req.Status,
			Upfront: req.Upfront,
			Second:  req.Second,
			Third:   req.Third,
		})
		if result.UpfrontNewlyPaid && row.UpfrontPaymentDate == nil {
			now := time.Now()
			row.UpfrontPaymentDate = &now
		}
		row.SetTrancheState(result.State)

		scoreTrigger = result.SecondChanged || result.ThirdChanged
		ownerID = row.UserID
		updated = row
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if scoreTrigger {
		if _, _, err := s.scores.RecordScoreIfAbsentToday(ownerID); err != nil {
			s.log.WithError(err).WithField("user_id", ownerID).Error("score recording after tranche update failed")
		}
	}
	return updated, nil
}
