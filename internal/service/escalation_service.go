package service

import (
	"errors"

	"hyvai/internal/models"

	"gorm.io/gorm"
)

// EscalationStore persists the append-only escalation trail.
type EscalationStore interface {
	Create(e *models.EscalationLog) error
	ListByInstallment(installmentID uint) ([]models.EscalationLog, error)
}

// InstallmentReader checks that the escalated installment exists.
type InstallmentReader interface {
	GetByID(id uint) (*models.InstallmentApplication, error)
}

// EscalationService records and lists collection escalations. Creation is
// restricted to the single designated super-admin identity; this is
// deliberate business policy (identity-as-policy), not a role check.
type EscalationService struct {
	escalations     EscalationStore
	installments    InstallmentReader
	superAdminEmail string
}

func NewEscalationService(escalations EscalationStore, installments InstallmentReader, superAdminEmail string) *EscalationService {
	return &EscalationService{
		escalations:     escalations,
		installments:    installments,
		superAdminEmail: superAdminEmail,
	}
}

// Create appends an escalation entry. Only the super admin may create
// escalations at all; everyone else is refused outright.
func (s *EscalationService) Create(creator Identity, installmentID, assignedTo uint, method, notes string) (*models.EscalationLog, error) {
	if creator.Email != s.superAdminEmail {
		return nil, ErrForbidden
	}
	if _, err := s.installments.GetByID(installmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	entry := &models.EscalationLog{
		InstallmentID: installmentID,
		AssignedTo:    assignedTo,
		Method:        method,
		Notes:         notes,
		CreatedBy:     creator.UserID,
	}
	if err := s.escalations.Create(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// List returns the escalation trail for one installment, newest first.
func (s *EscalationService) List(installmentID uint) ([]models.EscalationLog, error) {
	return s.escalations.ListByInstallment(installmentID)
}
