package service

import (
	"hyvai/internal/models"

	"github.com/sirupsen/logrus"
)

// AuditStore persists the admin action trail.
type AuditStore interface {
	Create(l *models.SystemLog) error
	ListRecent(limit int) ([]models.SystemLog, error)
}

// AuditService records administrative actions. Recording is best effort:
// a failed audit write is logged and swallowed so it never fails the
// action being audited.
type AuditService struct {
	store AuditStore
	log   *logrus.Logger
}

func NewAuditService(store AuditStore, log *logrus.Logger) *AuditService {
	return &AuditService{store: store, log: log}
}

func (s *AuditService) Record(adminID uint, action, module, description string) {
	err := s.store.Create(&models.SystemLog{
		AdminID:     adminID,
		Action:      action,
		Module:      module,
		Description: description,
	})
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"admin_id": adminID,
			"action":   action,
		}).Error("failed to record admin action")
	}
}

// Recent returns the latest audit entries, newest first.
func (s *AuditService) Recent(limit int) ([]models.SystemLog, error) {
	return s.store.ListRecent(limit)
}
