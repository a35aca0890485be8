package service

import (
	"io"
	"time"

	"hyvai/internal/domain"
	"hyvai/internal/models"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// fakeInstallmentStore holds rows in memory. UpdateLocked runs the
// callback directly with a nil tx; code under test never touches it.
type fakeInstallmentStore struct {
	rows         map[uint]*models.InstallmentApplication
	nextID       uint
	promoteCalls int
	createErr    error
}

func newFakeInstallmentStore() *fakeInstallmentStore {
	return &fakeInstallmentStore{rows: map[uint]*models.InstallmentApplication{}, nextID: 1}
}

func (f *fakeInstallmentStore) Create(i *models.InstallmentApplication) error {
	if f.createErr != nil {
		return f.createErr
	}
	i.ID = f.nextID
	f.nextID++
	f.rows[i.ID] = i
	return nil
}

func (f *fakeInstallmentStore) PromoteCompleted(userID uint) error {
	f.promoteCalls++
	for _, r := range f.rows {
		if r.UserID == userID && r.TrancheState().Completed() {
			r.Status = domain.StatusCompleted
		}
	}
	return nil
}

func (f *fakeInstallmentStore) CountActive(userID uint) (int64, error) {
	var n int64
	for _, r := range f.rows {
		if r.UserID == userID && r.Status != domain.StatusCompleted {
			n++
		}
	}
	return n, nil
}

func (f *fakeInstallmentStore) UpdateLocked(id uint, fn func(tx *gorm.DB, row *models.InstallmentApplication) error) error {
	row, ok := f.rows[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	return fn(nil, row)
}

type fakeProducts struct {
	products map[uint]*models.Product
}

func (f *fakeProducts) GetByID(id uint) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

type fakeUsers struct {
	users map[uint]*models.User
}

func (f *fakeUsers) GetByID(id uint) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

type fakePaidSum struct {
	sums map[uint]decimal.Decimal
}

func (f *fakePaidSum) SumPaidForInstallment(installmentID uint) (decimal.Decimal, error) {
	return f.sums[installmentID], nil
}

type fakeRiskGate struct {
	score float64
}

func (f *fakeRiskGate) ApprovalRisk(userID, companyID uint) float64 { return f.score }

type fakeScoreRecorder struct {
	calls []uint
	err   error
}

func (f *fakeScoreRecorder) RecordScoreIfAbsentToday(userID uint) (int, bool, error) {
	f.calls = append(f.calls, userID)
	if f.err != nil {
		return 0, false, f.err
	}
	return 0, true, nil
}

// fakeLedger backs the scoring service tests.
type fakeLedger struct {
	entries   []models.ScoreHistory
	existsErr error
	insertErr error
}

func (f *fakeLedger) ExistsForDay(userID uint, day time.Time) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	for _, e := range f.entries {
		if e.UserID == userID && e.RecordedOn.Equal(day) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeLedger) Insert(entry *models.ScoreHistory) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeLedger) ListByUser(userID uint) ([]models.ScoreHistory, error) {
	var out []models.ScoreHistory
	for _, e := range f.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeOutcomes struct {
	completed         []domain.CompletedOutcome
	userRejections    int64
	companyRejections int64
	err               error
}

func (f *fakeOutcomes) CompletedOutcomes(userID uint) ([]domain.CompletedOutcome, error) {
	return f.completed, f.err
}

func (f *fakeOutcomes) CountRejectedByUser(userID uint) (int64, error) {
	return f.userRejections, f.err
}

func (f *fakeOutcomes) CountRejectedByCompany(companyID uint) (int64, error) {
	return f.companyRejections, f.err
}

type fakePaymentCounter struct {
	paid   int64
	missed int64
	err    error
}

func (f *fakePaymentCounter) CountByUserStatus(userID uint, status string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	if status == domain.PaymentPaid {
		return f.paid, nil
	}
	return f.missed, nil
}

type fakeRiskCache struct {
	scores map[uint]float64
	err    error
}

func (f *fakeRiskCache) CacheRiskScore(id uint, score float64) error {
	if f.err != nil {
		return f.err
	}
	if f.scores == nil {
		f.scores = map[uint]float64{}
	}
	f.scores[id] = score
	return nil
}

type fakeEscalations struct {
	entries []models.EscalationLog
}

func (f *fakeEscalations) Create(e *models.EscalationLog) error {
	e.ID = uint(len(f.entries) + 1)
	f.entries = append(f.entries, *e)
	return nil
}

func (f *fakeEscalations) ListByInstallment(installmentID uint) ([]models.EscalationLog, error) {
	var out []models.EscalationLog
	for _, e := range f.entries {
		if e.InstallmentID == installmentID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeInstallmentReader struct {
	known map[uint]bool
}

func (f *fakeInstallmentReader) GetByID(id uint) (*models.InstallmentApplication, error) {
	if !f.known[id] {
		return nil, gorm.ErrRecordNotFound
	}
	return &models.InstallmentApplication{ID: id}, nil
}
