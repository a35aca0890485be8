package service

import (
	"errors"
	"testing"

	"hyvai/internal/domain"
	"hyvai/internal/models"

	"github.com/shopspring/decimal"
)

func newInstallmentFixture() (*InstallmentService, *fakeInstallmentStore, *fakeUsers, *fakePaidSum, *fakeRiskGate, *fakeScoreRecorder) {
	store := newFakeInstallmentStore()
	products := &fakeProducts{products: map[uint]*models.Product{
		1: {ID: 1, Price: decimal.NewFromInt(100)},
	}}
	users := &fakeUsers{users: map[uint]*models.User{
		7: {ID: 7, Email: "emp@acme.test", Role: domain.RoleEmployee},
	}}
	paid := &fakePaidSum{sums: map[uint]decimal.Decimal{}}
	risk := &fakeRiskGate{}
	scores := &fakeScoreRecorder{}
	svc := NewInstallmentService(store, products, users, paid, risk, scores, testLogger())
	return svc, store, users, paid, risk, scores
}

func TestCanApply(t *testing.T) {
	svc, store, _, _, _, _ := newInstallmentFixture()

	t.Run("no installments means eligible", func(t *testing.T) {
		ok, err := svc.CanApply(7)
		if err != nil {
			t.Fatalf("CanApply: %v", err)
		}
		if !ok {
			t.Error("eligible = false, want true")
		}
		if store.promoteCalls == 0 {
			t.Error("completed promotion was not attempted")
		}
	})

	t.Run("active installment blocks", func(t *testing.T) {
		store.rows[50] = &models.InstallmentApplication{ID: 50, UserID: 7, Status: domain.StatusApproved}
		ok, err := svc.CanApply(7)
		if err != nil {
			t.Fatalf("CanApply: %v", err)
		}
		if ok {
			t.Error("eligible = true with active installment")
		}
	})

	t.Run("fully paid plan is promoted then ignored", func(t *testing.T) {
		store.rows[50].SetTrancheState(domain.TrancheState{
			Status:  domain.StatusApproved,
			Upfront: domain.TranchePaid,
			Second:  domain.TranchePaid,
			Third:   domain.TranchePaid,
		})
		ok, err := svc.CanApply(7)
		if err != nil {
			t.Fatalf("CanApply: %v", err)
		}
		if !ok {
			t.Error("eligible = false after the only plan completed")
		}
		if store.rows[50].Status != domain.StatusCompleted {
			t.Errorf("status = %s, want completed", store.rows[50].Status)
		}
	})
}

func TestApply(t *testing.T) {
	emp := Identity{UserID: 7, Email: "emp@acme.test", Role: domain.RoleEmployee}

	t.Run("creates pending application with split amounts", func(t *testing.T) {
		svc, store, _, _, _, _ := newInstallmentFixture()
		app, err := svc.Apply(emp, 1)
		if err != nil {
			t.Fatalf("Apply: %v", err)
		}
		if !app.FirstPayment.Equal(decimal.NewFromInt(60)) ||
			!app.SecondPayment.Equal(decimal.NewFromInt(25)) ||
			!app.ThirdPayment.Equal(decimal.NewFromInt(15)) {
			t.Errorf("amounts = %s/%s/%s, want 60/25/15", app.FirstPayment, app.SecondPayment, app.ThirdPayment)
		}
		got := app.TrancheState()
		want := domain.TrancheState{
			Status:  domain.StatusPending,
			Upfront: domain.TranchePending,
			Second:  domain.TrancheDue,
			Third:   domain.TrancheDue,
		}
		if got != want {
			t.Errorf("initial state = %+v, want %+v", got, want)
		}
		if _, ok := store.rows[app.ID]; !ok {
			t.Error("application was not persisted")
		}
	})

	t.Run("active installment refuses", func(t *testing.T) {
		svc, store, _, _, _, _ := newInstallmentFixture()
		store.rows[50] = &models.InstallmentApplication{ID: 50, UserID: 7, Status: domain.StatusPending}
		_, err := svc.Apply(emp, 1)
		if !errors.Is(err, ErrNotEligible) {
			t.Errorf("err = %v, want ErrNotEligible", err)
		}
	})

	t.Run("unknown product", func(t *testing.T) {
		svc, _, _, _, _, _ := newInstallmentFixture()
		_, err := svc.Apply(emp, 999)
		if !errors.Is(err, ErrProductNotFound) {
			t.Errorf("err = %v, want ErrProductNotFound", err)
		}
	})
}

func TestDecide(t *testing.T) {
	admin := Identity{UserID: 2, Email: "admin@acme.test", Role: domain.RoleAdmin}

	pending := func(store *fakeInstallmentStore) *models.InstallmentApplication {
		row := &models.InstallmentApplication{
			ID:           10,
			UserID:       7,
			FirstPayment: decimal.NewFromInt(60),
			Status:       domain.StatusPending,
		}
		store.rows[10] = row
		return row
	}

	t.Run("invalid decision", func(t *testing.T) {
		svc, _, _, _, _, _ := newInstallmentFixture()
		_, err := svc.Decide(admin, 10, "maybe", "")
		if !errors.Is(err, ErrInvalidDecision) {
			t.Errorf("err = %v, want ErrInvalidDecision", err)
		}
	})

	t.Run("rejection requires a reason", func(t *testing.T) {
		svc, _, _, _, _, _ := newInstallmentFixture()
		_, err := svc.Decide(admin, 10, domain.StatusRejected, "")
		if !errors.Is(err, ErrRejectionReasonRequired) {
			t.Errorf("err = %v, want ErrRejectionReasonRequired", err)
		}
	})

	t.Run("missing record reads as already processed", func(t *testing.T) {
		svc, _, _, _, _, _ := newInstallmentFixture()
		_, err := svc.Decide(admin, 404, domain.StatusApproved, "")
		if !errors.Is(err, ErrAlreadyProcessed) {
			t.Errorf("err = %v, want ErrAlreadyProcessed", err)
		}
	})

	t.Run("second decision refused", func(t *testing.T) {
		svc, store, _, _, _, _ := newInstallmentFixture()
		pending(store).Status = domain.StatusApproved
		_, err := svc.Decide(admin, 10, domain.StatusApproved, "")
		if !errors.Is(err, ErrAlreadyProcessed) {
			t.Errorf("err = %v, want ErrAlreadyProcessed", err)
		}
	})

	t.Run("high risk employee blocks approval", func(t *testing.T) {
		svc, store, _, paid, risk, _ := newInstallmentFixture()
		pending(store)
		paid.sums[10] = decimal.NewFromInt(60)
		risk.score = 9
		_, err := svc.Decide(admin, 10, domain.StatusApproved, "")
		if !errors.Is(err, ErrHighRiskEmployee) {
			t.Errorf("err = %v, want ErrHighRiskEmployee", err)
		}
		if store.rows[10].Status != domain.StatusPending {
			t.Errorf("status = %s, want still pending", store.rows[10].Status)
		}
	})

	t.Run("high risk company blocks approval", func(t *testing.T) {
		svc, store, users, paid, _, _ := newInstallmentFixture()
		pending(store)
		paid.sums[10] = decimal.NewFromInt(60)
		companyID := uint(3)
		users.users[7].CompanyID = &companyID
		users.users[7].Company = &models.Company{ID: 3, RiskCategory: domain.RiskHigh}
		_, err := svc.Decide(admin, 10, domain.StatusApproved, "")
		if !errors.Is(err, ErrHighRiskCompany) {
			t.Errorf("err = %v, want ErrHighRiskCompany", err)
		}
	})

	t.Run("upfront short blocks approval", func(t *testing.T) {
		svc, store, _, paid, _, _ := newInstallmentFixture()
		pending(store)
		paid.sums[10] = decimal.NewFromInt(59)
		_, err := svc.Decide(admin, 10, domain.StatusApproved, "")
		if !errors.Is(err, ErrUpfrontNotMet) {
			t.Errorf("err = %v, want ErrUpfrontNotMet", err)
		}
	})

	t.Run("approval records the approver", func(t *testing.T) {
		svc, store, _, paid, _, _ := newInstallmentFixture()
		pending(store)
		paid.sums[10] = decimal.NewFromInt(60)
		app, err := svc.Decide(admin, 10, domain.StatusApproved, "")
		if err != nil {
			t.Fatalf("Decide: %v", err)
		}
		if app.Status != domain.StatusApproved {
			t.Errorf("status = %s, want approved", app.Status)
		}
		if app.ApprovedBy == nil || *app.ApprovedBy != admin.UserID {
			t.Errorf("approved_by = %v, want %d", app.ApprovedBy, admin.UserID)
		}
	})

	t.Run("rejection resets tranches and keeps the reason", func(t *testing.T) {
		svc, store, _, _, _, _ := newInstallmentFixture()
		row := pending(store)
		row.UpfrontPaymentStatus = domain.TranchePaid
		app, err := svc.Decide(admin, 10, domain.StatusRejected, "insufficient tenure")
		if err != nil {
			t.Fatalf("Decide: %v", err)
		}
		if app.TrancheState() != domain.RejectedState() {
			t.Errorf("state = %+v, want rejected reset", app.TrancheState())
		}
		if app.RejectionReason != "insufficient tenure" {
			t.Errorf("reason = %q", app.RejectionReason)
		}
	})
}

func TestAdminUpdate(t *testing.T) {
	admin := Identity{UserID: 2, Role: domain.RoleAdmin}
	paidStatus := domain.TranchePaid

	approvedRow := func(store *fakeInstallmentStore) *models.InstallmentApplication {
		row := &models.InstallmentApplication{
			ID:                   10,
			UserID:               7,
			Status:               domain.StatusApproved,
			UpfrontPaymentStatus: domain.TranchePending,
			SecondPaymentStatus:  domain.TrancheDue,
			ThirdPaymentStatus:   domain.TrancheDue,
		}
		store.rows[10] = row
		return row
	}

	t.Run("missing installment", func(t *testing.T) {
		svc, _, _, _, _, _ := newInstallmentFixture()
		_, err := svc.AdminUpdate(admin, 404, UpdateRequest{Status: &paidStatus})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("upfront paid stamps the payment date once", func(t *testing.T) {
		svc, store, _, _, _, _ := newInstallmentFixture()
		approvedRow(store)
		app, err := svc.AdminUpdate(admin, 10, UpdateRequest{Upfront: &paidStatus})
		if err != nil {
			t.Fatalf("AdminUpdate: %v", err)
		}
		if app.UpfrontPaymentDate == nil {
			t.Fatal("upfront payment date not stamped")
		}
		stamped := *app.UpfrontPaymentDate

		// a later edit must not move the anchor
		missed := domain.TrancheMissed
		if _, err := svc.AdminUpdate(admin, 10, UpdateRequest{Second: &missed}); err != nil {
			t.Fatalf("AdminUpdate: %v", err)
		}
		if !store.rows[10].UpfrontPaymentDate.Equal(stamped) {
			t.Error("upfront payment date moved on a later edit")
		}
	})

	t.Run("later tranche change records a score", func(t *testing.T) {
		svc, store, _, _, _, scores := newInstallmentFixture()
		approvedRow(store)
		if _, err := svc.AdminUpdate(admin, 10, UpdateRequest{Second: &paidStatus}); err != nil {
			t.Fatalf("AdminUpdate: %v", err)
		}
		if len(scores.calls) != 1 || scores.calls[0] != 7 {
			t.Errorf("score recordings = %v, want one for user 7", scores.calls)
		}
	})

	t.Run("status-only edit records no score", func(t *testing.T) {
		svc, store, _, _, _, scores := newInstallmentFixture()
		approvedRow(store)
		approved := domain.StatusApproved
		if _, err := svc.AdminUpdate(admin, 10, UpdateRequest{Status: &approved}); err != nil {
			t.Fatalf("AdminUpdate: %v", err)
		}
		if len(scores.calls) != 0 {
			t.Errorf("score recordings = %v, want none", scores.calls)
		}
	})

	t.Run("score failure does not fail the update", func(t *testing.T) {
		svc, store, _, _, _, scores := newInstallmentFixture()
		approvedRow(store)
		scores.err = errors.New("ledger down")
		app, err := svc.AdminUpdate(admin, 10, UpdateRequest{Second: &paidStatus})
		if err != nil {
			t.Fatalf("AdminUpdate: %v", err)
		}
		if app.SecondPaymentStatus != domain.TranchePaid {
			t.Errorf("second = %s, want paid despite score failure", app.SecondPaymentStatus)
		}
	})

	t.Run("all tranches paid completes the plan", func(t *testing.T) {
		svc, store, _, _, _, _ := newInstallmentFixture()
		row := approvedRow(store)
		row.UpfrontPaymentStatus = domain.TranchePaid
		row.SecondPaymentStatus = domain.TranchePaid
		app, err := svc.AdminUpdate(admin, 10, UpdateRequest{Third: &paidStatus})
		if err != nil {
			t.Fatalf("AdminUpdate: %v", err)
		}
		if app.Status != domain.StatusCompleted {
			t.Errorf("status = %s, want completed", app.Status)
		}
	})
}
