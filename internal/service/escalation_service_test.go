package service

import (
	"errors"
	"testing"

	"hyvai/internal/domain"
)

const superEmail = "destin@gmail.com"

func newEscalationFixture() (*EscalationService, *fakeEscalations) {
	escalations := &fakeEscalations{}
	installments := &fakeInstallmentReader{known: map[uint]bool{10: true}}
	svc := NewEscalationService(escalations, installments, superEmail)
	return svc, escalations
}

func TestEscalationCreate(t *testing.T) {
	super := Identity{UserID: 1, Email: superEmail, Role: domain.RoleAdmin}

	t.Run("only the super admin may create", func(t *testing.T) {
		svc, escalations := newEscalationFixture()
		other := Identity{UserID: 2, Email: "admin@acme.test", Role: domain.RoleAdmin}
		_, err := svc.Create(other, 10, 3, domain.MethodCall, "no answer")
		if !errors.Is(err, ErrForbidden) {
			t.Errorf("err = %v, want ErrForbidden", err)
		}
		if len(escalations.entries) != 0 {
			t.Error("entry created for a non-super admin")
		}
	})

	t.Run("unknown installment", func(t *testing.T) {
		svc, _ := newEscalationFixture()
		_, err := svc.Create(super, 404, 3, domain.MethodCall, "")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("records creator and assignment", func(t *testing.T) {
		svc, escalations := newEscalationFixture()
		entry, err := svc.Create(super, 10, 3, domain.MethodVisit, "second attempt")
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if entry.CreatedBy != super.UserID {
			t.Errorf("created_by = %d, want %d", entry.CreatedBy, super.UserID)
		}
		if entry.AssignedTo != 3 || entry.Method != domain.MethodVisit {
			t.Errorf("entry = %+v", entry)
		}
		if len(escalations.entries) != 1 {
			t.Errorf("entries = %d, want 1", len(escalations.entries))
		}
	})
}

func TestEscalationList(t *testing.T) {
	svc, _ := newEscalationFixture()
	super := Identity{UserID: 1, Email: superEmail}
	if _, err := svc.Create(super, 10, 3, domain.MethodCall, "first"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(super, 10, 4, domain.MethodEmail, "second"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	list, err := svc.List(10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("len = %d, want 2", len(list))
	}
}
