package domain

const (
	RoleEmployee = "employee"
	RoleAdmin    = "admin"
)

// Tranche payment statuses.
const (
	TranchePending = "pending"
	TrancheDue     = "due"
	TranchePaid    = "paid"
	TrancheMissed  = "missed"
)

// Overall installment application statuses.
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCompleted = "completed"
)

// Escalation contact methods.
const (
	MethodCall     = "call"
	MethodVisit    = "visit"
	MethodWhatsapp = "whatsapp"
	MethodEmail    = "email"
)

// Company risk categories.
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// Transaction payment statuses.
const (
	PaymentDue    = "due"
	PaymentPaid   = "paid"
	PaymentMissed = "missed"
)

func ValidTrancheStatus(s string) bool {
	switch s {
	case TranchePending, TrancheDue, TranchePaid, TrancheMissed:
		return true
	}
	return false
}

func ValidInstallmentStatus(s string) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCompleted:
		return true
	}
	return false
}

func ValidContactMethod(s string) bool {
	switch s {
	case MethodCall, MethodVisit, MethodWhatsapp, MethodEmail:
		return true
	}
	return false
}

func ValidRiskCategory(s string) bool {
	switch s {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	}
	return false
}
