package domain

// TrancheState is the mutable status portion of an installment application.
type TrancheState struct {
	Status  string
	Upfront string
	Second  string
	Third   string
}

// TrancheUpdate is a partial admin edit. Nil fields keep the current value.
type TrancheUpdate struct {
	Status  *string
	Upfront *string
	Second  *string
	Third   *string
}

// TransitionResult reports what a transition did beyond the new state.
type TransitionResult struct {
	State TrancheState
	// UpfrontNewlyPaid is true when the upfront tranche moved from a
	// non-paid status to paid; the caller must stamp the upfront payment
	// date, which anchors the 30/60 day due dates.
	UpfrontNewlyPaid bool
	// SecondChanged / ThirdChanged report whether the later tranche
	// statuses differ from their prior values; either one triggers a
	// score recording for the owning user.
	SecondChanged bool
	ThirdChanged  bool
}

// ApplyUpdate applies a partial edit to the current state and enforces the
// lifecycle invariants, in order:
//
//  1. rejected cancels in-flight payment expectations: tranches reset to
//     pending/due/due;
//  2. upfront moving to paid re-arms the later tranches to due;
//  3. all three tranches paid forces status=completed, overriding whatever
//     status the caller supplied.
//
// The function is pure. The re-arm in rule 2 fires only on the non-paid
// to paid upfront transition, so an update carrying that transition is a
// one-shot; all other updates are idempotent.
func ApplyUpdate(cur TrancheState, upd TrancheUpdate) TransitionResult {
	next := cur
	if upd.Status != nil {
		next.Status = *upd.Status
	}
	if upd.Upfront != nil {
		next.Upfront = *upd.Upfront
	}
	if upd.Second != nil {
		next.Second = *upd.Second
	}
	if upd.Third != nil {
		next.Third = *upd.Third
	}

	if next.Status == StatusRejected {
		next.Upfront = TranchePending
		next.Second = TrancheDue
		next.Third = TrancheDue
	}

	upfrontNewlyPaid := cur.Upfront != TranchePaid && next.Upfront == TranchePaid
	if upfrontNewlyPaid {
		next.Second = TrancheDue
		next.Third = TrancheDue
	}

	if next.Upfront == TranchePaid && next.Second == TranchePaid && next.Third == TranchePaid {
		next.Status = StatusCompleted
	}

	return TransitionResult{
		State:            next,
		UpfrontNewlyPaid: upfrontNewlyPaid,
		SecondChanged:    next.Second != cur.Second,
		ThirdChanged:     next.Third != cur.Third,
	}
}

// RejectedState is the tranche state forced onto a rejected application.
func RejectedState() TrancheState {
	return TrancheState{
		Status:  StatusRejected,
		Upfront: TranchePending,
		Second:  TrancheDue,
		Third:   TrancheDue,
	}
}

// Completed reports whether all three tranches are paid.
func (s TrancheState) Completed() bool {
	return s.Upfront == TranchePaid && s.Second == TranchePaid && s.Third == TranchePaid
}
