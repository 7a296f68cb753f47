package domain

import "time"

// WorkflowState is the lifecycle state of a user's invoice session.
type WorkflowState string

const (
	StateEmpty        WorkflowState = "empty"
	StateAccumulating WorkflowState = "accumulating"
	StateGenerating   WorkflowState = "generating"
	StateGenerated    WorkflowState = "generated"
)

var workflowTransitions = map[WorkflowState][]WorkflowState{
	StateEmpty:        {StateEmpty, StateAccumulating},
	StateAccumulating: {StateEmpty, StateAccumulating, StateGenerating},
	StateGenerating:   {StateAccumulating, StateGenerated},
	StateGenerated:    {StateEmpty, StateAccumulating},
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s WorkflowState) CanTransitionTo(next WorkflowState) bool {
	for _, allowed := range workflowTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IssuedInvoice is the snapshot kept after a successful generate so the
// document can be downloaded after the draft has been reset.
type IssuedInvoice struct {
	Number  int64       `json:"number"`
	Period  Period      `json:"period"`
	Entries []WorkEntry `json:"entries"`
}

// Session is one user's workflow state.
type Session struct {
	UserID    string         `json:"user_id"`
	State     WorkflowState  `json:"state"`
	Draft     Draft          `json:"draft"`
	Issued    *IssuedInvoice `json:"issued,omitempty"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// NewSession starts an empty session covering the default period.
func NewSession(userID string, now time.Time) *Session {
	return &Session{
		UserID:    userID,
		State:     StateEmpty,
		Draft:     NewDraft(DefaultPeriod(now)),
		UpdatedAt: now.UTC(),
	}
}

// StateAfterEdit derives the state following an add or remove.
func StateAfterEdit(d Draft) WorkflowState {
	if d.Empty() {
		return StateEmpty
	}
	return StateAccumulating
}

// Transition moves the session to next if the state machine allows it.
func (s *Session) Transition(next WorkflowState) error {
	if !s.State.CanTransitionTo(next) {
		return ErrInvalidTransition
	}
	s.State = next
	return nil
}

// Edited records a draft mutation. Any held invoice number is dropped so the
// document can no longer diverge from the persisted record.
func (s *Session) Edited(now time.Time) {
	s.Issued = nil
	s.State = StateAfterEdit(s.Draft)
	s.UpdatedAt = now.UTC()
}

// Issue stores the generated invoice and resets the draft.
func (s *Session) Issue(number int64, now time.Time) {
	s.Issued = &IssuedInvoice{
		Number:  number,
		Period:  s.Draft.Period,
		Entries: s.Draft.Entries,
	}
	s.Draft = NewDraft(DefaultPeriod(now))
	s.State = StateGenerated
	s.UpdatedAt = now.UTC()
}
