package emergency

import (
	"errors"
	"fmt"
	"strings"

	"github.com/medipulse/medipulse-api/models"
)

// Lifecycle errors surfaced to the HTTP boundary.
var (
	// ErrForbidden means the caller's role lacks permission for the operation.
	ErrForbidden = errors.New("access denied")

	// ErrInvalidTransition means the requested status change is not reachable
	// from the case's current state.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ValidationError reports a missing or malformed field on a report.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid emergency report: %s", e.Field)
}

// Service is the access-controlled, transition-validated façade over the case
// store. Cases move Active -> InProgress -> Resolved and never backward;
// Resolved is terminal.
type Service struct {
	Store *Store
}

// NewService returns a lifecycle service over store.
func NewService(store *Store) *Service {
	return &Service{Store: store}
}

// Report validates the report and inserts a new Active case attributed to the
// caller. Any authenticated role may report.
func (s *Service) Report(caller models.Caller, report models.EmergencyReport) (models.Emergency, error) {
	if strings.TrimSpace(report.EmergencyType) == "" {
		return models.Emergency{}, &ValidationError{Field: "emergencyType is required"}
	}
	if strings.TrimSpace(report.Location) == "" {
		return models.Emergency{}, &ValidationError{Field: "location is required"}
	}
	if !models.ValidSeverity(report.Severity) {
		return models.Emergency{}, &ValidationError{Field: "severity must be one of Low, Medium, High, Critical"}
	}

	return s.Store.Insert(models.Emergency{
		PatientID:     caller.ID,
		PatientName:   caller.Name,
		EmergencyType: report.EmergencyType,
		Severity:      report.Severity,
		Location:      report.Location,
		Description:   report.Description,
		Status:        models.StatusActive,
	}), nil
}

// List returns every case in report order. Doctors and admins only; the
// service applies no filtering.
func (s *Service) List(caller models.Caller) ([]models.Emergency, error) {
	if !caller.IsResponder() {
		return nil, ErrForbidden
	}
	return s.Store.GetAll(), nil
}

// UpdateStatus applies a partial update to a case. Doctors and admins only.
// Absent fields mean "leave unchanged"; with both fields absent the call is a
// no-op returning the current snapshot. A transition to InProgress assigns the
// supplied responder, or the caller when none is given. The transition guard
// runs inside the store's lock, so of two racing resolvers exactly one
// succeeds and the other observes the terminal state.
func (s *Service) UpdateStatus(caller models.Caller, id int, update models.EmergencyUpdate) (models.Emergency, error) {
	if !caller.IsResponder() {
		return models.Emergency{}, ErrForbidden
	}

	if update.Status == nil && update.AssignedResponder == nil {
		return s.Store.GetByID(id)
	}

	if update.Status != nil && !models.ValidStatus(*update.Status) {
		return models.Emergency{}, &ValidationError{Field: "status must be one of Active, InProgress, Resolved"}
	}

	return s.Store.Update(id, func(e *models.Emergency) error {
		if update.Status != nil {
			if !transitionAllowed(e.Status, *update.Status) {
				return ErrInvalidTransition
			}
			e.Status = *update.Status
			if *update.Status == models.StatusInProgress && update.AssignedResponder == nil {
				e.AssignedResponder = caller.ID
			}
		} else if e.Status != models.StatusInProgress {
			// Responder-only change. Reassignment is only meaningful while a
			// case is being worked: Active cases must have no responder and
			// Resolved is terminal.
			return ErrInvalidTransition
		}
		if update.AssignedResponder != nil {
			e.AssignedResponder = *update.AssignedResponder
		}
		return nil
	})
}

// transitionAllowed encodes the forward-only state machine:
// Active -> InProgress -> Resolved.
func transitionAllowed(from, to models.EmergencyStatus) bool {
	switch from {
	case models.StatusActive:
		return to == models.StatusInProgress
	case models.StatusInProgress:
		return to == models.StatusResolved
	}
	return false
}
