package models

import "time"

// Severity grades an emergency at report time.
type Severity string

// Severity values accepted on report.
const (
	SeverityLow      Severity = "Low"
	SeverityMedium   Severity = "Medium"
	SeverityHigh     Severity = "High"
	SeverityCritical Severity = "Critical"
)

// ValidSeverity reports whether s is one of the four severity grades.
func ValidSeverity(s Severity) bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// EmergencyStatus tracks where a case sits in its lifecycle.
type EmergencyStatus string

// Emergency case lifecycle states. A case starts Active, moves to InProgress
// once a responder picks it up, and ends Resolved. Resolved is terminal.
const (
	StatusActive     EmergencyStatus = "Active"
	StatusInProgress EmergencyStatus = "InProgress"
	StatusResolved   EmergencyStatus = "Resolved"
)

// ValidStatus reports whether s is a known lifecycle state.
func ValidStatus(s EmergencyStatus) bool {
	switch s {
	case StatusActive, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

// Emergency holds one reported emergency case. IDs are assigned by the store,
// are unique for its lifetime, and strictly increase in report order.
type Emergency struct {
	ID                int             `json:"id"`
	PatientID         string          `json:"patientId"`
	PatientName       string          `json:"patientName"`
	EmergencyType     string          `json:"emergencyType"`
	Severity          Severity        `json:"severity"`
	Location          string          `json:"location"`
	Description       string          `json:"description,omitempty"`
	Status            EmergencyStatus `json:"status"`
	AssignedResponder string          `json:"assignedResponder,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
}

// EmergencyReport is the caller-supplied portion of a new case.
type EmergencyReport struct {
	EmergencyType string   `json:"emergencyType"`
	Severity      Severity `json:"severity"`
	Location      string   `json:"location"`
	Description   string   `json:"description"`
}

// EmergencyUpdate carries a partial update to a case. Nil fields mean
// "leave unchanged"; status and assignedResponder are the only mutable fields.
type EmergencyUpdate struct {
	Status            *EmergencyStatus `json:"status"`
	AssignedResponder *string          `json:"assignedResponder"`
}
