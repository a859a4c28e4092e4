package models

import "time"

// IncidentStatus enumerates incident workflow states.
type IncidentStatus string

const (
	IncidentStatusReported   IncidentStatus = "reported"
	IncidentStatusInProgress IncidentStatus = "in_progress"
	IncidentStatusResolved   IncidentStatus = "resolved"
)

// Incident is a reported field problem (leak, broken meter, outage).
type Incident struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Zone        string         `json:"zone"`
	Status      IncidentStatus `json:"status"`
	AssignedTo  string         `json:"assignedTo,omitempty"`
	ReportedBy  string         `json:"reportedBy"`
	ReportedAt  time.Time      `json:"reportedAt"`
	ResolvedAt  *time.Time     `json:"resolvedAt,omitempty"`
}
