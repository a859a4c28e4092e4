package models

import "time"

// ResidentStatus tracks whether a resident record is live or archived.
type ResidentStatus string

const (
	ResidentStatusActive   ResidentStatus = "active"
	ResidentStatusArchived ResidentStatus = "archived"
)

// Resident is a barangay resident on record with the waterworks.
type Resident struct {
	ID           string         `json:"id"`
	FirstName    string         `json:"firstName"`
	LastName     string         `json:"lastName"`
	Zone         string         `json:"zone"`
	ContactNo    string         `json:"contactNo"`
	Email        string         `json:"email,omitempty"`
	Status       ResidentStatus `json:"status"`
	RegisteredAt time.Time      `json:"registeredAt"`
}

// FullName joins the name parts for display and search.
func (r Resident) FullName() string {
	if r.FirstName == "" {
		return r.LastName
	}
	if r.LastName == "" {
		return r.FirstName
	}
	return r.FirstName + " " + r.LastName
}
