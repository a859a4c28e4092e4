package models

import "time"

// ArchiveTarget names the entity kind an archive request covers.
type ArchiveTarget string

const (
	ArchiveTargetConnection ArchiveTarget = "connection"
	ArchiveTargetPersonnel  ArchiveTarget = "personnel"
	ArchiveTargetResident   ArchiveTarget = "resident"
)

// ArchiveStatus captures review states for archive requests.
type ArchiveStatus string

const (
	ArchiveStatusPending  ArchiveStatus = "pending"
	ArchiveStatusApproved ArchiveStatus = "approved"
	ArchiveStatusRejected ArchiveStatus = "rejected"
)

// ArchiveRequest is a pending request to archive or unarchive a record,
// reviewed by an admin before taking effect.
type ArchiveRequest struct {
	ID           string        `json:"id"`
	Target       ArchiveTarget `json:"target"`
	TargetID     string        `json:"targetId"`
	TargetName   string        `json:"targetName"`
	Unarchive    bool          `json:"unarchive"`
	Reason       string        `json:"reason"`
	RejectReason string        `json:"rejectReason,omitempty"`
	Status       ArchiveStatus `json:"status"`
	RequestedBy  string        `json:"requestedBy"`
	RequestedAt  time.Time     `json:"requestedAt"`
	ReviewedBy   *string       `json:"reviewedBy,omitempty"`
	ReviewedAt   *time.Time    `json:"reviewedAt,omitempty"`
}
