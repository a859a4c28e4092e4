package models

import "time"

// PersonnelRole enumerates waterworks staff roles.
type PersonnelRole string

const (
	RoleMeterReader PersonnelRole = "meter_reader"
	RolePlumber     PersonnelRole = "plumber"
	RoleCollector   PersonnelRole = "collector"
	RoleSecretary   PersonnelRole = "secretary"
)

// PersonnelStatus tracks staff availability and archival.
type PersonnelStatus string

const (
	PersonnelStatusActive   PersonnelStatus = "active"
	PersonnelStatusInactive PersonnelStatus = "inactive"
	PersonnelStatusArchived PersonnelStatus = "archived"
)

// Personnel is one waterworks staff member.
type Personnel struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Role      PersonnelRole   `json:"role"`
	Zone      string          `json:"zone"`
	ContactNo string          `json:"contactNo"`
	Status    PersonnelStatus `json:"status"`
	HiredAt   time.Time       `json:"hiredAt"`
}
