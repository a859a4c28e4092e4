package models

import "time"

// ConnectionStatus enumerates water connection lifecycle states.
type ConnectionStatus string

const (
	ConnectionStatusPending      ConnectionStatus = "pending"
	ConnectionStatusApproved     ConnectionStatus = "approved"
	ConnectionStatusRejected     ConnectionStatus = "rejected"
	ConnectionStatusActive       ConnectionStatus = "active"
	ConnectionStatusDisconnected ConnectionStatus = "disconnected"
)

// ConnectionType distinguishes household from commercial hookups.
type ConnectionType string

const (
	ConnectionTypeResidential ConnectionType = "residential"
	ConnectionTypeCommercial  ConnectionType = "commercial"
)

// Connection is one water service connection as the backend exposes it.
type Connection struct {
	ID            string           `json:"id"`
	AccountNumber string           `json:"accountNumber"`
	MeterNumber   string           `json:"meterNumber"`
	ResidentName  string           `json:"residentName"`
	Zone          string           `json:"zone"`
	Type          ConnectionType   `json:"type"`
	Status        ConnectionStatus `json:"status"`
	RejectReason  string           `json:"rejectReason,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
}
