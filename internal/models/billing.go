package models

import "time"

// BillStatus enumerates billing states.
type BillStatus string

const (
	BillStatusUnpaid  BillStatus = "unpaid"
	BillStatusPaid    BillStatus = "paid"
	BillStatusOverdue BillStatus = "overdue"
)

// Bill is one billing-period charge for a connection.
type Bill struct {
	ID            string     `json:"id"`
	AccountNumber string     `json:"accountNumber"`
	ResidentName  string     `json:"residentName"`
	Zone          string     `json:"zone"`
	Period        string     `json:"period"`
	CubicMeters   float64    `json:"cubicMeters"`
	Amount        float64    `json:"amount"`
	Status        BillStatus `json:"status"`
	DueDate       time.Time  `json:"dueDate"`
	PaidAt        *time.Time `json:"paidAt,omitempty"`
}

// Payment records a settled bill amount.
type Payment struct {
	ID            string    `json:"id"`
	BillID        string    `json:"billId"`
	AccountNumber string    `json:"accountNumber"`
	Amount        float64   `json:"amount"`
	Method        string    `json:"method"`
	ReceivedBy    string    `json:"receivedBy"`
	PaidAt        time.Time `json:"paidAt"`
}
