package dto

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	appErrors "github.com/Otwaboy/Agaspay-Capstone-sub004/pkg/errors"
)

// MinReasonLength is the client-side floor for rejection reasons. The backend
// enforces its own minimum independently.
const MinReasonLength = 10

// ApproveRequest targets a pending record for approval.
type ApproveRequest struct {
	ID string `json:"id" validate:"required"`
}

// RejectRequest targets a pending record for rejection with a mandatory reason.
type RejectRequest struct {
	ID     string `json:"id" validate:"required"`
	Reason string `json:"reason" validate:"required,min=10"`
}

// UpdateStatusRequest patches a record's status field.
type UpdateStatusRequest struct {
	ID     string `json:"id" validate:"required"`
	Status string `json:"status" validate:"required"`
}

// DeleteRequest removes a record.
type DeleteRequest struct {
	ID string `json:"id" validate:"required"`
}

// UpdateResidentRequest patches a resident's mutable contact details.
type UpdateResidentRequest struct {
	ID        string `json:"id" validate:"required"`
	ContactNo string `json:"contactNo,omitempty"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
	Zone      string `json:"zone,omitempty"`
}

// CreatePersonnelRequest registers a new staff member.
type CreatePersonnelRequest struct {
	Name      string `json:"name" validate:"required"`
	Role      string `json:"role" validate:"required,oneof=meter_reader plumber collector secretary"`
	Zone      string `json:"zone" validate:"required"`
	ContactNo string `json:"contactNo" validate:"required"`
}

// UpdatePersonnelRequest patches a staff member's assignment details.
type UpdatePersonnelRequest struct {
	ID        string `json:"id" validate:"required"`
	Zone      string `json:"zone,omitempty"`
	ContactNo string `json:"contactNo,omitempty"`
}

// ArchiveToggleRequest archives or restores a record.
type ArchiveToggleRequest struct {
	ID        string `json:"id" validate:"required"`
	Unarchive bool   `json:"unarchive"`
}

// MarkPaidRequest settles a bill.
type MarkPaidRequest struct {
	BillID string  `json:"billId" validate:"required"`
	Amount float64 `json:"amount" validate:"required,gt=0"`
	Method string  `json:"method" validate:"required"`
}

// AssignIncidentRequest routes an incident to a staff member.
type AssignIncidentRequest struct {
	ID          string `json:"id" validate:"required"`
	PersonnelID string `json:"personnelId" validate:"required"`
}

// CreateTaskRequest schedules a field assignment.
type CreateTaskRequest struct {
	Title        string    `json:"title" validate:"required"`
	Kind         string    `json:"kind" validate:"required"`
	Zone         string    `json:"zone" validate:"required"`
	AssignedTo   string    `json:"assignedTo" validate:"required"`
	ScheduledFor time.Time `json:"scheduledFor" validate:"required"`
}

// CreateAnnouncementRequest posts a barangay-wide notice.
type CreateAnnouncementRequest struct {
	Title string `json:"title" validate:"required"`
	Body  string `json:"body" validate:"required,min=10"`
}

var validate = validator.New()

// Validate checks a payload's tags and converts failures into the shared
// validation error with a readable field message.
func Validate(payload interface{}) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}
	if fields, ok := err.(validator.ValidationErrors); ok && len(fields) > 0 {
		f := fields[0]
		return appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("field %s failed on %s", f.Field(), f.Tag()))
	}
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
}
