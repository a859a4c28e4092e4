package mutation

import (
	"context"

	"github.com/Otwaboy/Agaspay-Capstone-sub004/internal/api"
	"github.com/Otwaboy/Agaspay-Capstone-sub004/internal/dto"
	"github.com/Otwaboy/Agaspay-Capstone-sub004/internal/query"
	appErrors "github.com/Otwaboy/Agaspay-Capstone-sub004/pkg/errors"
)

// The operation catalog. None of these calls is idempotent-safe, so every
// Retryable flag stays false; the field exists so a future idempotent
// operation can opt in explicitly.

func payloadAs[T any](payload interface{}) (T, error) {
	typed, ok := payload.(T)
	if !ok {
		var zero T
		return zero, appErrors.Clone(appErrors.ErrValidation, "unexpected payload type")
	}
	return typed, nil
}

// ApproveConnection approves a pending connection application. Both the
// pending and the unfiltered list may contain the record, so both are dirtied.
func ApproveConnection(stores *api.Stores) Operation {
	return Operation{
		Name:  "connections.approve",
		Title: "Approve connection",
		InvalidateKeys: []query.Key{
			query.K("connections", "pending"),
			query.K("connections", "all"),
		},
		Do: func(ctx context.Context, payload interface{}) (interface{}, error) {
			req, err := payloadAs[dto.ApproveRequest](payload)
			if err != nil {
				return nil, err
			}
			return nil, stores.Connections.Approve(ctx, req)
		},
	}
}

// RejectConnection rejects a pending connection application with a reason.
func RejectConnection(stores *api.Stores) Operation {
	return Operation{
		Name:  "connections.reject",
		Title: "Reject connection",
		InvalidateKeys: []query.Key{
			query.K("connections", "pending"),
			query.K("connections", "all"),
		},
		Do: func(ctx context.Context, payload interface{}) (interface{}, error) {
			req, err := payloadAs[dto.RejectRequest](payload)
			if err != nil {
				return nil, err
			}
			return nil, stores.Connections.Reject(ctx, req)
		},
	}
}

// UpdateConnectionStatus patches a connection's lifecycle status.
func UpdateConnectionStatus(stores *api.Stores) Operation {
	return Operation{
		Name:           "connections.update_status",
		Title:          "Update connection status",
		InvalidateKeys: []query.Key{query.K("connections")},
		Do: func(ctx context.Context, payload interface{}) (interface{}, error) {
			req, err := payloadAs[dto.UpdateStatusRequest](payload)
			if err != nil {
				return nil, err
			}
			return nil, stores.Connections.UpdateStatus(ctx, req)
		},
	}
}

// DeleteConnection removes a connection record.
func DeleteConnection(stores *api.Stores) Operation {
	return Operation{
		Name:           "connections.delete",
		Title:          "Delete connection",
		InvalidateKeys: []query.Key{query.K("connections")},
		Do: func(ctx context.Context, payload interface{}) (interface{}, error) {
			req, err := payloadAs[dto.DeleteRequest](payload)
			if err != nil {
				return nil, err
			}
			return nil, stores.Connections.Delete(ctx, req)
		},
	}
}

// ApproveArchive approves an archive request. Every request list may contain
// the record regardless of its target or status filter, so the whole resource
// is dirtied, along with the collections the archival touches.
func ApproveArchive(stores *api.Stores) Operation {
	return Operation{
		Name:  "archive.approve",
		Title: "Approve archive request",
		InvalidateKeys: []query.Key{
			query.K("archive-requests"),
			query.K("connections"),
			query.K("personnel"),
			query.K("residents"),
		},
		Do: func(ctx context.Context, payload interface{}) (interface{}, error) {
			req, err := payloadAs[dto.ApproveRequest](payload)
			if err != nil {
				return nil, err
			}
			return nil, stores.Archives.Approve(ctx, req)
		},
	}
}

// RejectArchive rejects an archive request with a reason.
func RejectArchive(stores *api.Stores) Operation {
	return Operation{
		Name:  "archive.reject",
		Title: "Reject archive request",
		InvalidateKeys: []query.Key{
			query.K("archive-requests"),
		},
		Do: func(ctx context.Context, payload interface{}) (interface{}, error) {
			req, err := payloadAs[dto.RejectRequest](payload)
			if err != nil {
				return nil, err
			}
			return nil, stores.Archives.Reject(ctx, req)
		},
	}
}

// UpdateResident patches a resident's contact details.
func UpdateResident(stores *api.Stores) Operation {
	return Operation{
		Name:           "residents.update",
		Title:          "Update resident",
		InvalidateKeys: []query.Key{query.K("residents")},
		Do: func(ctx context.Context, payload interface{}) (interface{}, error) {
			req, err := payloadAs[dto.UpdateResidentRequest](payload)
			if err != nil {
				return nil, err
			}
			return nil, stores.Residents.Update(ctx, req)
		},
	}
}

// ArchiveResident archives or restores a resident record.
func ArchiveResident(stores *api.Stores) Operation {
	return Operation{
		Name:           "residents.archive",
		Title:          "Archive resident",
		InvalidateKeys: []query.Key{query.K("residents")},
		Do: func(ctx context.Context, payload interface{}) (interface{}, error) {
			req, err := payloadAs[dto.ArchiveToggleRequest](payload)
			if err != nil {
				return nil, err
			}
			return nil, stores.Residents.Archive(ctx, req)
		},
	}
}

// CreatePersonnel registers a new staff member.
func CreatePersonnel(stores *api.Stores) Operation {
	return Operation{
		Name:           "personnel.create",
		Title:          "Add personnel",
		InvalidateKeys: []query.Key{query.K("personnel")},
		Do: func(ctx context.Context, payload interface{}) (interface{}, error) {
			req, err := payloadAs[dto.CreatePersonnelRequest](payload)
			if err != nil {
				return nil, err
			}
			return stores.Personnel.Create(ctx, req)
		},
	}
}

// UpdatePersonnel patches a staff member's assignment details.
func UpdatePersonnel(stores *api.Stores) Operation {
	return Operation{
		Name:           "personnel.update",
		Title:          "Update personnel",
		InvalidateKeys: []query.Key{query.K("personnel")},
		Do: func(ctx context.Context, payload interface{}) (interface{}, error) {
			req, err := payloadAs[dto.UpdatePersonnelRequest](payload)
			if err != nil {
				return nil, err
			}
			return nil, stores.Personnel.Update(ctx, req)
		},
	}
}

// ArchivePersonnel archives or restores a staff member.
func ArchivePersonnel(stores *api.Stores) Operation {
	return Operation{
		Name:           "personnel.archive",
		Title:          "Archive personnel",
		InvalidateKeys: []query.Key{query.K("personnel")},
		Do: func(ctx context.Context, payload interface{}) (interface{}, error) {
			req, err := payloadAs[dto.ArchiveToggleRequest](payload)
			if err != nil {
				return nil, err
			}
			return nil, stores.Personnel.Archive(ctx, req)
		},
	}
}

// UpdatePersonnelStatus activates, deactivates or archives a staff member.
func UpdatePersonnelStatus(stores *api.Stores) Operation {
	return Operation{
		Name:           "personnel.update_status",
		Title:          "Update personnel status",
		InvalidateKeys: []query.Key{query.K("personnel")},
		Do: func(ctx context.Context, payload interface{}) (interface{}, error) {
			req, err := payloadAs[dto.UpdateStatusRequest](payload)
			if err != nil {
				return nil, err
			}
			return nil, stores.Personnel.UpdateStatus(ctx, req)
		},
	}
}

// MarkBillPaid settles a bill and refreshes both billing lists.
func MarkBillPaid(stores *api.Stores) Operation {
	return Operation{
		Name:  "bills.mark_paid",
		Title: "Mark bill paid",
		InvalidateKeys: []query.Key{
			query.K("bills"),
			query.K("payments"),
		},
		Do: func(ctx context.Context, payload interface{}) (interface{}, error) {
			req, err := payloadAs[dto.MarkPaidRequest](payload)
			if err != nil {
				return nil, err
			}
			return nil, stores.Billing.MarkPaid(ctx, req)
		},
	}
}

// UpdateIncidentStatus moves an incident along its workflow.
func UpdateIncidentStatus(stores *api.Stores) Operation {
	return Operation{
		Name:           "incidents.update_status",
		Title:          "Update incident status",
		InvalidateKeys: []query.Key{query.K("incidents")},
		Do: func(ctx context.Context, payload interface{}) (interface{}, error) {
			req, err := payloadAs[dto.UpdateStatusRequest](payload)
			if err != nil {
				return nil, err
			}
			return nil, stores.Incidents.UpdateStatus(ctx, req)
		},
	}
}

// AssignIncident routes an incident to a staff member.
func AssignIncident(stores *api.Stores) Operation {
	return Operation{
		Name:           "incidents.assign",
		Title:          "Assign incident",
		InvalidateKeys: []query.Key{query.K("incidents")},
		Do: func(ctx context.Context, payload interface{}) (interface{}, error) {
			req, err := payloadAs[dto.AssignIncidentRequest](payload)
			if err != nil {
				return nil, err
			}
			return nil, stores.Incidents.Assign(ctx, req)
		},
	}
}

// CreateTask schedules a field assignment.
func CreateTask(stores *api.Stores) Operation {
	return Operation{
		Name:           "tasks.create",
		Title:          "Schedule task",
		InvalidateKeys: []query.Key{query.K("tasks")},
		Do: func(ctx context.Context, payload interface{}) (interface{}, error) {
			req, err := payloadAs[dto.CreateTaskRequest](payload)
			if err != nil {
				return nil, err
			}
			return stores.Tasks.Create(ctx, req)
		},
	}
}

// UpdateTaskStatus completes or cancels a scheduled task.
func UpdateTaskStatus(stores *api.Stores) Operation {
	return Operation{
		Name:           "tasks.update_status",
		Title:          "Update task status",
		InvalidateKeys: []query.Key{query.K("tasks")},
		Do: func(ctx context.Context, payload interface{}) (interface{}, error) {
			req, err := payloadAs[dto.UpdateStatusRequest](payload)
			if err != nil {
				return nil, err
			}
			return nil, stores.Tasks.UpdateStatus(ctx, req)
		},
	}
}

// DeleteTask removes a scheduled task.
func DeleteTask(stores *api.Stores) Operation {
	return Operation{
		Name:           "tasks.delete",
		Title:          "Delete task",
		InvalidateKeys: []query.Key{query.K("tasks")},
		Do: func(ctx context.Context, payload interface{}) (interface{}, error) {
			req, err := payloadAs[dto.DeleteRequest](payload)
			if err != nil {
				return nil, err
			}
			return nil, stores.Tasks.Delete(ctx, req)
		},
	}
}

// CreateAnnouncement posts a barangay-wide notice.
func CreateAnnouncement(stores *api.Stores) Operation {
	return Operation{
		Name:           "announcements.create",
		Title:          "Post announcement",
		InvalidateKeys: []query.Key{query.K("announcements")},
		Do: func(ctx context.Context, payload interface{}) (interface{}, error) {
			req, err := payloadAs[dto.CreateAnnouncementRequest](payload)
			if err != nil {
				return nil, err
			}
			return nil, stores.Announcements.Create(ctx, req)
		},
	}
}

// DeleteAnnouncement removes a notice.
func DeleteAnnouncement(stores *api.Stores) Operation {
	return Operation{
		Name:           "announcements.delete",
		Title:          "Delete announcement",
		InvalidateKeys: []query.Key{query.K("announcements")},
		Do: func(ctx context.Context, payload interface{}) (interface{}, error) {
			req, err := payloadAs[dto.DeleteRequest](payload)
			if err != nil {
				return nil, err
			}
			return nil, stores.Announcements.Delete(ctx, req)
		},
	}
}
