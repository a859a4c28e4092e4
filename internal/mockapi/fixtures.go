package mockapi

import (
	"time"

	"github.com/Otwaboy/Agaspay-Capstone-sub004/internal/models"
)

// Fixtures is the in-memory dataset the mock backend serves. It imitates the
// production API closely enough for the console and its integration tests.
type Fixtures struct {
	Connections   []models.Connection
	Residents     []models.Resident
	Personnel     []models.Personnel
	Archives      []models.ArchiveRequest
	Bills         []models.Bill
	Payments      []models.Payment
	Incidents     []models.Incident
	Tasks         []models.Task
	Announcements []models.Announcement
}

// SeedFixtures returns a small but representative dataset spanning every
// zone, status and workflow state the console renders.
func SeedFixtures() *Fixtures {
	now := time.Date(2026, 8, 1, 8, 0, 0, 0, time.UTC)

	return &Fixtures{
		Connections: []models.Connection{
			{ID: "con-001", AccountNumber: "ACC-1001", MeterNumber: "MTR-5001", ResidentName: "Maria Santos", Zone: "zone-1", Type: models.ConnectionTypeResidential, Status: models.ConnectionStatusActive, CreatedAt: now.AddDate(0, -6, 0)},
			{ID: "con-002", AccountNumber: "ACC-1002", MeterNumber: "MTR-5002", ResidentName: "Jose Ramos", Zone: "zone-2", Type: models.ConnectionTypeResidential, Status: models.ConnectionStatusPending, CreatedAt: now.AddDate(0, 0, -3)},
			{ID: "con-003", AccountNumber: "ACC-1003", MeterNumber: "MTR-5003", ResidentName: "Ana Dela Cruz", Zone: "zone-1", Type: models.ConnectionTypeCommercial, Status: models.ConnectionStatusPending, CreatedAt: now.AddDate(0, 0, -1)},
			{ID: "con-004", AccountNumber: "ACC-1004", MeterNumber: "MTR-5004", ResidentName: "Pedro Bautista", Zone: "zone-3", Type: models.ConnectionTypeResidential, Status: models.ConnectionStatusDisconnected, CreatedAt: now.AddDate(-1, 0, 0)},
		},
		Residents: []models.Resident{
			{ID: "res-001", FirstName: "Maria", LastName: "Santos", Zone: "zone-1", ContactNo: "0917-111-0001", Status: models.ResidentStatusActive, RegisteredAt: now.AddDate(-2, 0, 0)},
			{ID: "res-002", FirstName: "Jose", LastName: "Ramos", Zone: "zone-2", ContactNo: "0917-111-0002", Status: models.ResidentStatusActive, RegisteredAt: now.AddDate(-1, -3, 0)},
			{ID: "res-003", FirstName: "Lola", LastName: "Reyes", Zone: "zone-3", ContactNo: "0917-111-0003", Status: models.ResidentStatusArchived, RegisteredAt: now.AddDate(-3, 0, 0)},
		},
		Personnel: []models.Personnel{
			{ID: "per-001", Name: "Ramon Garcia", Role: models.RoleMeterReader, Zone: "zone-1", ContactNo: "0918-222-0001", Status: models.PersonnelStatusActive, HiredAt: now.AddDate(-2, 0, 0)},
			{ID: "per-002", Name: "Liza Cruz", Role: models.RoleCollector, Zone: "zone-2", ContactNo: "0918-222-0002", Status: models.PersonnelStatusActive, HiredAt: now.AddDate(-1, 0, 0)},
			{ID: "per-003", Name: "Tomas Lim", Role: models.RolePlumber, Zone: "zone-3", ContactNo: "0918-222-0003", Status: models.PersonnelStatusInactive, HiredAt: now.AddDate(0, -8, 0)},
		},
		Archives: []models.ArchiveRequest{
			{ID: "arc-001", Target: models.ArchiveTargetConnection, TargetID: "con-004", TargetName: "Pedro Bautista", Reason: "disconnected for over a year", Status: models.ArchiveStatusPending, RequestedBy: "secretary", RequestedAt: now.AddDate(0, 0, -2)},
			{ID: "arc-002", Target: models.ArchiveTargetPersonnel, TargetID: "per-003", TargetName: "Tomas Lim", Reason: "resigned effective last month", Status: models.ArchiveStatusPending, RequestedBy: "secretary", RequestedAt: now.AddDate(0, 0, -1)},
		},
		Bills: []models.Bill{
			{ID: "bil-001", AccountNumber: "ACC-1001", ResidentName: "Maria Santos", Zone: "zone-1", Period: "2026-07", CubicMeters: 18.5, Amount: 370, Status: models.BillStatusPaid, DueDate: now.AddDate(0, 0, 14)},
			{ID: "bil-002", AccountNumber: "ACC-1002", ResidentName: "Jose Ramos", Zone: "zone-2", Period: "2026-07", CubicMeters: 24, Amount: 480, Status: models.BillStatusUnpaid, DueDate: now.AddDate(0, 0, 14)},
			{ID: "bil-003", AccountNumber: "ACC-1004", ResidentName: "Pedro Bautista", Zone: "zone-3", Period: "2026-07", CubicMeters: 9, Amount: 180, Status: models.BillStatusOverdue, DueDate: now.AddDate(0, 0, -16)},
		},
		Payments: []models.Payment{
			{ID: "pay-001", BillID: "bil-001", AccountNumber: "ACC-1001", Amount: 370, Method: "cash", ReceivedBy: "Liza Cruz", PaidAt: now.AddDate(0, 0, -5)},
		},
		Incidents: []models.Incident{
			{ID: "inc-001", Title: "Main line leak", Description: "Leak near the zone 1 pump house", Zone: "zone-1", Status: models.IncidentStatusInProgress, AssignedTo: "Tomas Lim", ReportedBy: "Maria Santos", ReportedAt: now.AddDate(0, 0, -4)},
			{ID: "inc-002", Title: "Broken meter", Description: "Meter MTR-5002 stuck", Zone: "zone-2", Status: models.IncidentStatusReported, ReportedBy: "Jose Ramos", ReportedAt: now.AddDate(0, 0, -1)},
		},
		Tasks: []models.Task{
			{ID: "tsk-001", Title: "Zone 1 reading round", Kind: "meter_reading", Zone: "zone-1", AssignedTo: "Ramon Garcia", Status: models.TaskStatusScheduled, ScheduledFor: now.AddDate(0, 0, 7), CreatedAt: now},
			{ID: "tsk-002", Title: "Repair pump house leak", Kind: "repair", Zone: "zone-1", AssignedTo: "Tomas Lim", Status: models.TaskStatusScheduled, ScheduledFor: now.AddDate(0, 0, 2), CreatedAt: now},
		},
		Announcements: []models.Announcement{
			{ID: "ann-001", Title: "Scheduled interruption", Body: "Water service interruption in zone 3 on Saturday morning for line flushing.", PostedBy: "admin", PostedAt: now.AddDate(0, 0, -7)},
		},
	}
}
