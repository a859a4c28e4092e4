package api

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/Otwaboy/Agaspay-Capstone-sub004/internal/dto"
	"github.com/Otwaboy/Agaspay-Capstone-sub004/internal/models"
	"github.com/Otwaboy/Agaspay-Capstone-sub004/internal/query"
	appErrors "github.com/Otwaboy/Agaspay-Capstone-sub004/pkg/errors"
)

// Stores bundles every resource binding over one client.
type Stores struct {
	Connections   *ConnectionStore
	Residents     *ResidentStore
	Personnel     *PersonnelStore
	Archives      *ArchiveStore
	Billing       *BillingStore
	Incidents     *IncidentStore
	Tasks         *TaskStore
	Announcements *AnnouncementStore
}

// NewStores wires all resource stores to the client.
func NewStores(client *Client) *Stores {
	return &Stores{
		Connections:   &ConnectionStore{client: client},
		Residents:     &ResidentStore{client: client},
		Personnel:     &PersonnelStore{client: client},
		Archives:      &ArchiveStore{client: client},
		Billing:       &BillingStore{client: client},
		Incidents:     &IncidentStore{client: client},
		Tasks:         &TaskStore{client: client},
		Announcements: &AnnouncementStore{client: client},
	}
}

func decodeOne[T any](raw []byte, envelopeKey string) (*T, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrServer.Code, appErrors.ErrServer.Status, "unexpected response shape")
	}
	itemRaw, ok := envelope[envelopeKey]
	if !ok {
		itemRaw, ok = envelope["data"]
	}
	if !ok {
		// Some endpoints return the object bare.
		itemRaw = raw
	}
	item, err := decodeItem[T](itemRaw)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func orAll(value string) string {
	if value == "" {
		return "all"
	}
	return value
}

// ConnectionStore binds the water-connection endpoints.
type ConnectionStore struct {
	client *Client
}

// Key identifies the cached connection list for one status/zone filter pair.
// Every parameter the fetcher sends must appear here, or two filters would
// share one entry.
func (s *ConnectionStore) Key(status, zone string) query.Key {
	return query.K("connections", orAll(status), orAll(zone))
}

// Fetch builds the query-cache fetcher for the filtered list.
func (s *ConnectionStore) Fetch(status, zone string) query.Fetcher {
	return func(ctx context.Context) (interface{}, error) {
		return s.List(ctx, status, zone)
	}
}

// Restore decodes a persisted snapshot of the list.
func (s *ConnectionStore) Restore() query.Restorer {
	return restorer[models.Connection]
}

// List fetches connections, optionally filtered by status and zone.
func (s *ConnectionStore) List(ctx context.Context, status, zone string) (ResultSet[models.Connection], error) {
	params := url.Values{}
	if status != "" {
		params.Set("status", status)
	}
	if zone != "" {
		params.Set("zone", zone)
	}
	raw, err := s.client.Get(ctx, "/connections", params)
	if err != nil {
		return ResultSet[models.Connection]{}, err
	}
	return decodeList[models.Connection](raw, "connections")
}

// Get fetches a single connection.
func (s *ConnectionStore) Get(ctx context.Context, id string) (*models.Connection, error) {
	raw, err := s.client.Get(ctx, "/connections/"+id, nil)
	if err != nil {
		return nil, err
	}
	return decodeOne[models.Connection](raw, "connection")
}

// Approve approves a pending connection application.
func (s *ConnectionStore) Approve(ctx context.Context, req dto.ApproveRequest) error {
	if err := dto.Validate(req); err != nil {
		return err
	}
	_, err := s.client.Do(ctx, "POST", "/connections/"+req.ID+"/approve", nil)
	return err
}

// Reject rejects a pending connection application with a reason.
func (s *ConnectionStore) Reject(ctx context.Context, req dto.RejectRequest) error {
	if err := dto.Validate(req); err != nil {
		return err
	}
	_, err := s.client.Do(ctx, "PATCH", "/connections/"+req.ID+"/reject", map[string]string{"reason": req.Reason})
	return err
}

// UpdateStatus patches a connection's status.
func (s *ConnectionStore) UpdateStatus(ctx context.Context, req dto.UpdateStatusRequest) error {
	if err := dto.Validate(req); err != nil {
		return err
	}
	_, err := s.client.Do(ctx, "PATCH", "/connections/"+req.ID+"/status", map[string]string{"status": req.Status})
	return err
}

// Delete removes a connection record.
func (s *ConnectionStore) Delete(ctx context.Context, req dto.DeleteRequest) error {
	if err := dto.Validate(req); err != nil {
		return err
	}
	_, err := s.client.Do(ctx, "DELETE", "/connections/"+req.ID, nil)
	return err
}

// ResidentStore binds the resident endpoints.
type ResidentStore struct {
	client *Client
}

func (s *ResidentStore) Key(status string) query.Key {
	return query.K("residents", orAll(status))
}

func (s *ResidentStore) Fetch(status string) query.Fetcher {
	return func(ctx context.Context) (interface{}, error) {
		return s.List(ctx, status)
	}
}

func (s *ResidentStore) Restore() query.Restorer {
	return restorer[models.Resident]
}

func (s *ResidentStore) List(ctx context.Context, status string) (ResultSet[models.Resident], error) {
	params := url.Values{}
	if status != "" {
		params.Set("status", status)
	}
	raw, err := s.client.Get(ctx, "/residents", params)
	if err != nil {
		return ResultSet[models.Resident]{}, err
	}
	return decodeList[models.Resident](raw, "residents")
}

func (s *ResidentStore) Get(ctx context.Context, id string) (*models.Resident, error) {
	raw, err := s.client.Get(ctx, "/residents/"+id, nil)
	if err != nil {
		return nil, err
	}
	return decodeOne[models.Resident](raw, "resident")
}

// Update patches a resident's contact details.
func (s *ResidentStore) Update(ctx context.Context, req dto.UpdateResidentRequest) error {
	if err := dto.Validate(req); err != nil {
		return err
	}
	_, err := s.client.Do(ctx, "PATCH", "/residents/"+req.ID, req)
	return err
}

// Archive archives or restores a resident record.
func (s *ResidentStore) Archive(ctx context.Context, req dto.ArchiveToggleRequest) error {
	if err := dto.Validate(req); err != nil {
		return err
	}
	_, err := s.client.Do(ctx, "PATCH", "/residents/"+req.ID+"/archive", map[string]bool{"unarchive": req.Unarchive})
	return err
}

// PersonnelStore binds the personnel endpoints.
type PersonnelStore struct {
	client *Client
}

func (s *PersonnelStore) Key(status string) query.Key {
	return query.K("personnel", orAll(status))
}

func (s *PersonnelStore) Fetch(status string) query.Fetcher {
	return func(ctx context.Context) (interface{}, error) {
		return s.List(ctx, status)
	}
}

func (s *PersonnelStore) Restore() query.Restorer {
	return restorer[models.Personnel]
}

func (s *PersonnelStore) List(ctx context.Context, status string) (ResultSet[models.Personnel], error) {
	params := url.Values{}
	if status != "" {
		params.Set("status", status)
	}
	raw, err := s.client.Get(ctx, "/personnel", params)
	if err != nil {
		return ResultSet[models.Personnel]{}, err
	}
	return decodeList[models.Personnel](raw, "personnel")
}

func (s *PersonnelStore) Get(ctx context.Context, id string) (*models.Personnel, error) {
	raw, err := s.client.Get(ctx, "/personnel/"+id, nil)
	if err != nil {
		return nil, err
	}
	return decodeOne[models.Personnel](raw, "personnel")
}

// Create registers a new staff member.
func (s *PersonnelStore) Create(ctx context.Context, req dto.CreatePersonnelRequest) (*models.Personnel, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	raw, err := s.client.Do(ctx, "POST", "/personnel", req)
	if err != nil {
		return nil, err
	}
	return decodeOne[models.Personnel](raw, "personnel")
}

// Update patches a staff member's assignment details.
func (s *PersonnelStore) Update(ctx context.Context, req dto.UpdatePersonnelRequest) error {
	if err := dto.Validate(req); err != nil {
		return err
	}
	_, err := s.client.Do(ctx, "PATCH", "/personnel/"+req.ID, req)
	return err
}

func (s *PersonnelStore) UpdateStatus(ctx context.Context, req dto.UpdateStatusRequest) error {
	if err := dto.Validate(req); err != nil {
		return err
	}
	_, err := s.client.Do(ctx, "PATCH", "/personnel/"+req.ID+"/status", map[string]string{"status": req.Status})
	return err
}

// Archive archives or restores a staff member.
func (s *PersonnelStore) Archive(ctx context.Context, req dto.ArchiveToggleRequest) error {
	if err := dto.Validate(req); err != nil {
		return err
	}
	_, err := s.client.Do(ctx, "PATCH", "/personnel/"+req.ID+"/archive", map[string]bool{"unarchive": req.Unarchive})
	return err
}

// ArchiveStore binds the archive-request review endpoints.
type ArchiveStore struct {
	client *Client
}

func (s *ArchiveStore) Key(target, status string) query.Key {
	return query.K("archive-requests", orAll(target), orAll(status))
}

func (s *ArchiveStore) Fetch(target, status string) query.Fetcher {
	return func(ctx context.Context) (interface{}, error) {
		return s.List(ctx, target, status)
	}
}

func (s *ArchiveStore) Restore() query.Restorer {
	return restorer[models.ArchiveRequest]
}

func (s *ArchiveStore) List(ctx context.Context, target, status string) (ResultSet[models.ArchiveRequest], error) {
	params := url.Values{}
	if target != "" {
		params.Set("target", target)
	}
	if status != "" {
		params.Set("status", status)
	}
	raw, err := s.client.Get(ctx, "/archive-requests", params)
	if err != nil {
		return ResultSet[models.ArchiveRequest]{}, err
	}
	return decodeList[models.ArchiveRequest](raw, "requests")
}

func (s *ArchiveStore) Approve(ctx context.Context, req dto.ApproveRequest) error {
	if err := dto.Validate(req); err != nil {
		return err
	}
	_, err := s.client.Do(ctx, "POST", "/archive-requests/"+req.ID+"/approve", nil)
	return err
}

func (s *ArchiveStore) Reject(ctx context.Context, req dto.RejectRequest) error {
	if err := dto.Validate(req); err != nil {
		return err
	}
	_, err := s.client.Do(ctx, "PATCH", "/archive-requests/"+req.ID+"/reject", map[string]string{"reason": req.Reason})
	return err
}

// BillingStore binds the bill and payment endpoints.
type BillingStore struct {
	client *Client
}

func (s *BillingStore) BillsKey(period, status string) query.Key {
	return query.K("bills", orAll(period), orAll(status))
}

func (s *BillingStore) PaymentsKey(period string) query.Key {
	return query.K("payments", orAll(period))
}

func (s *BillingStore) FetchBills(period, status string) query.Fetcher {
	return func(ctx context.Context) (interface{}, error) {
		return s.ListBills(ctx, period, status)
	}
}

func (s *BillingStore) FetchPayments(period string) query.Fetcher {
	return func(ctx context.Context) (interface{}, error) {
		return s.ListPayments(ctx, period)
	}
}

func (s *BillingStore) RestoreBills() query.Restorer {
	return restorer[models.Bill]
}

func (s *BillingStore) RestorePayments() query.Restorer {
	return restorer[models.Payment]
}

func (s *BillingStore) ListBills(ctx context.Context, period, status string) (ResultSet[models.Bill], error) {
	params := url.Values{}
	if period != "" {
		params.Set("period", period)
	}
	if status != "" {
		params.Set("status", status)
	}
	raw, err := s.client.Get(ctx, "/bills", params)
	if err != nil {
		return ResultSet[models.Bill]{}, err
	}
	return decodeList[models.Bill](raw, "bills")
}

func (s *BillingStore) ListPayments(ctx context.Context, period string) (ResultSet[models.Payment], error) {
	params := url.Values{}
	if period != "" {
		params.Set("period", period)
	}
	raw, err := s.client.Get(ctx, "/payments", params)
	if err != nil {
		return ResultSet[models.Payment]{}, err
	}
	return decodeList[models.Payment](raw, "payments")
}

// GetBill fetches a single bill.
func (s *BillingStore) GetBill(ctx context.Context, id string) (*models.Bill, error) {
	raw, err := s.client.Get(ctx, "/bills/"+id, nil)
	if err != nil {
		return nil, err
	}
	return decodeOne[models.Bill](raw, "bill")
}

// MarkPaid settles a bill.
func (s *BillingStore) MarkPaid(ctx context.Context, req dto.MarkPaidRequest) error {
	if err := dto.Validate(req); err != nil {
		return err
	}
	_, err := s.client.Do(ctx, "PATCH", "/bills/"+req.BillID+"/pay", map[string]interface{}{
		"amount": req.Amount,
		"method": req.Method,
	})
	return err
}

// IncidentStore binds the incident endpoints.
type IncidentStore struct {
	client *Client
}

func (s *IncidentStore) Key(status string) query.Key {
	return query.K("incidents", orAll(status))
}

func (s *IncidentStore) Fetch(status string) query.Fetcher {
	return func(ctx context.Context) (interface{}, error) {
		return s.List(ctx, status)
	}
}

func (s *IncidentStore) Restore() query.Restorer {
	return restorer[models.Incident]
}

func (s *IncidentStore) List(ctx context.Context, status string) (ResultSet[models.Incident], error) {
	params := url.Values{}
	if status != "" {
		params.Set("status", status)
	}
	raw, err := s.client.Get(ctx, "/incidents", params)
	if err != nil {
		return ResultSet[models.Incident]{}, err
	}
	return decodeList[models.Incident](raw, "incidents")
}

func (s *IncidentStore) Get(ctx context.Context, id string) (*models.Incident, error) {
	raw, err := s.client.Get(ctx, "/incidents/"+id, nil)
	if err != nil {
		return nil, err
	}
	return decodeOne[models.Incident](raw, "incident")
}

func (s *IncidentStore) UpdateStatus(ctx context.Context, req dto.UpdateStatusRequest) error {
	if err := dto.Validate(req); err != nil {
		return err
	}
	_, err := s.client.Do(ctx, "PATCH", "/incidents/"+req.ID+"/status", map[string]string{"status": req.Status})
	return err
}

func (s *IncidentStore) Assign(ctx context.Context, req dto.AssignIncidentRequest) error {
	if err := dto.Validate(req); err != nil {
		return err
	}
	_, err := s.client.Do(ctx, "PATCH", "/incidents/"+req.ID+"/assign", map[string]string{"personnelId": req.PersonnelID})
	return err
}

// TaskStore binds the scheduling endpoints.
type TaskStore struct {
	client *Client
}

func (s *TaskStore) Key(status string) query.Key {
	return query.K("tasks", orAll(status))
}

func (s *TaskStore) Fetch(status string) query.Fetcher {
	return func(ctx context.Context) (interface{}, error) {
		return s.List(ctx, status)
	}
}

func (s *TaskStore) Restore() query.Restorer {
	return restorer[models.Task]
}

func (s *TaskStore) List(ctx context.Context, status string) (ResultSet[models.Task], error) {
	params := url.Values{}
	if status != "" {
		params.Set("status", status)
	}
	raw, err := s.client.Get(ctx, "/tasks", params)
	if err != nil {
		return ResultSet[models.Task]{}, err
	}
	return decodeList[models.Task](raw, "tasks")
}

func (s *TaskStore) Create(ctx context.Context, req dto.CreateTaskRequest) (*models.Task, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	raw, err := s.client.Do(ctx, "POST", "/tasks", req)
	if err != nil {
		return nil, err
	}
	return decodeOne[models.Task](raw, "task")
}

func (s *TaskStore) UpdateStatus(ctx context.Context, req dto.UpdateStatusRequest) error {
	if err := dto.Validate(req); err != nil {
		return err
	}
	_, err := s.client.Do(ctx, "PATCH", "/tasks/"+req.ID+"/status", map[string]string{"status": req.Status})
	return err
}

func (s *TaskStore) Delete(ctx context.Context, req dto.DeleteRequest) error {
	if err := dto.Validate(req); err != nil {
		return err
	}
	_, err := s.client.Do(ctx, "DELETE", "/tasks/"+req.ID, nil)
	return err
}

// AnnouncementStore binds the announcement endpoints, which nest their
// collection under the generic "data" key.
type AnnouncementStore struct {
	client *Client
}

func (s *AnnouncementStore) Key() query.Key {
	return query.K("announcements")
}

func (s *AnnouncementStore) Fetch() query.Fetcher {
	return func(ctx context.Context) (interface{}, error) {
		return s.List(ctx)
	}
}

func (s *AnnouncementStore) Restore() query.Restorer {
	return restorer[models.Announcement]
}

func (s *AnnouncementStore) List(ctx context.Context) (ResultSet[models.Announcement], error) {
	raw, err := s.client.Get(ctx, "/announcements", nil)
	if err != nil {
		return ResultSet[models.Announcement]{}, err
	}
	return decodeList[models.Announcement](raw, "data")
}

func (s *AnnouncementStore) Create(ctx context.Context, req dto.CreateAnnouncementRequest) error {
	if err := dto.Validate(req); err != nil {
		return err
	}
	_, err := s.client.Do(ctx, "POST", "/announcements", req)
	return err
}

func (s *AnnouncementStore) Delete(ctx context.Context, req dto.DeleteRequest) error {
	if err := dto.Validate(req); err != nil {
		return err
	}
	_, err := s.client.Do(ctx, "DELETE", "/announcements/"+req.ID, nil)
	return err
}
