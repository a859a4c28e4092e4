package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Otwaboy/Agaspay-Capstone-sub004/internal/dto"
	"github.com/Otwaboy/Agaspay-Capstone-sub004/internal/mockapi"
	"github.com/Otwaboy/Agaspay-Capstone-sub004/pkg/config"
	appErrors "github.com/Otwaboy/Agaspay-Capstone-sub004/pkg/errors"
)

const testSecret = "test_secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestBackend(t *testing.T) (*httptest.Server, config.APIConfig) {
	t.Helper()
	mockCfg := config.MockConfig{JWTSecret: testSecret, TokenTTL: time.Hour}
	server := mockapi.NewServer(mockCfg, mockapi.SeedFixtures(), nil, nil)
	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)
	return ts, config.APIConfig{BaseURL: ts.URL + "/api/v1", Timeout: 5 * time.Second}
}

func loginToken(t *testing.T, cfg config.APIConfig) string {
	t.Helper()
	anon := NewClient(cfg, nil, nil)
	raw, err := anon.Do(context.Background(), "POST", "/auth/login", map[string]string{
		"username": "admin",
		"password": "water123",
	})
	require.NoError(t, err)

	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	require.NotEmpty(t, body.Token)
	return body.Token
}

func newAuthedStores(t *testing.T) (*Stores, config.APIConfig) {
	_, cfg := newTestBackend(t)
	token := loginToken(t, cfg)
	client := NewClient(cfg, StaticTokenSource(token), nil)
	return NewStores(client), cfg
}

func TestListConnectionsCanonicalizesIDs(t *testing.T) {
	stores, _ := newAuthedStores(t)

	rs, err := stores.Connections.List(context.Background(), "", "")
	require.NoError(t, err)
	require.Len(t, rs.Items, 4)
	for _, conn := range rs.Items {
		assert.NotEmpty(t, conn.ID, "wire _id must surface as the canonical id")
	}
	require.NotNil(t, rs.Meta)
	assert.Equal(t, 4, rs.Meta.TotalCount)
}

func TestListConnectionsStatusFilter(t *testing.T) {
	stores, _ := newAuthedStores(t)

	rs, err := stores.Connections.List(context.Background(), "pending", "")
	require.NoError(t, err)
	require.Len(t, rs.Items, 2)
	for _, conn := range rs.Items {
		assert.Equal(t, "pending", string(conn.Status))
	}
}

func TestUnauthorizedWithoutToken(t *testing.T) {
	_, cfg := newTestBackend(t)
	client := NewClient(cfg, nil, nil)

	_, err := client.Get(context.Background(), "/connections", nil)
	require.Error(t, err)
	assert.True(t, appErrors.IsCode(err, appErrors.ErrUnauthorized.Code))
	assert.Contains(t, err.Error(), "missing bearer token")
}

func TestExpiredTokenRejectedBeforeRequest(t *testing.T) {
	_, cfg := newTestBackend(t)

	claims := jwt.MapClaims{"sub": "admin", "exp": time.Now().Add(-time.Hour).Unix()}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	client := NewClient(cfg, StaticTokenSource(expired), nil)
	_, err = client.Get(context.Background(), "/connections", nil)
	require.Error(t, err)
	assert.True(t, appErrors.IsCode(err, appErrors.ErrUnauthorized.Code))
	assert.Contains(t, err.Error(), "session expired")
}

func TestNotFoundClassified(t *testing.T) {
	stores, _ := newAuthedStores(t)

	err := stores.Connections.Approve(context.Background(), dto.ApproveRequest{ID: "con-999"})
	require.Error(t, err)
	assert.True(t, appErrors.IsCode(err, appErrors.ErrNotFound.Code))
	assert.Contains(t, err.Error(), "connection not found")
}

func TestBackendMessageForwardedVerbatim(t *testing.T) {
	stores, _ := newAuthedStores(t)

	// con-001 is active, not pending, so the backend refuses the rejection.
	err := stores.Connections.Reject(context.Background(), dto.RejectRequest{
		ID:     "con-001",
		Reason: "duplicate application found",
	})
	require.Error(t, err)
	assert.True(t, appErrors.IsCode(err, appErrors.ErrValidation.Code))

	appErr := appErrors.FromError(err)
	assert.Equal(t, "only pending connections can be rejected", appErr.Message)
}

func TestShortReasonFailsBeforeRequest(t *testing.T) {
	// No backend: client-side validation must trip first.
	client := NewClient(config.APIConfig{BaseURL: "http://127.0.0.1:1"}, nil, nil)
	stores := NewStores(client)

	err := stores.Connections.Reject(context.Background(), dto.RejectRequest{ID: "con-002", Reason: "too short"})
	require.Error(t, err)
	assert.True(t, appErrors.IsCode(err, appErrors.ErrValidation.Code))
}

func TestApproveAndRefetch(t *testing.T) {
	stores, _ := newAuthedStores(t)
	ctx := context.Background()

	require.NoError(t, stores.Connections.Approve(ctx, dto.ApproveRequest{ID: "con-002"}))

	rs, err := stores.Connections.List(ctx, "pending", "")
	require.NoError(t, err)
	assert.Len(t, rs.Items, 1, "approved connection left the pending list")
}

func TestMarkPaidCreatesPayment(t *testing.T) {
	stores, _ := newAuthedStores(t)
	ctx := context.Background()

	require.NoError(t, stores.Billing.MarkPaid(ctx, dto.MarkPaidRequest{
		BillID: "bil-002",
		Amount: 480,
		Method: "cash",
	}))

	payments, err := stores.Billing.ListPayments(ctx, "")
	require.NoError(t, err)
	assert.Len(t, payments.Items, 2)

	bills, err := stores.Billing.ListBills(ctx, "", "unpaid")
	require.NoError(t, err)
	assert.Empty(t, bills.Items)
}

func TestPersonnelLifecycle(t *testing.T) {
	stores, _ := newAuthedStores(t)
	ctx := context.Background()

	created, err := stores.Personnel.Create(ctx, dto.CreatePersonnelRequest{
		Name:      "Elena Torres",
		Role:      "collector",
		Zone:      "zone-2",
		ContactNo: "0918-222-0004",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	require.NoError(t, stores.Personnel.Archive(ctx, dto.ArchiveToggleRequest{ID: created.ID}))

	got, err := stores.Personnel.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "archived", string(got.Status))

	require.NoError(t, stores.Personnel.Archive(ctx, dto.ArchiveToggleRequest{ID: created.ID, Unarchive: true}))
	got, err = stores.Personnel.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "active", string(got.Status))
}

func TestResidentUpdate(t *testing.T) {
	stores, _ := newAuthedStores(t)
	ctx := context.Background()

	require.NoError(t, stores.Residents.Update(ctx, dto.UpdateResidentRequest{
		ID:        "res-001",
		ContactNo: "0917-999-0001",
	}))

	got, err := stores.Residents.Get(ctx, "res-001")
	require.NoError(t, err)
	assert.Equal(t, "0917-999-0001", got.ContactNo)
}

func TestAnnouncementsUseGenericEnvelope(t *testing.T) {
	stores, _ := newAuthedStores(t)

	rs, err := stores.Announcements.List(context.Background())
	require.NoError(t, err)
	require.Len(t, rs.Items, 1)
	assert.Equal(t, "ann-001", rs.Items[0].ID)
}

func TestTimeoutClassified(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(slow.Close)

	client := NewClient(config.APIConfig{BaseURL: slow.URL, Timeout: 20 * time.Millisecond}, nil, nil)
	_, err := client.Get(context.Background(), "/connections", nil)
	require.Error(t, err)
	assert.True(t, appErrors.IsCode(err, appErrors.ErrTimeout.Code))
}

func TestNetworkErrorClassified(t *testing.T) {
	client := NewClient(config.APIConfig{BaseURL: "http://127.0.0.1:1", Timeout: time.Second}, nil, nil)
	_, err := client.Get(context.Background(), "/connections", nil)
	require.Error(t, err)
	assert.True(t, appErrors.IsCode(err, appErrors.ErrNetwork.Code))
}
