package mockapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Otwaboy/Agaspay-Capstone-sub004/pkg/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := config.MockConfig{JWTSecret: "test_secret", TokenTTL: time.Hour}
	ts := httptest.NewServer(NewServer(cfg, SeedFixtures(), nil, nil).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func login(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	resp, err := http.Post(ts.URL+"/api/v1/auth/login", "application/json",
		strings.NewReader(`{"username":"admin","password":"water123"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Token
}

func TestLoginRejectsBadPassword(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Post(ts.URL+"/api/v1/auth/login", "application/json",
		strings.NewReader(`{"username":"admin","password":"wrong"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRejectEnforcesReasonLength(t *testing.T) {
	ts := testServer(t)
	token := login(t, ts)

	req, err := http.NewRequest(http.MethodPatch, ts.URL+"/api/v1/connections/con-002/reject",
		strings.NewReader(`{"reason":"short"}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body struct {
		Msg string `json:"msg"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body.Msg, "at least 10 characters")
}

func TestRecordsCarryUnderscoreID(t *testing.T) {
	ts := testServer(t)
	token := login(t, ts)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/v1/connections", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Connections []map[string]interface{} `json:"connections"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body.Connections)
	for _, record := range body.Connections {
		assert.Contains(t, record, "_id")
		assert.NotContains(t, record, "id", "the legacy wire format never uses the canonical key")
	}
}

func TestHealthIsPublic(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
