package api

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"insightx/internal/api/handlers"
	"insightx/internal/dto"
	"insightx/internal/knowledge"
	"insightx/internal/service"
	"insightx/pkg/auth"
	"insightx/pkg/config"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const adminPassword = "rebuild-me"

type testServer struct {
	app        *fiber.App
	jwtManager *auth.JWTManager
	insights   *service.InsightService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := zap.NewNop()

	kb, err := knowledge.Embedded()
	require.NoError(t, err)
	store := knowledge.NewStore(kb, knowledge.EmbeddedSource, logger)
	insights := service.NewInsightService(store, nil, nil, nil, logger)

	hash, err := auth.HashPassword(adminPassword)
	require.NoError(t, err)
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	authService := service.NewAuthService(config.AdminConfig{Username: "admin", PasswordHash: hash}, jwtManager, logger)

	cfg := &config.ServerConfig{ReadTimeout: 5 * time.Second, WriteTimeout: 5 * time.Second, BodyLimit: 4 << 20}
	app := SetupRouter(cfg,
		handlers.NewQueryHandler(insights, logger),
		handlers.NewKnowledgeHandler(insights, logger),
		handlers.NewAuthHandler(authService, logger),
		jwtManager,
		logger,
	)
	return &testServer{app: app, jwtManager: jwtManager, insights: insights}
}

func (s *testServer) do(t *testing.T, req *http.Request) (*http.Response, []byte) {
	t.Helper()
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestQueryEndpoint(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.do(t, jsonRequest(http.MethodPost, "/api/v1/query", `{"question":"Compare Android vs iOS"}`))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))

	var out map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &out))
	for _, key := range []string{"intent", "answer", "stats", "pattern", "recommendation", "confidence", "entities_used", "kb_version"} {
		assert.Contains(t, out, key)
	}
	assert.JSONEq(t, `"COMPARE"`, string(out["intent"]))
	assert.JSONEq(t, `"device_compare"`, string(out["chart_type"]))

	stats := string(out["stats"])
	assert.Less(t, strings.Index(stats, `"Android"`), strings.Index(stats, `"iOS"`))
	assert.Less(t, strings.Index(stats, `"iOS"`), strings.Index(stats, `"Web"`))
}

func TestQueryEndpoint_Validation(t *testing.T) {
	s := newTestServer(t)

	resp, _ := s.do(t, jsonRequest(http.MethodPost, "/api/v1/query", `{"question":"   "}`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = s.do(t, jsonRequest(http.MethodPost, "/api/v1/query", `{"question":"`+strings.Repeat("x", 501)+`"}`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = s.do(t, jsonRequest(http.MethodPost, "/api/v1/query", `{"question":`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestOverviewAndIntents(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/overview", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var overview dto.QueryResponse
	require.NoError(t, json.Unmarshal(body, &overview))
	assert.Equal(t, service.RouteOverview, overview.Intent)

	resp, body = s.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/intents", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var catalog dto.IntentCatalogResponse
	require.NoError(t, json.Unmarshal(body, &catalog))
	assert.Len(t, catalog.Intents, 10)
	assert.Equal(t, "FRAUD", catalog.Intents[0])
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/api/health", "/api/v1/health"} {
		resp, body := s.do(t, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, resp.StatusCode, path)

		var health dto.HealthResponse
		require.NoError(t, json.Unmarshal(body, &health))
		assert.Equal(t, "ok", health.Status)
		assert.Equal(t, 250000, health.TotalTransactions)
		assert.Equal(t, knowledge.EmbeddedSource, health.Source)
		assert.Equal(t, s.insights.Status().Version, health.KBVersion)
		assert.NotNil(t, health.SkippedDimensions)
	}
}

func TestLookup(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/knowledge/by_category/Shopping", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var agg dto.AggregateResponse
	require.NoError(t, json.Unmarshal(body, &agg))
	assert.Equal(t, "category", agg.Dimension)
	assert.Equal(t, 1957.17, agg.Avg)

	resp, body = s.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/knowledge/state/Tamil%20Nadu", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &agg))
	assert.Equal(t, "Tamil Nadu", agg.Value)

	resp, _ = s.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/knowledge/merchant/Shopping", nil))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = s.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/knowledge/state/Atlantis", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestExport(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/knowledge", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")

	kb, err := knowledge.Decode(body)
	require.NoError(t, err)
	assert.Equal(t, 250000, kb.TotalTransactions)
}

func TestMetrics(t *testing.T) {
	s := newTestServer(t)
	s.do(t, jsonRequest(http.MethodPost, "/api/v1/query", `{"question":"What are the peak hours?"}`))

	resp, body := s.do(t, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "insightx_queries_total")
}

func (s *testServer) login(t *testing.T) string {
	t.Helper()
	resp, body := s.do(t, jsonRequest(http.MethodPost, "/api/v1/admin/login",
		`{"username":"admin","password":"`+adminPassword+`"}`))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var token dto.TokenResponse
	require.NoError(t, json.Unmarshal(body, &token))
	return token.AccessToken
}

func uploadRequest(t *testing.T, token, filename, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/rebuild", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

const uploadCSV = `amount (INR),transaction_status,fraud_flag,merchant_category,sender_state
100,SUCCESS,0,Food,Goa
250,FAILED,1,Food,Delhi
oops,SUCCESS,0,Food,Delhi
`

func TestLogin_Rejected(t *testing.T) {
	s := newTestServer(t)

	resp, _ := s.do(t, jsonRequest(http.MethodPost, "/api/v1/admin/login", `{"username":"admin","password":"nope"}`))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = s.do(t, jsonRequest(http.MethodPost, "/api/v1/admin/login", `not json`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRebuild_RequiresAdmin(t *testing.T) {
	s := newTestServer(t)

	resp, _ := s.do(t, uploadRequest(t, "", "upi.csv", uploadCSV))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = s.do(t, uploadRequest(t, "garbage", "upi.csv", uploadCSV))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	viewer, err := s.jwtManager.GenerateToken("viewer", "viewer")
	require.NoError(t, err)
	resp, _ = s.do(t, uploadRequest(t, viewer, "upi.csv", uploadCSV))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	assert.Equal(t, 250000, s.insights.Status().Rows)
}

func TestRebuild_FromUpload(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t)
	before := s.insights.Status().Version

	resp, body := s.do(t, uploadRequest(t, token, "upi.csv", uploadCSV))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var out dto.RebuildResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.NotEqual(t, before, out.KBVersion)
	assert.Equal(t, "upi.csv", out.Source)
	assert.Equal(t, 2, out.Rows)
	assert.Equal(t, 1, out.RejectedRows)
	assert.Len(t, out.SkippedDimensions, 8)

	status := s.insights.Status()
	assert.Equal(t, out.KBVersion, status.Version)
	assert.Equal(t, 2, status.Rows)
}

func TestRebuild_Rejections(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t)
	before := s.insights.Status().Version

	resp, _ := s.do(t, uploadRequest(t, token, "bad.csv", "merchant_category,transaction_status\nFood,SUCCESS\n"))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/rebuild", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, _ = s.do(t, req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "no file and no database")

	assert.Equal(t, before, s.insights.Status().Version)
}
