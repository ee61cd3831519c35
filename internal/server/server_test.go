package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	analyticssvc "github.com/smallbiznis/printtrack/internal/analytics/service"
	auditdomain "github.com/smallbiznis/printtrack/internal/audit/domain"
	auditrepo "github.com/smallbiznis/printtrack/internal/audit/repository"
	auditsvc "github.com/smallbiznis/printtrack/internal/audit/service"
	authsvc "github.com/smallbiznis/printtrack/internal/auth/service"
	"github.com/smallbiznis/printtrack/internal/config"
	feedbackdomain "github.com/smallbiznis/printtrack/internal/feedback/domain"
	feedbackrepo "github.com/smallbiznis/printtrack/internal/feedback/repository"
	feedbacksvc "github.com/smallbiznis/printtrack/internal/feedback/service"
	jobdomain "github.com/smallbiznis/printtrack/internal/job/domain"
	jobrepo "github.com/smallbiznis/printtrack/internal/job/repository"
	jobsvc "github.com/smallbiznis/printtrack/internal/job/service"
	"github.com/smallbiznis/printtrack/internal/observability"
	projectdomain "github.com/smallbiznis/printtrack/internal/project/domain"
	projectrepo "github.com/smallbiznis/printtrack/internal/project/repository"
	projectsvc "github.com/smallbiznis/printtrack/internal/project/service"
	settingsdomain "github.com/smallbiznis/printtrack/internal/settings/domain"
	settingsrepo "github.com/smallbiznis/printtrack/internal/settings/repository"
	settingssvc "github.com/smallbiznis/printtrack/internal/settings/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/smallbiznis/printtrack/internal/auth/password"
)

const testAdminPassword = "a-test-admin-password"

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&jobdomain.Job{},
		&feedbackdomain.Feedback{},
		&projectdomain.Project{},
		&settingsdomain.Setting{},
		&auditdomain.AuthAttempt{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	hash, err := password.Hash(testAdminPassword)
	require.NoError(t, err)

	cfg := config.Config{
		AppVersion:        "test",
		Environment:       "test",
		AdminPasswordHash: hash,
		AuthJWTSecret:     "test-secret",
		AuthTokenTTL:      time.Hour,
		LoginRatePerMin:   600,
		LoginBurst:        50,
		AuthAttemptCap:    100,
	}
	log := zap.NewNop()

	audit := auditsvc.New(auditsvc.Params{Cfg: cfg, DB: db, Log: log, GenID: node, Repo: auditrepo.Provide()})
	settings := settingssvc.New(settingssvc.Params{DB: db, Log: log, Repo: settingsrepo.Provide()})

	return NewServer(ServerParams{
		Gin:          NewEngine(cfg, observability.Config{}, nil),
		Cfg:          cfg,
		Authsvc:      authsvc.New(authsvc.Params{Cfg: cfg, Log: log, Audit: audit}),
		AuditSvc:     audit,
		JobSvc:       jobsvc.New(jobsvc.Params{DB: db, Log: log, GenID: node, Repo: jobrepo.Provide()}),
		FeedbackSvc:  feedbacksvc.New(feedbacksvc.Params{DB: db, Log: log, GenID: node, Repo: feedbackrepo.Provide()}),
		ProjectSvc:   projectsvc.New(projectsvc.Params{DB: db, Log: log, Repo: projectrepo.Provide(), Settings: settings}),
		SettingsSvc:  settings,
		AnalyticsSvc: analyticssvc.New(analyticssvc.Params{DB: db, Log: log}),
	})
}

func doRequest(t *testing.T, srv *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func login(t *testing.T, srv *Server) string {
	t.Helper()

	rec := doRequest(t, srv, http.MethodPost, "/api/auth/login", "", gin.H{"password": testAdminPassword})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode(t, rec)
	data := body["data"].(map[string]any)
	return data["token"].(string)
}

func validJobBody() gin.H {
	return gin.H{
		"projectName":  "Fan shroud",
		"partName":     "Shroud v3",
		"printMinutes": 90,
		"unitPrice":    12.5,
		"oemCost":      60,
		"quantities":   gin.H{"mainWorkshop": 2, "warehouse": 3},
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestUnknownRouteListsKnownRoutes(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/nope", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, false, body["success"])
	data := body["data"].(map[string]any)
	assert.NotEmpty(t, data["routes"])
}

func TestJobWritesRequireAuth(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/jobs", "", validJobBody())
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, srv, http.MethodPost, "/api/jobs", "not-a-token", validJobBody())
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/auth/login", "", gin.H{"password": "wrong"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, false, body["success"])
}

func TestJobLifecycleOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv)

	rec := doRequest(t, srv, http.MethodPost, "/api/jobs", token, validJobBody())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decode(t, rec)["data"].(map[string]any)
	id := created["id"].(string)
	require.NotEmpty(t, id)
	assert.InDelta(t, 1.5, created["printHours"].(float64), 1e-9)
	assert.InDelta(t, 224.0, created["totalSavings"].(float64), 1e-9)

	rec = doRequest(t, srv, http.MethodGet, "/api/jobs", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode(t, rec)["data"].(map[string]any)
	assert.Len(t, list["jobs"].([]any), 1)

	update := validJobBody()
	update["partName"] = "Shroud v4"
	rec = doRequest(t, srv, http.MethodPut, "/api/jobs/"+id, token, update)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doRequest(t, srv, http.MethodDelete, "/api/jobs/"+id, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, srv, http.MethodDelete, "/api/jobs/"+id, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFeedbackCreateIsPublic(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/feedback", "", gin.H{
		"name":    "Asha",
		"email":   "asha@example.com",
		"message": "Great part quality.",
		"rating":  5,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestFeedbackRatingValidationOverHTTP(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/feedback", "", gin.H{
		"name":    "Asha",
		"email":   "asha@example.com",
		"message": "Out of range.",
		"rating":  6,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decode(t, rec)
	errPayload := body["error"].(map[string]any)
	assert.Equal(t, "validation_error", errPayload["type"])
	fields := errPayload["errors"].([]any)
	first := fields[0].(map[string]any)
	assert.Equal(t, "rating", first["field"])
}

func TestSettingsRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv)

	rec := doRequest(t, srv, http.MethodPut, "/api/settings", token, gin.H{
		"settings": gin.H{"businessName": "Acme Prints", "currency": "EUR"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doRequest(t, srv, http.MethodPut, "/api/settings", token, gin.H{
		"settings": gin.H{"currency": "USD"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, srv, http.MethodGet, "/api/settings", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data := decode(t, rec)["data"].(map[string]any)
	bag := data["settings"].(map[string]any)
	assert.Equal(t, "Acme Prints", bag["businessName"])
	assert.Equal(t, "USD", bag["currency"])
}

func TestMalformedPageIsRejected(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/jobs?page=-1", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDashboardOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv)

	rec := doRequest(t, srv, http.MethodPost, "/api/jobs", token, validJobBody())
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, srv, http.MethodGet, "/api/analytics/dashboard", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data := decode(t, rec)["data"].(map[string]any)
	assert.EqualValues(t, 1, data["totalJobs"])
	assert.InDelta(t, 224.0, data["totalSavings"].(float64), 1e-9)
}

func TestAuthAttemptsEndpointIsGated(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/auth/attempts", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token := login(t, srv)
	rec = doRequest(t, srv, http.MethodGet, "/api/auth/attempts", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data := decode(t, rec)["data"].(map[string]any)
	attempts := data["attempts"].([]any)
	require.NotEmpty(t, attempts)
}
