package api

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optiflow/site-backend/internal/auth"
	"github.com/optiflow/site-backend/internal/config"
	"github.com/optiflow/site-backend/internal/content"
	"github.com/optiflow/site-backend/internal/leads"
	"github.com/optiflow/site-backend/internal/notify"
	"github.com/optiflow/site-backend/internal/store"
)

type testAPI struct {
	handler  http.Handler
	mock     sqlmock.Sqlmock
	redis    *miniredis.Miniredis
	sessions *auth.SessionStore
}

func setupTestAPI(t *testing.T) *testAPI {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	st := store.New(db)
	sessions := auth.NewSessionStore(client, time.Hour)
	authSvc := auth.NewService(st, sessions)

	fanout := notify.NewFanout(nil, time.Second)
	leadSvc := leads.NewService(st, st, fanout, fanout, nil)

	cfg := &config.Config{
		Auth: config.AuthConfig{
			SessionTTLMinutes: 60,
			CookieName:        "admin_session",
		},
		Storage: config.StorageConfig{MaxUploadSizeMB: 50},
	}

	h := NewHandlers(st, authSvc, leadSvc, content.NewRenderer(),
		content.NewRSSImporter(st), nil, NewHealthChecker(db, client), cfg)

	return &testAPI{
		handler:  SetupRoutes(h, []string{"http://localhost:5173"}),
		mock:     mock,
		redis:    mr,
		sessions: sessions,
	}
}

func (a *testAPI) do(t *testing.T, method, path string, body any, mutate ...func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, m := range mutate {
		m(req)
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

// adminToken mints a session directly, bypassing the login handler.
func (a *testAPI) adminToken(t *testing.T) string {
	t.Helper()
	token, err := a.sessions.Create(t.Context(), auth.Session{
		AdminID:  uuid.New(),
		Email:    "admin@example.com",
		Username: "admin",
	})
	require.NoError(t, err)
	return token
}

func withBearer(token string) func(*http.Request) {
	return func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	}
}

func adminColumns() []string {
	return []string{"id", "username", "email", "password_hash", "created_at"}
}

func TestLoginSetsSessionCookie(t *testing.T) {
	a := setupTestAPI(t)

	hash, err := auth.HashPassword("s3cret")
	require.NoError(t, err)
	a.mock.ExpectQuery("FROM admin_users WHERE username").
		WithArgs("admin").
		WillReturnRows(sqlmock.NewRows(adminColumns()).
			AddRow(uuid.New(), "admin", "admin@example.com", hash, time.Now()))

	rec := a.do(t, http.MethodPost, "/auth/login",
		map[string]string{"username": "admin", "password": "s3cret"})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "admin_session", cookies[0].Name)
	assert.Equal(t, resp.Token, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	// The session is live in Redis.
	assert.True(t, a.redis.Exists("session:"+resp.Token))
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	a := setupTestAPI(t)

	hash, err := auth.HashPassword("s3cret")
	require.NoError(t, err)
	a.mock.ExpectQuery("FROM admin_users WHERE username").
		WillReturnRows(sqlmock.NewRows(adminColumns()).
			AddRow(uuid.New(), "admin", "admin@example.com", hash, time.Now()))

	rec := a.do(t, http.MethodPost, "/auth/login",
		map[string]string{"username": "admin", "password": "wrong"})

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid credentials")
	assert.Empty(t, a.redis.Keys())
}

func TestLoginUnknownUserSameResponse(t *testing.T) {
	a := setupTestAPI(t)

	a.mock.ExpectQuery("FROM admin_users WHERE username").
		WillReturnError(sql.ErrNoRows)

	rec := a.do(t, http.MethodPost, "/auth/login",
		map[string]string{"username": "ghost", "password": "whatever"})

	// Identical status and body to the wrong-password case.
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid credentials")
}

func TestLogoutRevokesSession(t *testing.T) {
	a := setupTestAPI(t)
	token := a.adminToken(t)

	rec := a.do(t, http.MethodPost, "/auth/logout", nil, withBearer(token))
	require.Equal(t, http.StatusNoContent, rec.Code)

	assert.False(t, a.redis.Exists("session:"+token))

	// The revoked token no longer opens admin routes.
	rec = a.do(t, http.MethodGet, "/api/admin/me", nil, withBearer(token))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRoutesRequireSession(t *testing.T) {
	a := setupTestAPI(t)

	rec := a.do(t, http.MethodGet, "/api/admin/me", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = a.do(t, http.MethodGet, "/api/admin/me", nil, withBearer("forged-token"))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	token := a.adminToken(t)
	rec = a.do(t, http.MethodGet, "/api/admin/me", nil, withBearer(token))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"admin"`)
}

func TestSubmitContactPersistsLead(t *testing.T) {
	a := setupTestAPI(t)

	a.mock.ExpectExec("INSERT INTO leads").
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := a.do(t, http.MethodPost, "/api/leads/contact", map[string]string{
		"name":    "Jane Doe",
		"email":   "jane@example.com",
		"company": "Acme Logistics",
		"message": "We want to automate invoicing",
	})

	require.Equal(t, http.StatusCreated, rec.Code)

	var result leads.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.NotEqual(t, uuid.Nil, result.LeadID)
	assert.NoError(t, a.mock.ExpectationsWereMet())
}

func TestSubmitContactValidationSkipsDatabase(t *testing.T) {
	a := setupTestAPI(t)

	rec := a.do(t, http.MethodPost, "/api/leads/contact", map[string]string{
		"name":  "   ",
		"email": "jane@example.com",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "name is required")
	// No INSERT was expected and none happened.
	assert.NoError(t, a.mock.ExpectationsWereMet())
}

func TestSubmitResourceUnknownSlug(t *testing.T) {
	a := setupTestAPI(t)

	a.mock.ExpectQuery("FROM resources WHERE slug").
		WillReturnError(sql.ErrNoRows)

	rec := a.do(t, http.MethodPost, "/api/leads/resource", map[string]string{
		"name":          "Jane Doe",
		"email":         "jane@example.com",
		"resource_slug": "nonexistent-guide",
	})

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, a.mock.ExpectationsWereMet())
}

func TestGetPublishedPageRendersSettings(t *testing.T) {
	a := setupTestAPI(t)

	pageID := uuid.New()
	a.mock.ExpectQuery("FROM pages WHERE slug").
		WithArgs("services").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "slug", "title", "body", "meta_description", "published", "created_at", "updated_at"}).
			AddRow(pageID, "services", "Services", "Call {{ company_phone }}", "", true, time.Now(), time.Now()))
	a.mock.ExpectQuery("SELECT key, value FROM settings").
		WillReturnRows(sqlmock.NewRows([]string{"key", "value"}).
			AddRow("company_phone", "555-0147"))

	rec := a.do(t, http.MethodGet, "/api/content/pages/services", nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var page store.Page
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, "Call 555-0147", page.Body)
}

func TestGetPublishedPageNotFound(t *testing.T) {
	a := setupTestAPI(t)

	a.mock.ExpectQuery("FROM pages WHERE slug").
		WillReturnError(sql.ErrNoRows)

	rec := a.do(t, http.MethodGet, "/api/content/pages/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPublicResourceListingHidesFileKeys(t *testing.T) {
	a := setupTestAPI(t)

	a.mock.ExpectQuery("FROM resources").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "slug", "title", "description", "file_key", "published", "created_at", "updated_at"}).
			AddRow(uuid.New(), "automation-guide", "Automation Guide", "", "resources/abc/guide.pdf", true, time.Now(), time.Now()))

	rec := a.do(t, http.MethodGet, "/api/content/resources", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "guide.pdf")
	assert.Contains(t, rec.Body.String(), "automation-guide")
}

func TestCreatePageRequiresSlugAndTitle(t *testing.T) {
	a := setupTestAPI(t)
	token := a.adminToken(t)

	rec := a.do(t, http.MethodPost, "/api/admin/pages/", map[string]string{
		"title": "No slug",
	}, withBearer(token))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, a.mock.ExpectationsWereMet())
}

func TestUpdatePageNotFound(t *testing.T) {
	a := setupTestAPI(t)
	token := a.adminToken(t)

	a.mock.ExpectExec("UPDATE pages").
		WillReturnResult(sqlmock.NewResult(0, 0))

	rec := a.do(t, http.MethodPut, "/api/admin/pages/"+uuid.NewString(), map[string]any{
		"slug":  "about",
		"title": "About",
		"body":  "Hello",
	}, withBearer(token))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpsertMenuRejectsNonArrayItems(t *testing.T) {
	a := setupTestAPI(t)
	token := a.adminToken(t)

	rec := a.do(t, http.MethodPut, "/api/admin/menus/header", map[string]any{
		"items": map[string]string{"label": "Home"},
	}, withBearer(token))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "JSON array")
}

func TestUpsertMenuNullItemsStoredAsEmptyArray(t *testing.T) {
	a := setupTestAPI(t)
	token := a.adminToken(t)

	a.mock.ExpectExec("INSERT INTO menus").
		WithArgs("header", []byte("[]"), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := a.do(t, http.MethodPut, "/api/admin/menus/header", map[string]any{
		"items": nil,
	}, withBearer(token))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"items":[]`)
	assert.NoError(t, a.mock.ExpectationsWereMet())
}

func TestHealthReportsComponents(t *testing.T) {
	a := setupTestAPI(t)

	rec := a.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var status HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "up", status.Checks["redis"].Status)
}
