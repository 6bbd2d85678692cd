package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/studentms/internal/app/controllers"
	"github.com/yigit/studentms/internal/app/repositories/repotest"
	"github.com/yigit/studentms/internal/app/services"
	"github.com/yigit/studentms/internal/middleware"
	"github.com/yigit/studentms/internal/pkg/auth"
	"github.com/yigit/studentms/internal/pkg/tokenstore"
	"github.com/yigit/studentms/internal/pkg/validation"
)

type testAPI struct {
	t      *testing.T
	router *gin.Engine
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	students := repotest.NewStudentRepo()
	admins := repotest.NewAdminRepo()
	hasher := auth.NewPasswordHasher(4)
	hash, err := hasher.Hash("admin123")
	require.NoError(t, err)
	_, err = admins.Create(context.Background(), "admin", hash)
	require.NoError(t, err)

	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "test", AccessTokenExp: time.Hour, TokenIssuer: "studentms"})
	v := validation.New()
	svcs := &services.Services{
		StudentService: services.NewStudentService(students, v, hasher, zerolog.Nop()),
		AuthService:    services.NewAuthService(admins, students, jwtService, hasher, tokenstore.NewMemoryStore(), v, zerolog.Nop()),
		ExportService:  services.NewExportService(students),
	}

	router := gin.New()
	router.Use(middleware.Recovery(), middleware.CORS([]string{"*"}))
	SetupRouter(router, Controllers{
		Auth:    controllers.NewAuthController(svcs.AuthService, svcs.StudentService),
		Student: controllers.NewStudentController(svcs.StudentService, svcs.ExportService),
		Health:  controllers.NewHealthController(nil),
	}, middleware.NewAuthMiddleware(svcs.AuthService), "/api")

	return &testAPI{t: t, router: router}
}

func (a *testAPI) do(method, path, token, body string) (*httptest.ResponseRecorder, map[string]any) {
	a.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var decoded map[string]any
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &decoded))
	}
	return w, decoded
}

func (a *testAPI) login(path, body string) string {
	a.t.Helper()
	w, resp := a.do(http.MethodPost, path, "", body)
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	return resp["token"].(string)
}

const registerS1 = `{"studentId":"S1","name":"Li","gender":"F","age":20,"className":"C1","major":"CS","phone":"123","email":"a@b.com","password":"p1"}`

func TestStudentLifecycleScenario(t *testing.T) {
	api := newTestAPI(t)

	w, resp := api.do(http.MethodPost, "/auth/student/register", "", registerS1)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, true, resp["success"])
	student := resp["student"].(map[string]any)
	assert.Equal(t, "S1", student["student_id"])
	assert.Equal(t, "Li", student["name"])
	assert.Equal(t, "C1", student["class_name"])
	assert.Equal(t, float64(20), student["age"])
	assert.NotContains(t, student, "password")

	w, _ = api.do(http.MethodPost, "/auth/student/register", "", registerS1)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, resp = api.do(http.MethodPost, "/auth/student/login", "", `{"studentId":"S1","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, false, resp["success"])

	adminToken := api.login("/auth/admin/login", `{"username":"admin","password":"admin123"}`)

	w, resp = api.do(http.MethodGet, "/students/S1", adminToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "123", resp["student"].(map[string]any)["phone"])

	w, resp = api.do(http.MethodPut, "/students/S1", adminToken, `{"phone":"999"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := resp["student"].(map[string]any)
	assert.Equal(t, "999", updated["phone"])
	assert.Equal(t, "Li", updated["name"])
	assert.Equal(t, "a@b.com", updated["email"])

	w, _ = api.do(http.MethodDelete, "/students/S1", adminToken, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, resp = api.do(http.MethodGet, "/students/S1", adminToken, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "student not found", resp["message"])
}

func TestStudentSelfServiceAndAuthorization(t *testing.T) {
	api := newTestAPI(t)

	w, _ := api.do(http.MethodPost, "/api/auth/student/register", "", registerS1)
	require.Equal(t, http.StatusCreated, w.Code)
	w, _ = api.do(http.MethodPost, "/api/auth/student/register", "",
		`{"studentId":"S2","name":"Wang","gender":"M","age":22,"className":"C2","major":"EE","phone":"1","email":"w@x.cn","password":"p2"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	token := api.login("/api/auth/student/login", `{"studentId":"S1","password":"p1"}`)

	w, _ = api.do(http.MethodGet, "/api/students/S1", token, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = api.do(http.MethodGet, "/api/students/S2", token, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = api.do(http.MethodPut, "/api/students/S2", token, `{"phone":"0"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = api.do(http.MethodGet, "/api/students", token, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = api.do(http.MethodDelete, "/api/students/S1", token, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = api.do(http.MethodGet, "/api/students/S1", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, resp := api.do(http.MethodPut, "/api/students/S1", token, `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "no fields to update", resp["message"])

	w, _ = api.do(http.MethodPut, "/api/students/S1", token, `{"phone":"1","studentId":"S9"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = api.do(http.MethodPut, "/api/students/S1/password", token, `{"currentPassword":"nope","newPassword":"p9"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// the profile update cannot bypass the current-password check
	w, resp = api.do(http.MethodPut, "/api/students/S1", token, `{"phone":"5","password":"taken"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, resp["message"], "/password")
	w, _ = api.do(http.MethodPost, "/api/auth/student/login", "", `{"studentId":"S1","password":"taken"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w, resp = api.do(http.MethodGet, "/api/students/S1", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "123", resp["student"].(map[string]any)["phone"])

	w, _ = api.do(http.MethodPut, "/api/students/S1/password", token, `{"currentPassword":"p1","newPassword":"p9"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	api.login("/api/auth/student/login", `{"studentId":"S1","password":"p9"}`)

	w, _ = api.do(http.MethodGet, "/api/students/S1/export", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), `filename="student_Li_S1.csv"`)
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte{0xEF, 0xBB, 0xBF}))

	w, _ = api.do(http.MethodPost, "/api/auth/logout", token, "")
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = api.do(http.MethodGet, "/api/students/S1", token, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminListAndCreate(t *testing.T) {
	api := newTestAPI(t)
	adminToken := api.login("/auth/admin/login", `{"username":"admin","password":"admin123"}`)

	for _, body := range []string{
		`{"studentId":"S2","name":"Li Hua","password":"x"}`,
		`{"studentId":"S1","name":"Wang","className":"Linguistics","password":"x"}`,
		`{"studentId":"S3","name":"Chen","className":"C3","major":"Math","password":"x"}`,
	} {
		w, _ := api.do(http.MethodPost, "/students", adminToken, body)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w, resp := api.do(http.MethodPost, "/students", adminToken, `{"studentId":"S4","password":"x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "student ID, name and password are required", resp["message"])

	w, resp = api.do(http.MethodGet, "/students?search=LI", adminToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), resp["total"])
	list := resp["students"].([]any)
	assert.Equal(t, "S1", list[0].(map[string]any)["student_id"])
	assert.Equal(t, "S2", list[1].(map[string]any)["student_id"])

	w, resp = api.do(http.MethodGet, "/students?major=physics", adminToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), resp["total"])
	assert.Equal(t, []any{}, resp["students"])

	// admins may still reset a password through the profile update
	w, _ = api.do(http.MethodPut, "/students/S3", adminToken, `{"password":"reset1"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	api.login("/auth/student/login", `{"studentId":"S3","password":"reset1"}`)
}

func TestProtocolEdges(t *testing.T) {
	api := newTestAPI(t)

	w, resp := api.do(http.MethodPatch, "/students/S1", "", `{}`)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, false, resp["success"])

	req := httptest.NewRequest(http.MethodOptions, "/api/students/S1", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	for _, path := range []string{"/students/S1", "/api/auth/student/login", "/api/students/S1/password"} {
		rec = httptest.NewRecorder()
		api.router.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}

	w, _ = api.do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, resp = api.do(http.MethodPost, "/auth/admin/login", "", `{"username":"admin"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "username and password are required", resp["message"])

	w, resp = api.do(http.MethodPost, "/auth/student/register", "", strings.Replace(registerS1, `"age":20`, `"age":0`, 1))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "age must be between 15 and 50", resp["message"])
}
