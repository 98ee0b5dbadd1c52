package auth

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/hadmin/internal/model"
	"github.com/hadmin/internal/token"
	"github.com/hadmin/internal/user"
	pkgAuth "github.com/hadmin/pkg/auth"
	"github.com/hadmin/pkg/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type testEnv struct {
	app   *fiber.App
	users user.Repository
	redis *miniredis.Miniredis
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Role{}, &model.Dept{}))

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	jwtManager := pkgAuth.NewJWTManager(&config.JWTConfig{
		Secret:        "test-secret",
		Issuer:        "hadmin-test",
		Algorithm:     "HS256",
		ExpireMinutes: 60,
	})
	sessions := token.NewSessionManager(jwtManager, token.NewStore(client))
	users := user.NewRepositoryWithDB(db)

	app := fiber.New()
	api := app.Group("/api/v1")
	NewController(users, sessions, jwtManager).RegisterRoutes(api)

	return &testEnv{app: app, users: users, redis: mr}
}

// seedUser 写入带角色和部门的可登录用户
func (e *testEnv) seedUser(t *testing.T, email, password string, status int8) *model.User {
	t.Helper()
	ctx := t.Context()

	role := &model.Role{Name: "管理员-" + email, Code: "admin-" + email, Status: model.RoleStatusEnabled}
	require.NoError(t, e.users.DB().WithContext(ctx).Create(role).Error)
	dept := &model.Dept{Name: "技术部-" + email}
	require.NoError(t, e.users.DB().WithContext(ctx).Create(dept).Error)

	hash, err := pkgAuth.HashPassword(password)
	require.NoError(t, err)

	u := &model.User{
		Username: "tester",
		Password: hash,
		Email:    email,
		Status:   status,
		RoleID:   role.ID,
		DeptID:   dept.ID,
	}
	require.NoError(t, e.users.Create(ctx, u))
	return u
}

func (e *testEnv) do(t *testing.T, method, path, bearer string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)

	var envelope map[string]interface{}
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &envelope))
	return resp, envelope
}

func (e *testEnv) login(t *testing.T, email, password string) (*http.Response, map[string]interface{}) {
	return e.do(t, http.MethodPost, "/api/v1/auth/login", "", LoginRequest{Email: email, Password: password})
}

func accessToken(t *testing.T, envelope map[string]interface{}) string {
	t.Helper()
	data, ok := envelope["data"].(map[string]interface{})
	require.True(t, ok, "login response missing data: %v", envelope)
	tok := data["token"].(map[string]interface{})
	return tok["accessToken"].(string)
}

func TestLoginSuccess(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "admin@example.com", "secret123", 1)

	resp, envelope := env.login(t, "admin@example.com", "secret123")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	data := envelope["data"].(map[string]interface{})
	tok := data["token"].(map[string]interface{})
	assert.NotEmpty(t, tok["accessToken"])
	assert.Equal(t, "Bearer", tok["tokenType"])

	info := data["userInfo"].(map[string]interface{})
	assert.Equal(t, "admin@example.com", info["email"])
	assert.Equal(t, "管理员-admin@example.com", info["roleName"])
	assert.Equal(t, "技术部-admin@example.com", info["deptName"])
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "admin@example.com", "secret123", 1)

	respWrong, envWrong := env.login(t, "admin@example.com", "bad-password")
	respUnknown, envUnknown := env.login(t, "nobody@example.com", "whatever")

	assert.Equal(t, http.StatusUnauthorized, respWrong.StatusCode)
	assert.Equal(t, http.StatusUnauthorized, respUnknown.StatusCode)
	assert.Equal(t, envWrong["message"], envUnknown["message"])
}

func TestFailedLoginWritesNoSession(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "admin@example.com", "secret123", 1)

	env.login(t, "admin@example.com", "bad-password")
	assert.Empty(t, env.redis.Keys(), "failed login must not create a session")
}

func TestLoginDisabledAccount(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "off@example.com", "secret123", 0)

	resp, envelope := env.login(t, "off@example.com", "secret123")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "账号已被禁用", envelope["message"])
	assert.Empty(t, env.redis.Keys())
}

func TestLoginValidation(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.login(t, "", "")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestSecondLoginSupersedesFirst(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "admin@example.com", "secret123", 1)

	_, first := env.login(t, "admin@example.com", "secret123")
	_, second := env.login(t, "admin@example.com", "secret123")
	firstToken := accessToken(t, first)
	secondToken := accessToken(t, second)

	resp, _ := env.do(t, http.MethodGet, "/api/v1/auth/me", firstToken, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, envelope := env.do(t, http.MethodGet, "/api/v1/auth/me", secondToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	info := envelope["data"].(map[string]interface{})
	assert.Equal(t, "admin@example.com", info["email"])
}

func TestLogoutRevokesSession(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "admin@example.com", "secret123", 1)

	_, loginEnv := env.login(t, "admin@example.com", "secret123")
	tok := accessToken(t, loginEnv)

	resp, _ := env.do(t, http.MethodPost, "/api/v1/auth/logout", tok, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/api/v1/auth/me", tok, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProtectedRouteRejectsMissingAndGarbageTokens(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.do(t, http.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/api/v1/auth/me", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestDisablingAccountInvalidatesLiveToken(t *testing.T) {
	env := newTestEnv(t)
	u := env.seedUser(t, "admin@example.com", "secret123", 1)

	_, loginEnv := env.login(t, "admin@example.com", "secret123")
	tok := accessToken(t, loginEnv)

	require.NoError(t, env.users.UpdateFields(t.Context(), u.ID, map[string]interface{}{"status": 0}))

	resp, envelope := env.do(t, http.MethodGet, "/api/v1/auth/me", tok, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "账号已被禁用", envelope["message"])
}

func TestLoginFailsClosedWhenStoreIsDown(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "admin@example.com", "secret123", 1)

	env.redis.Close()

	resp, _ := env.login(t, "admin@example.com", "secret123")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
