package api

import (
	"bytes"
	"ecommerce_api/internal/config"
	"ecommerce_api/internal/domain"
	"ecommerce_api/internal/middleware"
	"ecommerce_api/internal/utils"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newAuthRouter wires the auth and permission routes against an in-memory
// database, the way cmd/server does.
func newAuthRouter(t *testing.T) (*gin.Engine, *gorm.DB, *config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.Category{},
		&domain.Product{},
		&domain.Rating{},
		&domain.Review{},
	))

	cfg := &config.Config{JWTSecret: "test-secret", JWTAlgorithm: "HS256", TokenTTLMin: 20}
	authRequired := middleware.JWTAuthMiddleware(cfg.JWTSecret, cfg.JWTAlgorithm)

	r := gin.New()
	auth := r.Group("/auth")
	auth.POST("/", RegisterHandler(db))
	auth.POST("/token", TokenHandler(db, cfg))
	auth.GET("/read_current_user", authRequired, ReadCurrentUserHandler())
	auth.DELETE("/delete", authRequired, DeleteUserHandler(db))
	r.PATCH("/permission/", authRequired, SwitchPermissionHandler(db))

	return r, db, cfg
}

// tokenFor issues a bearer token for a seeded user.
func tokenFor(t *testing.T, cfg *config.Config, user *domain.User) string {
	t.Helper()
	token, err := utils.GenerateToken(user, cfg.JWTSecret, cfg.JWTAlgorithm, time.Minute)
	require.NoError(t, err)
	return "Bearer " + token
}

func seedRoleUser(t *testing.T, db *gorm.DB, username, role string) *domain.User {
	t.Helper()
	user := domain.User{
		Username:       username,
		Email:          username + "@example.com",
		HashedPassword: "x",
		IsActive:       true,
		Role:           role,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func doJSON(r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterEndpoint(t *testing.T) {
	r, _, _ := newAuthRouter(t)

	w := doJSON(r, http.MethodPost, "/auth/", "", gin.H{
		"username": "ada",
		"email":    "ada@example.com",
		"password": "s3cretpass",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	// Missing email is a validation failure
	w = doJSON(r, http.MethodPost, "/auth/", "", gin.H{
		"username": "bob",
		"password": "s3cretpass",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// Duplicate username conflicts
	w = doJSON(r, http.MethodPost, "/auth/", "", gin.H{
		"username": "ada",
		"email":    "other@example.com",
		"password": "s3cretpass",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestTokenEndpoint(t *testing.T) {
	r, _, _ := newAuthRouter(t)

	w := doJSON(r, http.MethodPost, "/auth/", "", gin.H{
		"username": "ada",
		"email":    "ada@example.com",
		"password": "s3cretpass",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Credentials are exchanged as form data
	form := url.Values{"username": {"ada"}, "password": {"s3cretpass"}}
	req := httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "bearer", resp.TokenType)
	assert.NotEmpty(t, resp.AccessToken)

	// Bad credentials are rejected
	form = url.Values{"username": {"ada"}, "password": {"wrong"}}
	req = httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestReadCurrentUserEndpoint(t *testing.T) {
	r, db, cfg := newAuthRouter(t)
	supplier := seedRoleUser(t, db, "sam", domain.RoleSupplier)

	w := doJSON(r, http.MethodGet, "/auth/read_current_user", tokenFor(t, cfg, supplier), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		User struct {
			Username   string `json:"username"`
			ID         uint   `json:"id"`
			IsAdmin    bool   `json:"is_admin"`
			IsSupplier bool   `json:"is_supplier"`
			IsCustomer bool   `json:"is_customer"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "sam", resp.User.Username)
	assert.Equal(t, supplier.ID, resp.User.ID)
	assert.True(t, resp.User.IsSupplier)
	assert.False(t, resp.User.IsAdmin)

	// No token at all
	w = doJSON(r, http.MethodGet, "/auth/read_current_user", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestExpiredTokenIsForbidden(t *testing.T) {
	r, db, cfg := newAuthRouter(t)
	user := seedRoleUser(t, db, "ada", domain.RoleCustomer)

	expired, err := utils.GenerateToken(user, cfg.JWTSecret, cfg.JWTAlgorithm, -time.Minute)
	require.NoError(t, err)

	w := doJSON(r, http.MethodGet, "/auth/read_current_user", "Bearer "+expired, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeleteUserEndpoint(t *testing.T) {
	r, db, cfg := newAuthRouter(t)
	admin := seedRoleUser(t, db, "boss", domain.RoleAdmin)
	otherAdmin := seedRoleUser(t, db, "boss2", domain.RoleAdmin)
	customer := seedRoleUser(t, db, "ada", domain.RoleCustomer)

	adminToken := tokenFor(t, cfg, admin)

	// Non-admin callers are rejected
	w := doJSON(r, http.MethodDelete, "/auth/delete?user_id=1", tokenFor(t, cfg, customer), nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Admin deactivates, then reactivates
	path := "/auth/delete?user_id=" + itoa(customer.ID)
	w = doJSON(r, http.MethodDelete, path, adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var row domain.User
	require.NoError(t, db.First(&row, customer.ID).Error)
	assert.False(t, row.IsActive)

	w = doJSON(r, http.MethodDelete, path, adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, db.First(&row, customer.ID).Error)
	assert.True(t, row.IsActive)

	// Admin accounts cannot be deactivated
	w = doJSON(r, http.MethodDelete, "/auth/delete?user_id="+itoa(otherAdmin.ID), adminToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Unknown target
	w = doJSON(r, http.MethodDelete, "/auth/delete?user_id=9999", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSwitchPermissionEndpoint(t *testing.T) {
	r, db, cfg := newAuthRouter(t)
	admin := seedRoleUser(t, db, "boss", domain.RoleAdmin)
	customer := seedRoleUser(t, db, "ada", domain.RoleCustomer)

	adminToken := tokenFor(t, cfg, admin)
	path := "/permission/?user_id=" + itoa(customer.ID)

	// Customer becomes supplier
	w := doJSON(r, http.MethodPatch, path, adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var row domain.User
	require.NoError(t, db.First(&row, customer.ID).Error)
	assert.Equal(t, domain.RoleSupplier, row.Role)

	// And back again
	w = doJSON(r, http.MethodPatch, path, adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, db.First(&row, customer.ID).Error)
	assert.Equal(t, domain.RoleCustomer, row.Role)

	// Only admins switch roles
	w = doJSON(r, http.MethodPatch, path, tokenFor(t, cfg, customer), nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// The switch never applies to admins
	w = doJSON(r, http.MethodPatch, "/permission/?user_id="+itoa(admin.ID), adminToken, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

// itoa formats a uint id for query strings.
func itoa(id uint) string {
	return strconv.Itoa(int(id))
}
