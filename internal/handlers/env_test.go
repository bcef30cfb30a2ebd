package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mercaved/marketplace/internal/authz"
	"github.com/mercaved/marketplace/internal/events"
	"github.com/mercaved/marketplace/internal/handlers"
	"github.com/mercaved/marketplace/internal/hash"
	authmw "github.com/mercaved/marketplace/internal/middleware/auth"
	"github.com/mercaved/marketplace/internal/models"
	"github.com/mercaved/marketplace/internal/tokens"
	httpserver "github.com/mercaved/marketplace/internal/transport/http"
)

var (
	testSecret   = []byte("test-secret")
	testPassword = "secret123"

	seq atomic.Uint64
)

type testEnv struct {
	t  *testing.T
	e  *echo.Echo
	db *gorm.DB
}

// newEnv wires the full router against an in-memory store, with events
// going to the no-op publisher. Requests go through the real middleware
// chain, cookies included.
func newEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Administrator{},
		&models.Vendor{},
		&models.Courier{},
		&models.Product{},
		&models.Combo{},
		&models.Promotion{},
	))

	resolver := &authz.Resolver{DB: db, Secret: testSecret}
	producer := events.Noop{}

	e := echo.New()
	httpserver.Register(e, &httpserver.Deps{
		Auth:       &authmw.Middleware{Resolver: resolver},
		AuthAPI:    &handlers.AuthHandler{DB: db, Secret: testSecret, Producer: producer},
		Products:   &handlers.ProductHandler{DB: db, Producer: producer},
		Combos:     &handlers.ComboHandler{DB: db, Producer: producer},
		Promotions: &handlers.PromotionHandler{DB: db, Producer: producer},
		Admins:     &handlers.AdminHandler{DB: db, Resolver: resolver},
		Vendors:    &handlers.VendorAdminHandler{DB: db, Resolver: resolver},
		Couriers:   &handlers.CourierAdminHandler{DB: db, Resolver: resolver},
		Profile:    &handlers.ProfileHandler{DB: db},
	})

	return &testEnv{t: t, e: e, db: db}
}

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func (env *testEnv) request(method, path string, body any, cookies ...*http.Cookie) (*httptest.ResponseRecorder, apiResponse) {
	env.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}

	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)

	var resp apiResponse
	if rec.Body.Len() > 0 {
		require.NoError(env.t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func (env *testEnv) seedVendor(active bool, region models.Region) models.Vendor {
	env.t.Helper()

	pwHash, err := hash.HashPassword(testPassword)
	require.NoError(env.t, err)

	n := seq.Add(1)
	vendor := models.Vendor{
		Email:         fmt.Sprintf("vendor%d@example.com", n),
		PasswordHash:  pwHash,
		Name:          fmt.Sprintf("Licorería %d", n),
		Address:       "Av. Principal",
		Region:        region,
		Phone1:        "04140000001",
		Active:        active,
		AcceptedTerms: true,
	}
	require.NoError(env.t, env.db.Create(&vendor).Error)
	return vendor
}

func (env *testEnv) seedAdmin(role models.Role, region models.Region) models.Administrator {
	env.t.Helper()

	pwHash, err := hash.HashPassword(testPassword)
	require.NoError(env.t, err)

	n := seq.Add(1)
	admin := models.Administrator{
		Username:     fmt.Sprintf("admin%d", n),
		PasswordHash: pwHash,
		Role:         role,
		Region:       region,
		Email:        fmt.Sprintf("admin%d@example.com", n),
		Phone:        "04140000002",
	}
	require.NoError(env.t, env.db.Create(&admin).Error)
	return admin
}

func (env *testEnv) vendorCookie(vendor models.Vendor) *http.Cookie {
	env.t.Helper()
	raw, err := tokens.SignVendor(&vendor, testSecret, time.Now().UTC())
	require.NoError(env.t, err)
	return &http.Cookie{Name: tokens.VendorCookieName, Value: raw}
}

func (env *testEnv) adminCookie(admin models.Administrator) *http.Cookie {
	env.t.Helper()
	raw, err := tokens.SignAdmin(&admin, testSecret, time.Now().UTC())
	require.NoError(env.t, err)
	return &http.Cookie{Name: tokens.AdminCookieName, Value: raw}
}
