package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"storefront-backend/cart"
	"storefront-backend/middleware"
	"storefront-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Setenv("JWT_SECRET", "test-secret-key-for-unit-tests")

	var err error
	testDB, err = gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		panic("failed to connect to test database: " + err.Error())
	}
	// Limit to 1 open connection to prevent SQLite concurrent access issues
	// with in-memory databases.
	sqlDB, _ := testDB.DB()
	sqlDB.SetMaxOpenConns(1)

	// Raw DDL instead of AutoMigrate: the model tags use the PostgreSQL jsonb
	// type, which has no SQLite equivalent.
	err = testDB.Exec(`CREATE TABLE IF NOT EXISTS "cart_slots" (
		"key" TEXT PRIMARY KEY,
		"items" BLOB,
		"updated_at" DATETIME
	)`).Error
	if err != nil {
		panic("failed to migrate test database: " + err.Error())
	}

	code := m.Run()
	os.Exit(code)
}

// freshDB returns a clean database for each test by deleting all rows.
func freshDB() *gorm.DB {
	testDB.Exec("DELETE FROM cart_slots")
	return testDB
}

// newManager builds a session manager over a clean slot table, optionally
// pointed at a fake cart service.
func newManager(t *testing.T, remoteURL string) *cart.Manager {
	t.Helper()
	var remote *cart.RemoteClient
	if remoteURL != "" {
		remote = cart.NewRemoteClient(remoteURL)
	}
	m := cart.NewManager(cart.NewSlotStore(freshDB()), remote)
	t.Cleanup(m.Close)
	return m
}

func setupCartRouter(m *cart.Manager) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Session())
	r.Use(middleware.Identity())

	h := &CartHandler{Sessions: m}
	r.GET("/api/cart", h.GetCart)
	r.POST("/api/cart", h.AddItem)
	r.PUT("/api/cart/items/:productId", h.UpdateItem)
	r.DELETE("/api/cart/items/:productId", h.RemoveItem)
	r.DELETE("/api/cart", h.ClearCart)
	return r
}

// jsonRequest builds a request with a JSON body and a fixed session ID so a
// test can act as one browser across several requests.
func jsonRequest(method, path, sessionID string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set(middleware.SessionHeader, sessionID)
	}
	return req
}

// asUser attaches a session token for email to the request.
func asUser(t *testing.T, req *http.Request, email string) *http.Request {
	t.Helper()
	token, err := utils.GenerateToken(email, "")
	if err != nil {
		t.Fatalf("failed to generate test token: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response %q: %v", w.Body.String(), err)
	}
	return resp
}

func responseItems(t *testing.T, w *httptest.ResponseRecorder) []interface{} {
	t.Helper()
	resp := parseResponse(t, w)
	items, ok := resp["items"].([]interface{})
	if !ok {
		t.Fatalf("expected items array in response, got %v", resp)
	}
	return items
}
