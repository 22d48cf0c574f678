package controllers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"lessonledger-backend/config"
	"lessonledger-backend/models"
	"lessonledger-backend/routes"
)

// setupTest wires a fresh on-disk sqlite store and a full router. The email
// provider starts unconfigured; tests that need one swap controllers.Email.
func setupTest(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Customer{}, &models.Invoice{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	config.DB = db

	config.App = &config.Config{
		Port:           "8080",
		BusinessName:   "Test Music",
		BusinessEmail:  "teach@example.com",
		EmailFrom:      "Test Music <receipts@example.com>",
		JWTSecret:      "test-secret",
		JWTExpiryHours: 1,
	}

	return routes.SetupRouter(config.App)
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v\n%s", err, w.Body.String())
	}
	return body
}

func wantStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	if w.Code != status {
		t.Fatalf("status = %d, want %d\n%s", w.Code, status, w.Body.String())
	}
}

// fakeProvider is an email endpoint returning the given status, recording the
// last message it received.
func fakeProvider(t *testing.T, status int) (*httptest.Server, *map[string]string) {
	t.Helper()

	last := map[string]string{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		json.Unmarshal(raw, &last)
		w.WriteHeader(status)
		if status >= 400 {
			w.Write([]byte(`{"error":"provider rejected the message"}`))
		}
	}))
	t.Cleanup(server.Close)
	return server, &last
}

const sampleInvoice = `{
	"invoiceNo": "INV-001",
	"customer": {"name": "Alice Smith", "email": "alice@example.com", "phone": "+447700900001"},
	"programme": "lessons",
	"travelFee": 0,
	"depositAmount": 0,
	"total": 120,
	"items": [{"desc": "Piano lesson", "qty": 4, "unit": 30}],
	"dueDate": "2026-03-15"
}`

func upsertSample(t *testing.T, r *gin.Engine) int {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/invoices", sampleInvoice)
	wantStatus(t, w, http.StatusOK)
	body := decode(t, w)
	id, ok := body["id"].(float64)
	if !ok || id <= 0 {
		t.Fatalf("upsert did not return a positive id: %v", body)
	}
	return int(id)
}
