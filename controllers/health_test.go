package controllers_test

import (
	"net/http"
	"testing"

	"lessonledger-backend/config"
)

func TestHealthWithDB(t *testing.T) {
	r := setupTest(t)

	w := doJSON(t, r, http.MethodGet, "/api/health", "")
	wantStatus(t, w, http.StatusOK)
	body := decode(t, w)

	if body["ok"] != true || body["hasDB"] != true || body["dbTest"] != "ok" {
		t.Errorf("unexpected health body: %v", body)
	}
	if body["hasStatic"] != false {
		t.Error("hasStatic should be false with no STATIC_DIR")
	}
}

func TestHealthReportsBrokenDB(t *testing.T) {
	r := setupTest(t)

	// kill the underlying connection; health must report the error, not fail
	sqlDB, err := config.DB.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.Close()

	w := doJSON(t, r, http.MethodGet, "/api/health", "")
	wantStatus(t, w, http.StatusOK)
	body := decode(t, w)

	if body["hasDB"] != true {
		t.Error("hasDB should stay true when the store is merely unreachable")
	}
	if test, _ := body["dbTest"].(string); test == "ok" || test == "" {
		t.Errorf("dbTest = %q, want the error text", test)
	}
}

func TestHealthWithoutDB(t *testing.T) {
	r := setupTest(t)
	config.DB = nil

	w := doJSON(t, r, http.MethodGet, "/api/health", "")
	wantStatus(t, w, http.StatusOK)
	body := decode(t, w)

	if body["hasDB"] != false {
		t.Error("hasDB should be false with no store configured")
	}
}

func TestStoreNotConfigured(t *testing.T) {
	r := setupTest(t)
	config.DB = nil

	w := doJSON(t, r, http.MethodPost, "/api/customers", `{"name": "Alice"}`)
	wantStatus(t, w, http.StatusInternalServerError)
	if decode(t, w)["error"] != "Database not configured" {
		t.Error("store misconfiguration should produce a 500 envelope")
	}
}
