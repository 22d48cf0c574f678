package controllers_test

import (
	"fmt"
	"net/http"
	"testing"
)

func TestCreateCustomerAndList(t *testing.T) {
	r := setupTest(t)

	w := doJSON(t, r, http.MethodPost, "/api/customers",
		`{"name": "  Alice Smith  ", "email": "alice@example.com", "phone": "+447700900001"}`)
	wantStatus(t, w, http.StatusOK)
	body := decode(t, w)

	id, ok := body["id"].(float64)
	if body["ok"] != true || !ok || id <= 0 {
		t.Fatalf("create did not return ok with a positive id: %v", body)
	}

	w = doJSON(t, r, http.MethodGet, "/api/customers", "")
	wantStatus(t, w, http.StatusOK)
	list := decode(t, w)

	customers, _ := list["customers"].([]interface{})
	found := false
	for _, raw := range customers {
		row := raw.(map[string]interface{})
		if row["id"].(float64) == id {
			found = true
			if row["name"] != "Alice Smith" {
				t.Errorf("name = %q, want trimmed", row["name"])
			}
		}
	}
	if !found {
		t.Error("created customer missing from the list")
	}
}

func TestCreateCustomerRequiresName(t *testing.T) {
	r := setupTest(t)

	w := doJSON(t, r, http.MethodPost, "/api/customers", `{"name": "   "}`)
	wantStatus(t, w, http.StatusBadRequest)
	body := decode(t, w)
	if body["ok"] != false || body["error"] != "Name is required" {
		t.Errorf("unexpected body: %v", body)
	}

	w = doJSON(t, r, http.MethodPost, "/api/customers", `{not json`)
	wantStatus(t, w, http.StatusBadRequest)
	if decode(t, w)["error"] != "Invalid JSON" {
		t.Error("malformed body should report Invalid JSON")
	}
}

func TestListCustomersFilterAndLimit(t *testing.T) {
	r := setupTest(t)

	for i, name := range []string{"Alice Smith", "Bob Jones", "Alicia Keys"} {
		w := doJSON(t, r, http.MethodPost, "/api/customers",
			fmt.Sprintf(`{"name": "%s", "email": "c%d@example.com"}`, name, i))
		wantStatus(t, w, http.StatusOK)
	}

	w := doJSON(t, r, http.MethodGet, "/api/customers?q=ALI", "")
	wantStatus(t, w, http.StatusOK)
	customers := decode(t, w)["customers"].([]interface{})
	if len(customers) != 2 {
		t.Errorf("q=ALI matched %d customers, want 2", len(customers))
	}

	w = doJSON(t, r, http.MethodGet, "/api/customers?limit=2", "")
	customers = decode(t, w)["customers"].([]interface{})
	if len(customers) != 2 {
		t.Errorf("limit=2 returned %d customers", len(customers))
	}

	// email matches too
	w = doJSON(t, r, http.MethodGet, "/api/customers?q=c1@example", "")
	customers = decode(t, w)["customers"].([]interface{})
	if len(customers) != 1 {
		t.Errorf("email filter matched %d customers, want 1", len(customers))
	}
}
