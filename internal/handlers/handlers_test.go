package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dashboard/internal/config"
	"dashboard/internal/models"
	"dashboard/internal/testutil"
)

func newTestRouter(t *testing.T, name string) http.Handler {
	t.Helper()
	d := testutil.OpenTestDB(t, name)
	h := NewHandler(d, config.AuthConfig{Secret: testutil.Secret, TokenTTL: time.Hour})
	return NewRouter(h, testutil.Secret)
}

func doJSON(t *testing.T, r http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, r http.Handler, username, password string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/login", "",
		map[string]string{"username": username, "password": password})
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: status %d, body %s", username, w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("login returned empty token")
	}
	return resp.Token
}

func decodeRecords(t *testing.T, w *httptest.ResponseRecorder) []models.Record {
	t.Helper()
	var recs []models.Record
	if err := json.Unmarshal(w.Body.Bytes(), &recs); err != nil {
		t.Fatalf("decode records: %v (body %s)", err, w.Body.String())
	}
	return recs
}
