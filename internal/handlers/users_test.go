package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"dashboard/internal/models"
)

func decodeUser(t *testing.T, body []byte) models.User {
	t.Helper()
	var u models.User
	if err := json.Unmarshal(body, &u); err != nil {
		t.Fatalf("decode user: %v", err)
	}
	return u
}

func TestUserListAdminOnly(t *testing.T) {
	r := newTestRouter(t, "h_user_list")
	adminToken := login(t, r, "admin", "admin123")
	userToken := login(t, r, "user", "user123")

	w := doJSON(t, r, http.MethodGet, "/api/users", adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("admin list: status %d, body %s", w.Code, w.Body.String())
	}
	var users []models.User
	if err := json.Unmarshal(w.Body.Bytes(), &users); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 seeded users, got %d", len(users))
	}

	w = doJSON(t, r, http.MethodGet, "/api/users", userToken, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("user list: status %d", w.Code)
	}
}

func TestUserGetSelfAndOther(t *testing.T) {
	r := newTestRouter(t, "h_user_get")
	adminToken := login(t, r, "admin", "admin123")
	userToken := login(t, r, "user", "user123")

	w := doJSON(t, r, http.MethodGet, "/api/users/2", userToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("self get: status %d", w.Code)
	}
	if u := decodeUser(t, w.Body.Bytes()); u.Username != "user" {
		t.Fatalf("unexpected user: %+v", u)
	}

	w = doJSON(t, r, http.MethodGet, "/api/users/1", userToken, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("cross-user get: status %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/api/users/2", adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("admin get: status %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/api/users/99", adminToken, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing user: status %d", w.Code)
	}
}

func TestUserCreate(t *testing.T) {
	r := newTestRouter(t, "h_user_create")
	token := login(t, r, "admin", "admin123")

	w := doJSON(t, r, http.MethodPost, "/api/users", token,
		map[string]string{"username": "carol", "password": "carolpw", "role": "user"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status %d, body %s", w.Code, w.Body.String())
	}
	created := decodeUser(t, w.Body.Bytes())
	if created.ID == 0 || created.Role != models.RoleUser {
		t.Fatalf("unexpected created user: %+v", created)
	}

	// The new account can log in.
	login(t, r, "carol", "carolpw")
}

func TestUserCreateValidation(t *testing.T) {
	r := newTestRouter(t, "h_user_create_validation")
	token := login(t, r, "admin", "admin123")

	w := doJSON(t, r, http.MethodPost, "/api/users", token,
		map[string]string{"username": "dave"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing fields: status %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/users", token,
		map[string]string{"username": "dave", "password": "pw", "role": "superuser"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid role: status %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/users", token,
		map[string]string{"username": "admin", "password": "pw", "role": "user"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate username: status %d, body %s", w.Code, w.Body.String())
	}
}

func TestUserCreateForbiddenForUser(t *testing.T) {
	r := newTestRouter(t, "h_user_create_forbidden")
	token := login(t, r, "user", "user123")

	w := doJSON(t, r, http.MethodPost, "/api/users", token,
		map[string]string{"username": "eve", "password": "pw", "role": "user"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("status %d", w.Code)
	}
}

func TestUserUpdateSelfRoleIgnored(t *testing.T) {
	r := newTestRouter(t, "h_user_self_role")
	adminToken := login(t, r, "admin", "admin123")
	userToken := login(t, r, "user", "user123")

	// A role escalation attempt rides along a legitimate self-update and
	// is dropped without an error.
	w := doJSON(t, r, http.MethodPut, "/api/users/2", userToken,
		map[string]string{"username": "user2", "role": "admin"})
	if w.Code != http.StatusOK {
		t.Fatalf("self update: status %d, body %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/api/users/2", adminToken, nil)
	got := decodeUser(t, w.Body.Bytes())
	if got.Username != "user2" {
		t.Fatalf("username not updated: %+v", got)
	}
	if got.Role != models.RoleUser {
		t.Fatalf("self-update escalated role: %+v", got)
	}
}

func TestUserUpdateSelfPassword(t *testing.T) {
	r := newTestRouter(t, "h_user_self_password")
	token := login(t, r, "user", "user123")

	w := doJSON(t, r, http.MethodPut, "/api/users/2", token,
		map[string]string{"password": "newpass1"})
	if w.Code != http.StatusOK {
		t.Fatalf("update: status %d, body %s", w.Code, w.Body.String())
	}

	login(t, r, "user", "newpass1")

	w = doJSON(t, r, http.MethodPost, "/api/login", "",
		map[string]string{"username": "user", "password": "user123"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("old password still valid: status %d", w.Code)
	}
}

func TestUserUpdateAdminChangesRole(t *testing.T) {
	r := newTestRouter(t, "h_user_admin_role")
	token := login(t, r, "admin", "admin123")

	w := doJSON(t, r, http.MethodPut, "/api/users/2", token,
		map[string]string{"role": "admin"})
	if w.Code != http.StatusOK {
		t.Fatalf("update: status %d, body %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/api/users/2", token, nil)
	if got := decodeUser(t, w.Body.Bytes()); got.Role != models.RoleAdmin {
		t.Fatalf("role not updated: %+v", got)
	}
}

func TestUserUpdateEdgeCases(t *testing.T) {
	r := newTestRouter(t, "h_user_update_edges")
	adminToken := login(t, r, "admin", "admin123")
	userToken := login(t, r, "user", "user123")

	w := doJSON(t, r, http.MethodPut, "/api/users/2", adminToken, map[string]string{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("empty patch: status %d, body %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPut, "/api/users/2", adminToken,
		map[string]string{"role": "superuser"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid role: status %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPut, "/api/users/1", userToken,
		map[string]string{"username": "sneaky"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("cross-user update: status %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPut, "/api/users/99", adminToken,
		map[string]string{"username": "ghost"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing user: status %d", w.Code)
	}
}

func TestUserDeleteCascade(t *testing.T) {
	r := newTestRouter(t, "h_user_delete_cascade")
	token := login(t, r, "admin", "admin123")

	w := doJSON(t, r, http.MethodDelete, "/api/users/2", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete: status %d, body %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/api/users/2", token, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("deleted user still found: status %d", w.Code)
	}

	// Both seeded records belonged to the deleted user.
	w = doJSON(t, r, http.MethodGet, "/api/records", token, nil)
	if recs := decodeRecords(t, w); len(recs) != 0 {
		t.Fatalf("records survived cascade: %+v", recs)
	}
	w = doJSON(t, r, http.MethodGet, "/api/records/1", token, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("record reachable after cascade: status %d", w.Code)
	}
}

func TestUserDeleteBootstrapAdminProtected(t *testing.T) {
	r := newTestRouter(t, "h_user_delete_bootstrap")
	token := login(t, r, "admin", "admin123")

	w := doJSON(t, r, http.MethodDelete, "/api/users/1", token, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/api/users/1", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("bootstrap admin should remain: status %d", w.Code)
	}
}

func TestUserDeleteNotFoundAndForbidden(t *testing.T) {
	r := newTestRouter(t, "h_user_delete_misc")
	adminToken := login(t, r, "admin", "admin123")
	userToken := login(t, r, "user", "user123")

	w := doJSON(t, r, http.MethodDelete, "/api/users/99", adminToken, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing user: status %d", w.Code)
	}

	w = doJSON(t, r, http.MethodDelete, "/api/users/2", userToken, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("non-admin delete: status %d", w.Code)
	}
}
