package handlers

import (
	"errors"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"dashboard/internal/auth"
	"dashboard/internal/config"
	"dashboard/internal/middleware"
	"dashboard/internal/models"
	"dashboard/internal/store"
	"dashboard/internal/utils"
)

type AuthHandler struct {
	users *store.UserStore
	cfg   config.AuthConfig
}

func NewAuthHandler(users *store.UserStore, cfg config.AuthConfig) *AuthHandler {
	return &AuthHandler{users: users, cfg: cfg}
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// userPayload is the public shape of a user: never the password hash.
type userPayload struct {
	ID       int64       `json:"id"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
}

type loginResp struct {
	Token string      `json:"token"`
	User  userPayload `json:"user"`
}

// Login checks credentials and issues a signed token. Unknown username
// and wrong password produce byte-identical responses.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		return
	}

	if req.Username == "" || req.Password == "" {
		utils.JSONError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	u, err := h.users.GetByUsername(r.Context(), req.Username)
	if errors.Is(err, store.ErrNotFound) {
		utils.JSONError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)) != nil {
		utils.JSONError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := auth.Issue(h.cfg.Secret, h.cfg.TokenTTL, u)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Token error")
		return
	}

	utils.JSON(w, http.StatusOK, loginResp{
		Token: token,
		User:  userPayload{ID: u.ID, Username: u.Username, Role: u.Role},
	})
}

// Me echoes the identity embedded in the presented token; no store hit.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		utils.JSONError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]userPayload{
		"user": {ID: id.ID, Username: id.Username, Role: id.Role},
	})
}
