package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"dashboard/internal/middleware"
	"dashboard/internal/models"
	"dashboard/internal/store"
	"dashboard/internal/utils"
)

type UserHandler struct {
	users *store.UserStore
}

func NewUserHandler(users *store.UserStore) *UserHandler {
	return &UserHandler{users: users}
}

type createUserReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type updateUserReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}
	utils.JSON(w, http.StatusOK, users)
}

// Get returns one user. Admins can fetch anyone; a user can fetch
// themself only.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		utils.JSONError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.JSONError(w, http.StatusNotFound, "User not found")
		return
	}

	if !id.IsAdmin() && id.ID != userID {
		utils.JSONError(w, http.StatusForbidden, "Forbidden")
		return
	}

	u, err := h.users.GetByID(r.Context(), userID)
	if errors.Is(err, store.ErrNotFound) {
		utils.JSONError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}

	utils.JSON(w, http.StatusOK, u)
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserReq
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		return
	}

	if req.Username == "" || req.Password == "" || req.Role == "" {
		utils.JSONError(w, http.StatusBadRequest, "Username, password and role are required")
		return
	}

	role := models.Role(req.Role)
	if !role.Valid() {
		utils.JSONError(w, http.StatusBadRequest, "Invalid role")
		return
	}

	u, err := h.users.Create(r.Context(), req.Username, req.Password, role)
	if errors.Is(err, store.ErrDuplicateUsername) {
		utils.JSONError(w, http.StatusBadRequest, "Username already taken")
		return
	}
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}

	utils.JSON(w, http.StatusCreated, u)
}

// Update lets admins change any field on any user, and a user change
// their own username and password. A role field in a non-admin
// self-update is silently ignored rather than rejected.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		utils.JSONError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.JSONError(w, http.StatusNotFound, "User not found")
		return
	}

	if !id.IsAdmin() && id.ID != userID {
		utils.JSONError(w, http.StatusForbidden, "Forbidden")
		return
	}

	var req updateUserReq
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		return
	}

	if req.Role != "" && !models.Role(req.Role).Valid() {
		utils.JSONError(w, http.StatusBadRequest, "Invalid role")
		return
	}

	var patch models.UserPatch
	if req.Username != "" {
		patch.Username = &req.Username
	}
	if req.Password != "" {
		patch.Password = &req.Password
	}
	if req.Role != "" && id.IsAdmin() {
		role := models.Role(req.Role)
		patch.Role = &role
	}

	if patch.Empty() {
		utils.JSONError(w, http.StatusBadRequest, "Nothing to update")
		return
	}

	err = h.users.Update(r.Context(), userID, patch)
	if errors.Is(err, store.ErrNotFound) {
		utils.JSONError(w, http.StatusNotFound, "User not found")
		return
	}
	if errors.Is(err, store.ErrDuplicateUsername) {
		utils.JSONError(w, http.StatusBadRequest, "Username already taken")
		return
	}
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{"message": "User updated"})
}

// Delete removes a user and cascades to their records. The bootstrap
// admin is protected server-side.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.JSONError(w, http.StatusNotFound, "User not found")
		return
	}

	err = h.users.Delete(r.Context(), userID)
	if errors.Is(err, store.ErrProtectedUser) {
		utils.JSONError(w, http.StatusForbidden, "Cannot delete bootstrap admin")
		return
	}
	if errors.Is(err, store.ErrNotFound) {
		utils.JSONError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{"message": "User and associated records deleted"})
}
