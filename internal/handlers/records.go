package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"dashboard/internal/middleware"
	"dashboard/internal/store"
	"dashboard/internal/utils"
)

type RecordHandler struct {
	records *store.RecordStore
}

func NewRecordHandler(records *store.RecordStore) *RecordHandler {
	return &RecordHandler{records: records}
}

type recordReq struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	UserID      int64  `json:"user_id"`
}

// List returns records visible to the caller: admins see everything,
// regular users only their own. Search and sort apply within that scope.
func (h *RecordHandler) List(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		utils.JSONError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	q := r.URL.Query()
	opts := store.ListOptions{
		Search: q.Get("search"),
		Sort:   q.Get("sort"),
		Order:  q.Get("order"),
	}
	if !id.IsAdmin() {
		opts.OwnerID = &id.ID
	}

	recs, err := h.records.List(r.Context(), opts)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}

	utils.JSON(w, http.StatusOK, recs)
}

func (h *RecordHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		utils.JSONError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	recID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.JSONError(w, http.StatusNotFound, "Record not found")
		return
	}

	rec, err := h.records.Get(r.Context(), recID)
	if errors.Is(err, store.ErrNotFound) {
		utils.JSONError(w, http.StatusNotFound, "Record not found")
		return
	}
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}

	if !id.IsAdmin() && rec.UserID != id.ID {
		utils.JSONError(w, http.StatusForbidden, "Forbidden")
		return
	}

	utils.JSON(w, http.StatusOK, rec)
}

func (h *RecordHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req recordReq
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		return
	}

	if req.Title == "" || req.Description == "" || req.UserID == 0 {
		utils.JSONError(w, http.StatusBadRequest, "Title, description and user_id are required")
		return
	}

	rec, err := h.records.Create(r.Context(), req.Title, req.Description, req.UserID)
	if errors.Is(err, store.ErrOwnerNotFound) {
		utils.JSONError(w, http.StatusBadRequest, "User not found")
		return
	}
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}

	utils.JSON(w, http.StatusCreated, rec)
}

func (h *RecordHandler) Update(w http.ResponseWriter, r *http.Request) {
	recID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.JSONError(w, http.StatusNotFound, "Record not found")
		return
	}

	var req recordReq
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		return
	}

	if req.Title == "" || req.Description == "" || req.UserID == 0 {
		utils.JSONError(w, http.StatusBadRequest, "Title, description and user_id are required")
		return
	}

	rec, err := h.records.Update(r.Context(), recID, req.Title, req.Description, req.UserID)
	if errors.Is(err, store.ErrOwnerNotFound) {
		utils.JSONError(w, http.StatusBadRequest, "User not found")
		return
	}
	if errors.Is(err, store.ErrNotFound) {
		utils.JSONError(w, http.StatusNotFound, "Record not found")
		return
	}
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}

	utils.JSON(w, http.StatusOK, rec)
}

func (h *RecordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	recID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.JSONError(w, http.StatusNotFound, "Record not found")
		return
	}

	err = h.records.Delete(r.Context(), recID)
	if errors.Is(err, store.ErrNotFound) {
		utils.JSONError(w, http.StatusNotFound, "Record not found")
		return
	}
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{"message": "Record deleted"})
}
