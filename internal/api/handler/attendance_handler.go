package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"attendance.service/internal/core"
	"attendance.service/internal/core/model"
	"attendance.service/internal/ports/repository"
)

type AttendanceHandler struct {
	Service *core.AttendanceService
	Users   repository.UserRepository
}

type clockRequest struct {
	Email string `json:"email"`
}

func (h *AttendanceHandler) ClockIn(w http.ResponseWriter, r *http.Request) {
	user, ok := h.resolveUser(w, r)
	if !ok {
		return
	}

	rec, err := h.Service.ClockIn(r.Context(), user)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, rec)
}

func (h *AttendanceHandler) ClockOut(w http.ResponseWriter, r *http.Request) {
	user, ok := h.resolveUser(w, r)
	if !ok {
		return
	}

	rec, err := h.Service.ClockOut(r.Context(), user)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// ListEmployees pages through the user directory.
func (h *AttendanceHandler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	users, total, err := h.Users.FindAndCount(r.Context(), page, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items": users,
		"total": total,
	})
}

// resolveUser loads the acting user from the request body. The routing layer
// in front of this service owns authentication; here the email stands in for
// the authenticated principal.
func (h *AttendanceHandler) resolveUser(w http.ResponseWriter, r *http.Request) (*model.User, bool) {
	var req clockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		http.Error(w, "A valid email is required", http.StatusBadRequest)
		return nil, false
	}

	user, err := h.Users.FindByEmail(r.Context(), req.Email)
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	if user == nil {
		http.Error(w, "Unknown user", http.StatusNotFound)
		return nil, false
	}
	return user, true
}
