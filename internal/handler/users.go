package handler

import (
	"net/http"

	"github.com/Dan9191/card-ledger/internal/models"
	"github.com/gorilla/mux"
)

// CreateUser registers a user
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req models.NewUser
	if !h.decode(w, r, &req) {
		return
	}
	if req.Phone == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "phone and password are required")
		return
	}

	user, err := h.svc.CreateUser(r.Context(), req)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// GetUserByID returns a user by id
func (h *Handler) GetUserByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	user, err := h.svc.UserByID(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// GetUserByPhone returns a user by phone
func (h *Handler) GetUserByPhone(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.UserByPhone(r.Context(), mux.Vars(r)["phone"])
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UpdateUser applies a partial update
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var patch models.UserPatch
	if !h.decode(w, r, &patch) {
		return
	}
	if err := h.svc.UpdateUser(r.Context(), patch); err != nil {
		h.fail(w, err)
		return
	}
	writeStatus(w, http.StatusOK, "updated")
}

// DeleteUser removes a user and its cards
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteUser(r.Context(), id); err != nil {
		h.fail(w, err)
		return
	}
	writeStatus(w, http.StatusOK, "deleted")
}
