package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/SahanaD8/Trackify/internal/domain"
	"github.com/SahanaD8/Trackify/internal/http/response"
	"github.com/SahanaD8/Trackify/internal/service"
)

type StaffHandler struct {
	Presence service.PresenceService
}

func NewStaffHandler(presence service.PresenceService) *StaffHandler {
	return &StaffHandler{Presence: presence}
}

func (h *StaffHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/check/{phone}", h.check)
	r.Get("/status/{phone}", h.status)
	r.Post("/out", h.recordExit)
	r.Post("/in", h.recordEntry)
	r.Get("/", h.list)
	r.Get("/logs/{phone}", h.logs)
	return r
}

func (h *StaffHandler) check(w http.ResponseWriter, r *http.Request) {
	phone := chi.URLParam(r, "phone")

	st, err := h.Presence.Lookup(r.Context(), phone)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, "", map[string]interface{}{
		"exists": st != nil,
		"staff":  st,
	})
}

func (h *StaffHandler) status(w http.ResponseWriter, r *http.Request) {
	phone := chi.URLParam(r, "phone")

	status, err := h.Presence.Status(r.Context(), phone)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, "", status)
}

func (h *StaffHandler) recordExit(w http.ResponseWriter, r *http.Request) {
	var req domain.StaffExitReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	log, st, err := h.Presence.RecordExit(r.Context(), req.Phone, req.Purpose)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, "Exit recorded", map[string]interface{}{
		"staff": st,
		"log":   log,
	})
}

func (h *StaffHandler) recordEntry(w http.ResponseWriter, r *http.Request) {
	var req domain.StaffEntryReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	log, st, err := h.Presence.RecordEntry(r.Context(), req.Phone)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, "Entry recorded", map[string]interface{}{
		"staff": st,
		"log":   log,
	})
}

func (h *StaffHandler) list(w http.ResponseWriter, r *http.Request) {
	staff, err := h.Presence.List(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, "", staff)
}

func (h *StaffHandler) logs(w http.ResponseWriter, r *http.Request) {
	phone := chi.URLParam(r, "phone")

	logs, st, err := h.Presence.Logs(r.Context(), phone)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, "", map[string]interface{}{
		"staff": st,
		"logs":  logs,
	})
}
