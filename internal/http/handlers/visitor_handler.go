package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/SahanaD8/Trackify/internal/domain"
	"github.com/SahanaD8/Trackify/internal/http/response"
	"github.com/SahanaD8/Trackify/internal/service"
)

type VisitorHandler struct {
	Visits service.VisitService
}

func NewVisitorHandler(visits service.VisitService) *VisitorHandler {
	return &VisitorHandler{Visits: visits}
}

func (h *VisitorHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/check/{phone}", h.check)
	r.Post("/register", h.register)
	r.Post("/check-in", h.checkIn)
	r.Post("/check-out", h.checkOut)
	r.Get("/", h.list)
	return r
}

// check reports whether a phone number belongs to a registered visitor
// and whether that visitor currently has a visit in flight.
func (h *VisitorHandler) check(w http.ResponseWriter, r *http.Request) {
	phone := chi.URLParam(r, "phone")

	lookup, err := h.Visits.Lookup(r.Context(), phone)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, "", lookup)
}

func (h *VisitorHandler) register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterVisitorReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	v, err := h.Visits.Register(r.Context(), &req)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Created(w, "Visitor registered successfully", v)
}

func (h *VisitorHandler) checkIn(w http.ResponseWriter, r *http.Request) {
	var req domain.VisitorCheckInReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	v, err := h.Visits.CheckIn(r.Context(), &req)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, "Check-in recorded, waiting for approval", v)
}

func (h *VisitorHandler) checkOut(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Phone string `json:"phoneNumber"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	at, err := h.Visits.CheckOut(r.Context(), req.Phone)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, "Checked out successfully", map[string]interface{}{
		"check_out_time": at,
	})
}

func (h *VisitorHandler) list(w http.ResponseWriter, r *http.Request) {
	visits, err := h.Visits.AllVisits(r.Context(), 0)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, "", visits)
}
