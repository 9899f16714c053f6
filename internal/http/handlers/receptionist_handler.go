package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/SahanaD8/Trackify/internal/domain"
	"github.com/SahanaD8/Trackify/internal/http/middleware"
	"github.com/SahanaD8/Trackify/internal/http/response"
	"github.com/SahanaD8/Trackify/internal/service"
)

type ReceptionistHandler struct {
	Visits service.VisitService
}

func NewReceptionistHandler(visits service.VisitService) *ReceptionistHandler {
	return &ReceptionistHandler{Visits: visits}
}

func (h *ReceptionistHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/pending-visits", h.pendingVisits)
	r.Post("/process-visit", h.processVisit)
	r.Get("/all-visits", h.allVisits)
	r.Get("/stats", h.stats)
	return r
}

func (h *ReceptionistHandler) pendingVisits(w http.ResponseWriter, r *http.Request) {
	visits, err := h.Visits.PendingVisits(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, "", visits)
}

func (h *ReceptionistHandler) processVisit(w http.ResponseWriter, r *http.Request) {
	var req domain.ProcessVisitReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	processedBy := ""
	if claims := middleware.Claims(r); claims != nil {
		processedBy = claims.Phone
	}

	v, err := h.Visits.ProcessVisit(r.Context(), req.VisitID, req.Action, processedBy)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, "Visit "+string(req.Action)+"ed", v)
}

func (h *ReceptionistHandler) allVisits(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			response.BadRequest(w, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	visits, err := h.Visits.AllVisits(r.Context(), limit)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, "", visits)
}

func (h *ReceptionistHandler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Visits.Stats(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, "", stats)
}
