package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/SahanaD8/Trackify/internal/http/response"
	"github.com/SahanaD8/Trackify/internal/service"
)

type SecurityHandler struct {
	Visits   service.VisitService
	Presence service.PresenceService
}

func NewSecurityHandler(visits service.VisitService, presence service.PresenceService) *SecurityHandler {
	return &SecurityHandler{Visits: visits, Presence: presence}
}

func (h *SecurityHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/visitor-visits", h.visitorVisits)
	r.Get("/staff-logs", h.staffLogs)
	r.Get("/stats", h.stats)
	r.Get("/active-visitors", h.activeVisitors)
	return r
}

// visitorVisits lists the visits that checked in today.
func (h *SecurityHandler) visitorVisits(w http.ResponseWriter, r *http.Request) {
	visits, err := h.Visits.TodayVisits(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, "", visits)
}

// staffLogs lists staff movements recorded today.
func (h *SecurityHandler) staffLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.Presence.TodayLogs(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, "", logs)
}

func (h *SecurityHandler) stats(w http.ResponseWriter, r *http.Request) {
	visitStats, err := h.Visits.Stats(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	exits, entries, err := h.Presence.TodayMovements(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, "", map[string]interface{}{
		"visitors": visitStats,
		"staff": map[string]int{
			"exits_today":   exits,
			"entries_today": entries,
		},
	})
}

// activeVisitors lists visitors who checked in today, were accepted,
// and have not checked out yet.
func (h *SecurityHandler) activeVisitors(w http.ResponseWriter, r *http.Request) {
	visitors, err := h.Visits.ActiveVisitors(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, "", visitors)
}
