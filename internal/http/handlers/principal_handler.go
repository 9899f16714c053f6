package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/SahanaD8/Trackify/internal/http/response"
	"github.com/SahanaD8/Trackify/internal/service"
)

type PrincipalHandler struct {
	Reports service.ReportService
}

func NewPrincipalHandler(reports service.ReportService) *PrincipalHandler {
	return &PrincipalHandler{Reports: reports}
}

func (h *PrincipalHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/daily-report", h.dailyReport) // GET ?date=2025-01-31, defaults to today
	r.Get("/report-range", h.reportRange) // GET ?fromDate=...&toDate=...
	return r
}

func (h *PrincipalHandler) dailyReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.Reports.Daily(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, "", report)
}

func (h *PrincipalHandler) reportRange(w http.ResponseWriter, r *http.Request) {
	report, err := h.Reports.Range(r.Context(),
		r.URL.Query().Get("fromDate"),
		r.URL.Query().Get("toDate"),
	)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, "", report)
}
