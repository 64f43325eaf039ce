package httpapi

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kuryentech/gardian-admin/internal/server/models"
	"github.com/kuryentech/gardian-admin/internal/server/services"
)

// 10 MiB cap on evidence uploads.
const maxEvidenceSize = 10 << 20

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := services.ReportFilter{
		Search: q.Get("search"),
		Status: q.Get("status"),
	}
	if raw := q.Get("month"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			filter.Month = v
		}
	}
	if raw := q.Get("year"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			filter.Year = v
		}
	}

	reports, err := s.reports.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, reports)
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	reportID := chi.URLParam(r, "reportID")
	if reportID == "" {
		writeError(w, http.StatusBadRequest, "missing_report_id")
		return
	}

	report, err := s.reports.Get(r.Context(), reportID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// handleUpdateReportStatus accepts either a bare JSON body for transitions to
// Pending/Withdrawn, or a multipart form with a "status" field and a
// "resolvedImage" file when resolving.
func (s *Server) handleUpdateReportStatus(w http.ResponseWriter, r *http.Request) {
	reportID := chi.URLParam(r, "reportID")
	if reportID == "" {
		writeError(w, http.StatusBadRequest, "missing_report_id")
		return
	}

	var rawStatus string
	var evidence []byte
	var contentType string

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxEvidenceSize); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		rawStatus = r.FormValue("status")

		file, header, err := r.FormFile("resolvedImage")
		if err == nil {
			defer file.Close()
			evidence, err = io.ReadAll(io.LimitReader(file, maxEvidenceSize+1))
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_request")
				return
			}
			if len(evidence) > maxEvidenceSize {
				writeError(w, http.StatusBadRequest, "invalid_request")
				return
			}
			contentType = header.Header.Get("Content-Type")
		}
	} else {
		var req updateStatusRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		rawStatus = req.Status
	}

	// the empty-string default of ParseReportStatus is for the scan path
	// only; a status update must name its target explicitly
	if rawStatus == "" {
		writeError(w, http.StatusBadRequest, "invalid_status")
		return
	}

	target, err := models.ParseReportStatus(rawStatus)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_status")
		return
	}

	if err := s.reports.UpdateStatus(r.Context(), reportID, target, evidence, contentType); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": string(target)})
}

func (s *Server) handleReportStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.reports.Stats(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleExportReports(w http.ResponseWriter, r *http.Request) {
	month, _ := strconv.Atoi(r.URL.Query().Get("month"))
	year, _ := strconv.Atoi(r.URL.Query().Get("year"))

	workbook, err := s.exports.BuildMonthlyWorkbook(r.Context(), month, year)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	defer workbook.Close()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", services.WorkbookName(month, year)))
	if err := workbook.Write(w); err != nil {
		s.logger.Error(r.Context(), "workbook write failed", "error", err.Error())
	}
}
