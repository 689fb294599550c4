package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"officetrack-backend/internal/domain"
	"officetrack-backend/internal/service"
)

// AttendanceHandler serves attendance marking and listing endpoints
type AttendanceHandler struct {
	attendanceSvc service.AttendanceService
}

func NewAttendanceHandler(attendanceSvc service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceSvc: attendanceSvc}
}

type markAttendanceRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (h *AttendanceHandler) Mark(w http.ResponseWriter, r *http.Request) {
	var req markAttendanceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	rec, err := h.attendanceSvc.MarkAttendance(r.Context(), actorFrom(r), req.Latitude, req.Longitude)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (h *AttendanceHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	filter := domain.AttendanceFilter{
		OfficeID: queryInt32(r, "office_id"),
		UserID:   queryInt32(r, "user_id"),
		Page:     page,
		PageSize: pageSize,
	}
	if raw := r.URL.Query().Get("from"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			filter.From = &t
		}
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			filter.To = &t
		}
	}

	records, total, err := h.attendanceSvc.ListAttendance(r.Context(), actorFrom(r), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: records, Total: total})
}

func (h *AttendanceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(mux.Vars(r), "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid record id"})
		return
	}

	if err := h.attendanceSvc.DeleteAttendance(r.Context(), actorFrom(r), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
