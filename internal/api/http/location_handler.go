package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"officetrack-backend/internal/service"
)

// LocationHandler serves location sharing and request endpoints
type LocationHandler struct {
	locationSvc service.LocationService
}

func NewLocationHandler(locationSvc service.LocationService) *LocationHandler {
	return &LocationHandler{locationSvc: locationSvc}
}

type shareLocationRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Reason    string  `json:"reason"`
	RequestID *int32  `json:"request_id"`
}

func (h *LocationHandler) Share(w http.ResponseWriter, r *http.Request) {
	var req shareLocationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	share, err := h.locationSvc.ShareLocation(r.Context(), actorFrom(r), req.Latitude, req.Longitude, req.Reason, req.RequestID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, share)
}

func (h *LocationHandler) ListShares(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	userID := queryInt32(r, "user_id")

	shares, total, err := h.locationSvc.ListShares(r.Context(), actorFrom(r), userID, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: shares, Total: total})
}

type locationRequestRequest struct {
	TargetUserID int32 `json:"target_user_id"`
}

func (h *LocationHandler) Request(w http.ResponseWriter, r *http.Request) {
	var req locationRequestRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	request, err := h.locationSvc.RequestLocation(r.Context(), actorFrom(r), req.TargetUserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, request)
}

func (h *LocationHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	// made=true lists requests the caller sent; default lists requests
	// addressed to the caller
	made := r.URL.Query().Get("made") == "true"

	requests, total, err := h.locationSvc.ListRequests(r.Context(), actorFrom(r), made, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: requests, Total: total})
}

func (h *LocationHandler) Deny(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(mux.Vars(r), "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request id"})
		return
	}

	if err := h.locationSvc.DenyLocationRequest(r.Context(), actorFrom(r), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "denied"})
}
