package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"officetrack-backend/internal/domain"
	"officetrack-backend/internal/service"
)

// OfficeHandler serves office CRUD and proximity endpoints
type OfficeHandler struct {
	officeSvc service.OfficeService
}

func NewOfficeHandler(officeSvc service.OfficeService) *OfficeHandler {
	return &OfficeHandler{officeSvc: officeSvc}
}

type officeRequest struct {
	Name            string   `json:"name"`
	Address         string   `json:"address"`
	Latitude        *float64 `json:"latitude"`
	Longitude       *float64 `json:"longitude"`
	HeadcountTarget *int32   `json:"headcount_target"`
}

func (req *officeRequest) toDomain() *domain.Office {
	office := &domain.Office{
		Name:            req.Name,
		Address:         req.Address,
		HeadcountTarget: req.HeadcountTarget,
	}
	if req.Latitude != nil && req.Longitude != nil {
		office.Latitude = *req.Latitude
		office.Longitude = *req.Longitude
		office.HasLocation = true
	}
	return office
}

func (h *OfficeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req officeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "office name is required"})
		return
	}

	office := req.toDomain()
	if err := h.officeSvc.CreateOffice(r.Context(), actorFrom(r), office); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, office)
}

func (h *OfficeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(mux.Vars(r), "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid office id"})
		return
	}

	office, err := h.officeSvc.GetOffice(r.Context(), actorFrom(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, office)
}

func (h *OfficeHandler) List(w http.ResponseWriter, r *http.Request) {
	offices, err := h.officeSvc.ListOffices(r.Context(), actorFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: offices, Total: int32(len(offices))})
}

func (h *OfficeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(mux.Vars(r), "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid office id"})
		return
	}

	var req officeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	office := req.toDomain()
	office.ID = id
	if err := h.officeSvc.UpdateOffice(r.Context(), actorFrom(r), office); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, office)
}

func (h *OfficeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(mux.Vars(r), "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid office id"})
		return
	}

	if err := h.officeSvc.DeleteOffice(r.Context(), actorFrom(r), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *OfficeHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	lat, okLat := queryFloat(r, "latitude")
	lon, okLon := queryFloat(r, "longitude")
	if !okLat || !okLon {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "latitude and longitude are required"})
		return
	}
	radius, ok := queryFloat(r, "radius_meters")
	if !ok {
		radius = 5000
	}

	offices, err := h.officeSvc.NearbyOffices(r.Context(), actorFrom(r), lat, lon, radius)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: offices, Total: int32(len(offices))})
}
