package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"officetrack-backend/internal/domain"
	"officetrack-backend/internal/service"
)

// DistributionHandler serves goodies distribution and claim endpoints
type DistributionHandler struct {
	distributionSvc service.DistributionService
}

func NewDistributionHandler(distributionSvc service.DistributionService) *DistributionHandler {
	return &DistributionHandler{distributionSvc: distributionSvc}
}

type unregisteredRecipientInput struct {
	Name         string `json:"name"`
	OfficeID     *int32 `json:"office_id"`
	EmployeeCode string `json:"employee_code"`
}

type distributionRequest struct {
	OfficeID               *int32                       `json:"office_id"`
	GoodiesType            string                       `json:"goodies_type"`
	DistributionDate       string                       `json:"distribution_date"`
	TotalQuantity          int32                        `json:"total_quantity"`
	IsForAllEmployees      bool                         `json:"is_for_all_employees"`
	TargetEmployeeIDs      []int32                      `json:"target_employee_ids"`
	UnregisteredRecipients []unregisteredRecipientInput `json:"unregistered_recipients"`
}

func (req *distributionRequest) toDomain() (*domain.Distribution, error) {
	date, err := time.Parse("2006-01-02", req.DistributionDate)
	if err != nil {
		return nil, err
	}
	d := &domain.Distribution{
		OfficeID:          req.OfficeID,
		GoodiesType:       req.GoodiesType,
		DistributionDate:  date,
		TotalQuantity:     req.TotalQuantity,
		IsForAllEmployees: req.IsForAllEmployees,
		TargetEmployeeIDs: req.TargetEmployeeIDs,
	}
	for _, ur := range req.UnregisteredRecipients {
		d.UnregisteredRecipients = append(d.UnregisteredRecipients, domain.UnregisteredRecipient{
			Name:         ur.Name,
			OfficeID:     ur.OfficeID,
			EmployeeCode: ur.EmployeeCode,
		})
	}
	return d, nil
}

func (h *DistributionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req distributionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	d, err := req.toDomain()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid distribution date, expected YYYY-MM-DD"})
		return
	}

	if err := h.distributionSvc.CreateDistribution(r.Context(), actorFrom(r), d); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

type bulkDistributionRequest struct {
	Distributions []distributionRequest `json:"distributions"`
}

func (h *DistributionHandler) BulkCreate(w http.ResponseWriter, r *http.Request) {
	var req bulkDistributionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if len(req.Distributions) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "distributions list is empty"})
		return
	}

	ds := make([]*domain.Distribution, 0, len(req.Distributions))
	for _, dr := range req.Distributions {
		d, err := dr.toDomain()
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid distribution date, expected YYYY-MM-DD"})
			return
		}
		ds = append(ds, d)
	}

	if err := h.distributionSvc.BulkCreateDistributions(r.Context(), actorFrom(r), ds); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, listResponse{Items: ds, Total: int32(len(ds))})
}

func (h *DistributionHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	filter := domain.DistributionFilter{
		OfficeID: queryInt32(r, "office_id"),
		Page:     page,
		PageSize: pageSize,
	}
	if raw := r.URL.Query().Get("date"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			filter.Date = &t
		}
	}

	summaries, total, err := h.distributionSvc.ListDistributions(r.Context(), actorFrom(r), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: summaries, Total: total})
}

func (h *DistributionHandler) Receive(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(mux.Vars(r), "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid distribution id"})
		return
	}

	rec, err := h.distributionSvc.ReceiveGoodies(r.Context(), actorFrom(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (h *DistributionHandler) MarkClaim(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(mux.Vars(r), "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid distribution id"})
		return
	}

	var target service.ClaimTarget
	if err := decodeJSON(r, &target); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if (target.UserID == nil) == (target.RecipientID == nil) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "exactly one of user_id or recipient_id is required"})
		return
	}

	if err := h.distributionSvc.MarkClaimForEmployee(r.Context(), actorFrom(r), id, target); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "claimed"})
}

func (h *DistributionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(mux.Vars(r), "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid distribution id"})
		return
	}

	if err := h.distributionSvc.DeleteDistribution(r.Context(), actorFrom(r), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *DistributionHandler) DeleteReceived(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(mux.Vars(r), "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid received record id"})
		return
	}

	if err := h.distributionSvc.DeleteReceivedRecord(r.Context(), actorFrom(r), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
