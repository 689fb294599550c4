package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"officetrack-backend/internal/service"
)

// UserHandler serves profile and user administration endpoints
type UserHandler struct {
	userSvc service.UserService
}

func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r)
	user, err := h.userSvc.GetProfile(r.Context(), actor.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	officeID := queryInt32(r, "office_id")

	users, total, err := h.userSvc.ListUsers(r.Context(), actorFrom(r), officeID, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: users, Total: total})
}

type bulkCreateRequest struct {
	Users []service.BulkUserInput `json:"users"`
}

func (h *UserHandler) BulkCreate(w http.ResponseWriter, r *http.Request) {
	var req bulkCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if len(req.Users) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "users list is empty"})
		return
	}

	created, err := h.userSvc.BulkCreate(r.Context(), actorFrom(r), req.Users)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, listResponse{Items: created, Total: int32(len(created))})
}

func (h *UserHandler) Verify(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(mux.Vars(r), "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid user id"})
		return
	}

	if err := h.userSvc.VerifyUser(r.Context(), actorFrom(r), userID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "verified"})
}

type suspendRequest struct {
	Suspend bool `json:"suspend"`
}

func (h *UserHandler) Suspend(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(mux.Vars(r), "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid user id"})
		return
	}

	req := suspendRequest{Suspend: true}
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}
	}

	if err := h.userSvc.SuspendUser(r.Context(), actorFrom(r), userID, req.Suspend); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"suspended": req.Suspend})
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(mux.Vars(r), "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid user id"})
		return
	}

	if err := h.userSvc.DeleteUser(r.Context(), actorFrom(r), userID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
