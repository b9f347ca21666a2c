package api

import (
	"encoding/json"
	"net/http"

	"chat-hub/domain"
	"chat-hub/services"

	"github.com/gorilla/mux"
)

type GroupHandler struct {
	groups services.IGroupService
}

func NewGroupHandler(groups services.IGroupService) *GroupHandler {
	return &GroupHandler{groups: groups}
}

type createGroupRequest struct {
	Name    string               `json:"name"`
	Members []string             `json:"members"`
	Rule    domain.LastAdminRule `json:"rule"`
}

func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	group, err := h.groups.Create(ActorID(r), req.Name, req.Members, req.Rule)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, group)
}

func (h *GroupHandler) Get(w http.ResponseWriter, r *http.Request) {
	group, err := h.groups.Get(ActorID(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, group)
}

// Mine lists the caller's groups for the sidebar.
func (h *GroupHandler) Mine(w http.ResponseWriter, r *http.Request) {
	groups, err := h.groups.ListFor(ActorID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

func (h *GroupHandler) Join(w http.ResponseWriter, r *http.Request) {
	if err := h.groups.RequestJoin(ActorID(r), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *GroupHandler) Approve(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.groups.ApproveRequest(ActorID(r), vars["id"], vars["userId"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *GroupHandler) Reject(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.groups.RejectRequest(ActorID(r), vars["id"], vars["userId"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *GroupHandler) Ban(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.groups.BanMember(ActorID(r), vars["id"], vars["userId"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *GroupHandler) Leave(w http.ResponseWriter, r *http.Request) {
	if err := h.groups.Leave(ActorID(r), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *GroupHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.groups.Delete(ActorID(r), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
