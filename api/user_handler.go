package api

import (
	"encoding/json"
	"net/http"

	"chat-hub/services"

	"github.com/gorilla/mux"
)

type UserHandler struct {
	directory services.IDirectoryService
}

func NewUserHandler(directory services.IDirectoryService) *UserHandler {
	return &UserHandler{directory: directory}
}

type banRequest struct {
	Banned bool `json:"banned"`
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.directory.ListUsers(ActorID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.directory.GetUser(ActorID(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// SetBan toggles the application-wide ban on the target account.
func (h *UserHandler) SetBan(w http.ResponseWriter, r *http.Request) {
	var req banRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.directory.SetBanned(ActorID(r), mux.Vars(r)["id"], req.Banned); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
