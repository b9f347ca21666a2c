package api

import (
	"encoding/json"
	"net/http"

	"chat-hub/services"

	"github.com/gorilla/mux"
)

type ChatHandler struct {
	chat services.IChatService
}

func NewChatHandler(chat services.IChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

type sendRequest struct {
	Content string `json:"content"`
}

type attachmentRequest struct {
	Ref string `json:"ref"`
}

func (h *ChatHandler) SendPrivate(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	message, err := h.chat.SendPrivate(r.Context(), ActorID(r), mux.Vars(r)["userId"], req.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, message)
}

func (h *ChatHandler) SendGroup(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	message, err := h.chat.SendGroup(r.Context(), ActorID(r), mux.Vars(r)["groupId"], req.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, message)
}

func (h *ChatHandler) SendPrivateFile(w http.ResponseWriter, r *http.Request) {
	var req attachmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	message, err := h.chat.SendPrivateAttachment(r.Context(), ActorID(r), mux.Vars(r)["userId"], req.Ref)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, message)
}

func (h *ChatHandler) SendGroupFile(w http.ResponseWriter, r *http.Request) {
	var req attachmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	message, err := h.chat.SendGroupAttachment(r.Context(), ActorID(r), mux.Vars(r)["groupId"], req.Ref)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, message)
}

func (h *ChatHandler) ListPrivate(w http.ResponseWriter, r *http.Request) {
	messages, err := h.chat.ListPrivate(r.Context(), ActorID(r), mux.Vars(r)["userId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

func (h *ChatHandler) ListGroup(w http.ResponseWriter, r *http.Request) {
	messages, err := h.chat.ListGroup(r.Context(), ActorID(r), mux.Vars(r)["groupId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

func (h *ChatHandler) SearchPrivate(w http.ResponseWriter, r *http.Request) {
	terms := r.URL.Query().Get("q")
	messages, err := h.chat.SearchPrivate(r.Context(), ActorID(r), mux.Vars(r)["userId"], terms)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

func (h *ChatHandler) SearchGroup(w http.ResponseWriter, r *http.Request) {
	terms := r.URL.Query().Get("q")
	messages, err := h.chat.SearchGroup(r.Context(), ActorID(r), mux.Vars(r)["groupId"], terms)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}
