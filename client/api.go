package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"chat-hub/domain"
)

// API is a thin typed wrapper over the server's HTTP surface. Every call
// sends the session's bearer token; the caller owns retry policy.
type API struct {
	baseURL string
	http    *http.Client
	session *Session
}

func NewAPI(baseURL string, session *Session) *API {
	return &API{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		session: session,
	}
}

type credentialsRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type sendRequest struct {
	Content string `json:"content"`
}

type attachmentRequest struct {
	Ref string `json:"ref"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// Register creates the account and opens a session with the returned
// token.
func (a *API) Register(ctx context.Context, name, password string) error {
	var resp tokenResponse
	err := a.do(ctx, http.MethodPost, "/auth/register", credentialsRequest{Name: name, Password: password}, &resp)
	if err != nil {
		return err
	}
	return a.session.Open(resp.Token)
}

func (a *API) Login(ctx context.Context, name, password string) error {
	var resp tokenResponse
	err := a.do(ctx, http.MethodPost, "/auth/login", credentialsRequest{Name: name, Password: password}, &resp)
	if err != nil {
		return err
	}
	return a.session.Open(resp.Token)
}

func (a *API) Users(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := a.do(ctx, http.MethodGet, "/users", nil, &users)
	return users, err
}

func (a *API) MyGroups(ctx context.Context) ([]domain.Group, error) {
	var groups []domain.Group
	err := a.do(ctx, http.MethodGet, "/group/my", nil, &groups)
	return groups, err
}

// ListMessages fetches the full history of the conversation, oldest
// first. Used by the reconciler on every poll.
func (a *API) ListMessages(ctx context.Context, conv Conversation) ([]domain.Message, error) {
	var messages []domain.Message
	err := a.do(ctx, http.MethodGet, conv.path(), nil, &messages)
	return messages, err
}

// SendMessage posts a text message and returns the server's version of
// it, id and timestamp assigned.
func (a *API) SendMessage(ctx context.Context, conv Conversation, content string) (domain.Message, error) {
	var message domain.Message
	err := a.do(ctx, http.MethodPost, conv.path(), sendRequest{Content: content}, &message)
	return message, err
}

// SendAttachment posts a reference to an already-uploaded file.
func (a *API) SendAttachment(ctx context.Context, conv Conversation, ref string) (domain.Message, error) {
	var message domain.Message
	err := a.do(ctx, http.MethodPost, conv.path()+"/file", attachmentRequest{Ref: ref}, &message)
	return message, err
}

// SearchMessages asks the server for messages of the conversation
// matching the given terms.
func (a *API) SearchMessages(ctx context.Context, conv Conversation, terms string) ([]domain.Message, error) {
	var messages []domain.Message
	path := conv.path() + "/search?q=" + url.QueryEscape(terms)
	err := a.do(ctx, http.MethodGet, path, nil, &messages)
	return messages, err
}

func (a *API) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token := a.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		var apiErr errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Message != "" {
			return fmt.Errorf("%s %s: %s", method, path, apiErr.Message)
		}
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
