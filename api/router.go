package api

import (
	"log/slog"
	"net/http"

	"chat-hub/observability"
	"chat-hub/services"

	"github.com/gorilla/mux"
)

// NewRouter builds the full HTTP surface. The auth endpoints are public;
// everything else sits behind the bearer-token middleware.
func NewRouter(authSvc services.IAuthService, directory services.IDirectoryService,
	groups services.IGroupService, chat services.IChatService,
	monitoring *observability.MonitoringManager, log *slog.Logger) http.Handler {

	authHandler := NewAuthHandler(authSvc)
	userHandler := NewUserHandler(directory)
	groupHandler := NewGroupHandler(groups)
	chatHandler := NewChatHandler(chat)

	r := mux.NewRouter()
	r.Use(Logging(log))
	r.Use(Metrics(monitoring))

	r.HandleFunc("/auth/register", authHandler.Register).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)

	s := r.NewRoute().Subrouter()
	s.Use(Authenticate)

	s.HandleFunc("/users", userHandler.List).Methods(http.MethodGet)
	s.HandleFunc("/users/{id}", userHandler.Get).Methods(http.MethodGet)
	s.HandleFunc("/users/{id}/ban", userHandler.SetBan).Methods(http.MethodPut)

	s.HandleFunc("/group", groupHandler.Create).Methods(http.MethodPost)
	s.HandleFunc("/group/my", groupHandler.Mine).Methods(http.MethodGet)
	s.HandleFunc("/group/{id}", groupHandler.Get).Methods(http.MethodGet)
	s.HandleFunc("/group/{id}", groupHandler.Delete).Methods(http.MethodDelete)
	s.HandleFunc("/group/{id}/join", groupHandler.Join).Methods(http.MethodPost)
	s.HandleFunc("/group/{id}/leave", groupHandler.Leave).Methods(http.MethodPost)
	s.HandleFunc("/group/{id}/approve/{userId}", groupHandler.Approve).Methods(http.MethodPost)
	s.HandleFunc("/group/{id}/reject/{userId}", groupHandler.Reject).Methods(http.MethodPost)
	s.HandleFunc("/group/{id}/ban/{userId}", groupHandler.Ban).Methods(http.MethodPost)

	s.HandleFunc("/chat/private/{userId}", chatHandler.ListPrivate).Methods(http.MethodGet)
	s.HandleFunc("/chat/private/{userId}", chatHandler.SendPrivate).Methods(http.MethodPost)
	s.HandleFunc("/chat/private/{userId}/file", chatHandler.SendPrivateFile).Methods(http.MethodPost)
	s.HandleFunc("/chat/private/{userId}/search", chatHandler.SearchPrivate).Methods(http.MethodGet)
	s.HandleFunc("/chat/group/{groupId}", chatHandler.ListGroup).Methods(http.MethodGet)
	s.HandleFunc("/chat/group/{groupId}", chatHandler.SendGroup).Methods(http.MethodPost)
	s.HandleFunc("/chat/group/{groupId}/file", chatHandler.SendGroupFile).Methods(http.MethodPost)
	s.HandleFunc("/chat/group/{groupId}/search", chatHandler.SearchGroup).Methods(http.MethodGet)

	return r
}
