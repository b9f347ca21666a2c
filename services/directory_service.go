//go:generate go run go.uber.org/mock/mockgen -source=directory_service.go -destination=../mocks/mock_directory_service.go -package=mocks
package services

import (
	"log/slog"

	"chat-hub/domain"
	"chat-hub/errors"
	"chat-hub/repositories"
)

type IDirectoryService interface {
	ListUsers(actorID string) ([]domain.User, error)
	GetUser(actorID, userID string) (domain.User, error)
	SetBanned(actorID, userID string, banned bool) error
}

// DirectoryService exposes the account directory. It never mutates
// accounts except for the ban toggle, which is reserved to moderators.
type DirectoryService struct {
	users repositories.IUserRepository
	guard IAccessGuard
	log   *slog.Logger
}

func NewDirectoryService(users repositories.IUserRepository, guard IAccessGuard, log *slog.Logger) *DirectoryService {
	return &DirectoryService{users: users, guard: guard, log: log}
}

// ListUsers returns every account ordered by name, ban flag included, so
// clients can render the sidebar and moderators can see who is banned.
func (s *DirectoryService) ListUsers(actorID string) ([]domain.User, error) {
	if err := s.guard.Authorize(actorID, ApplicationScope()); err != nil {
		return nil, err
	}
	return s.users.List()
}

func (s *DirectoryService) GetUser(actorID, userID string) (domain.User, error) {
	if err := s.guard.Authorize(actorID, ApplicationScope()); err != nil {
		return domain.User{}, err
	}
	return s.users.Get(userID)
}

// SetBanned toggles the application-wide ban. Privilege is the explicit
// moderator role on the acting account, never a name comparison. Banning
// is reversible and leaves the target's data untouched.
func (s *DirectoryService) SetBanned(actorID, userID string, banned bool) error {
	if err := s.guard.Authorize(actorID, ApplicationScope()); err != nil {
		return err
	}

	actor, err := s.users.Get(actorID)
	if err != nil {
		return err
	}
	if !actor.HasRole(domain.RoleModerator) {
		return errors.ErrPermissionDenied
	}
	if actorID == userID {
		return errors.ErrInvalidOperation
	}

	if err := s.users.SetBanned(userID, banned); err != nil {
		return err
	}
	s.log.Info("ban flag updated", "user_id", userID, "banned", banned, "actor", actorID)
	return nil
}
