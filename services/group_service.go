//go:generate go run go.uber.org/mock/mockgen -source=group_service.go -destination=../mocks/mock_group_service.go -package=mocks
package services

import (
	"fmt"
	"log/slog"

	"chat-hub/domain"
	"chat-hub/errors"
	"chat-hub/repositories"

	"github.com/google/uuid"
)

type IGroupService interface {
	Create(actorID, name string, initialMembers []string, rule domain.LastAdminRule) (*domain.Group, error)
	Get(actorID, groupID string) (*domain.Group, error)
	ListFor(actorID string) ([]domain.Group, error)
	RequestJoin(actorID, groupID string) error
	ApproveRequest(actorID, groupID, userID string) error
	RejectRequest(actorID, groupID, userID string) error
	BanMember(actorID, groupID, userID string) error
	Leave(actorID, groupID string) error
	Delete(actorID, groupID string) error
}

// GroupService owns the group lifecycle. All mutations of one group run
// under a per-group lock so concurrent approve/ban/delete calls cannot
// interleave and break the aggregate invariants; different groups never
// contend. Every mutation works on a clone and persists only the full,
// invariant-preserving transition.
type GroupService struct {
	groups repositories.IGroupRepository
	users  repositories.IUserRepository
	guard  IAccessGuard
	log    *slog.Logger
	locks  *keyedMutex
}

func NewGroupService(groups repositories.IGroupRepository, users repositories.IUserRepository,
	guard IAccessGuard, log *slog.Logger) *GroupService {
	return &GroupService{
		groups: groups,
		users:  users,
		guard:  guard,
		log:    log,
		locks:  newKeyedMutex(),
	}
}

// Create builds a group with the creator forced into admins and members.
// Caller-supplied initial members must resolve to known accounts.
func (s *GroupService) Create(actorID, name string, initialMembers []string, rule domain.LastAdminRule) (*domain.Group, error) {
	if err := s.guard.Authorize(actorID, ApplicationScope()); err != nil {
		return nil, err
	}
	for _, memberID := range initialMembers {
		if _, err := s.users.Get(memberID); err != nil {
			return nil, fmt.Errorf("initial member %s: %w", memberID, err)
		}
	}

	group, err := domain.NewGroup(uuid.NewString(), name, actorID, initialMembers, rule)
	if err != nil {
		return nil, err
	}
	if err := s.groups.Save(group); err != nil {
		return nil, err
	}

	s.log.Info("group created", "group_id", group.ID, "name", name, "creator", actorID)
	return group, nil
}

// Get returns the group to any of its members.
func (s *GroupService) Get(actorID, groupID string) (*domain.Group, error) {
	if err := s.guard.Authorize(actorID, GroupScope(groupID)); err != nil {
		return nil, err
	}
	return s.groups.Get(groupID)
}

// ListFor backs the sidebar: every group the actor belongs to.
func (s *GroupService) ListFor(actorID string) ([]domain.Group, error) {
	if err := s.guard.Authorize(actorID, ApplicationScope()); err != nil {
		return nil, err
	}
	return s.groups.ListFor(actorID)
}

// RequestJoin registers the actor's intent to join. Asking twice is a
// no-op; members asking again get a conflict.
func (s *GroupService) RequestJoin(actorID, groupID string) error {
	if err := s.guard.Authorize(actorID, ApplicationScope()); err != nil {
		return err
	}
	return s.mutate(groupID, func(group *domain.Group) error {
		return group.RequestJoin(actorID)
	})
}

// ApproveRequest moves a pending request into the member set. Admin only.
func (s *GroupService) ApproveRequest(actorID, groupID, userID string) error {
	if err := s.guard.Authorize(actorID, GroupScope(groupID)); err != nil {
		return err
	}
	return s.mutate(groupID, func(group *domain.Group) error {
		if !group.IsAdmin(actorID) {
			return errors.ErrPermissionDenied
		}
		return group.Approve(userID)
	})
}

// RejectRequest drops a pending request. Admin only.
func (s *GroupService) RejectRequest(actorID, groupID, userID string) error {
	if err := s.guard.Authorize(actorID, GroupScope(groupID)); err != nil {
		return err
	}
	return s.mutate(groupID, func(group *domain.Group) error {
		if !group.IsAdmin(actorID) {
			return errors.ErrPermissionDenied
		}
		return group.Reject(userID)
	})
}

// BanMember expels a member. Group-level bans are expressed purely by
// removal from the member set. Admins cannot ban themselves; removing the
// last admin triggers the group's configured last-admin rule.
func (s *GroupService) BanMember(actorID, groupID, userID string) error {
	if err := s.guard.Authorize(actorID, GroupScope(groupID)); err != nil {
		return err
	}
	if actorID == userID {
		return errors.ErrInvalidOperation
	}
	return s.remove(groupID, userID, func(group *domain.Group) error {
		if !group.IsAdmin(actorID) {
			return errors.ErrPermissionDenied
		}
		return nil
	})
}

// Leave is the voluntary departure path. It follows the identical
// last-admin rule as banning.
func (s *GroupService) Leave(actorID, groupID string) error {
	if err := s.guard.Authorize(actorID, GroupScope(groupID)); err != nil {
		return err
	}
	return s.remove(groupID, actorID, func(*domain.Group) error { return nil })
}

// Delete tears the group down. Past messages stay in the conversation
// store, but the conversation becomes unreachable for new writes.
func (s *GroupService) Delete(actorID, groupID string) error {
	if err := s.guard.Authorize(actorID, GroupScope(groupID)); err != nil {
		return err
	}

	s.locks.Lock(groupID)
	defer s.locks.Unlock(groupID)

	group, err := s.groups.Get(groupID)
	if err != nil {
		return err
	}
	if !group.IsAdmin(actorID) {
		return errors.ErrPermissionDenied
	}

	s.log.Info("group deleted", "group_id", groupID, "actor", actorID)
	return s.groups.Delete(groupID)
}

// mutate loads the group under its lock, applies fn to a clone, and
// persists only when fn succeeded. A failed mutation changes nothing.
func (s *GroupService) mutate(groupID string, fn func(*domain.Group) error) error {
	s.locks.Lock(groupID)
	defer s.locks.Unlock(groupID)

	group, err := s.groups.Get(groupID)
	if err != nil {
		return err
	}

	next := group.Clone()
	if err := fn(next); err != nil {
		return err
	}
	return s.groups.Save(next)
}

// remove runs the member-removal path shared by BanMember and Leave,
// including last-admin resolution and implicit teardown.
func (s *GroupService) remove(groupID, userID string, check func(*domain.Group) error) error {
	s.locks.Lock(groupID)
	defer s.locks.Unlock(groupID)

	group, err := s.groups.Get(groupID)
	if err != nil {
		return err
	}

	next := group.Clone()
	if err := check(next); err != nil {
		return err
	}

	deleted, err := next.RemoveMember(userID)
	if err != nil {
		return err
	}
	if deleted {
		s.log.Info("group torn down by last-admin rule", "group_id", groupID, "rule", next.Rule)
		return s.groups.Delete(groupID)
	}
	return s.groups.Save(next)
}
