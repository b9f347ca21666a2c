//go:generate go run go.uber.org/mock/mockgen -source=guard.go -destination=../mocks/mock_access_guard.go -package=mocks
package services

import (
	"chat-hub/errors"
	"chat-hub/repositories"
)

// Scope describes what an operation is about to touch. The zero GroupID
// means application scope: only the account-level ban is checked. A group
// scope additionally requires membership; being banned from a group is
// simple absence from its member set, there is no separate ban list.
type Scope struct {
	GroupID string
}

func ApplicationScope() Scope         { return Scope{} }
func GroupScope(groupID string) Scope { return Scope{GroupID: groupID} }
func (s Scope) IsApplication() bool   { return s.GroupID == "" }

type IAccessGuard interface {
	Authorize(userID string, scope Scope) error
}

// AccessGuard is the single check run before every authenticated
// operation. Reads only; the repositories provide whatever locking the
// lookups need.
type AccessGuard struct {
	users  repositories.IUserRepository
	groups repositories.IGroupRepository
}

func NewAccessGuard(users repositories.IUserRepository, groups repositories.IGroupRepository) *AccessGuard {
	return &AccessGuard{users: users, groups: groups}
}

// Authorize denies banned application users for every scope, then checks
// group membership when the scope names a group.
func (g *AccessGuard) Authorize(userID string, scope Scope) error {
	user, err := g.users.Get(userID)
	if err != nil {
		return err
	}
	if user.Banned {
		return errors.ErrUserBanned
	}

	if scope.IsApplication() {
		return nil
	}

	group, err := g.groups.Get(scope.GroupID)
	if err != nil {
		return err
	}
	if !group.IsMember(userID) {
		return errors.ErrNotAMember
	}
	return nil
}
