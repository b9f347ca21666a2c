package services

import (
	"log/slog"
	"testing"
	"time"

	"chat-hub/domain"
	"chat-hub/errors"
	"chat-hub/repositories"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

type groupTestEnv struct {
	svc    *GroupService
	users  *repositories.UserRepository
	groups *repositories.GroupRepository
}

func newGroupTestEnv(t *testing.T, names ...string) *groupTestEnv {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	users := repositories.NewUserRepository(db)
	for _, name := range names {
		require.NoError(t, users.Create(domain.User{
			ID:        name,
			Name:      name,
			Roles:     []string{domain.RoleUser},
			CreatedAt: time.Now().UTC(),
		}))
	}

	groups := repositories.NewGroupRepository(db)
	guard := NewAccessGuard(users, groups)
	log := slog.New(slog.DiscardHandler)
	return &groupTestEnv{
		svc:    NewGroupService(groups, users, guard, log),
		users:  users,
		groups: groups,
	}
}

func TestGroupService_Create(t *testing.T) {
	t.Run("should force the creator into admins and members", func(t *testing.T) {
		req := require.New(t)
		env := newGroupTestEnv(t, "alice", "bob")

		group, err := env.svc.Create("alice", "ops", []string{"bob"}, domain.RulePromote)
		req.NoError(err)
		req.True(group.IsAdmin("alice"))
		req.True(group.IsMember("alice"))
		req.True(group.IsMember("bob"))

		stored, err := env.groups.Get(group.ID)
		req.NoError(err)
		req.Equal(group.Members, stored.Members)
	})

	t.Run("should reject unknown initial members", func(t *testing.T) {
		req := require.New(t)
		env := newGroupTestEnv(t, "alice")

		_, err := env.svc.Create("alice", "ops", []string{"ghost"}, domain.RulePromote)
		req.ErrorIs(err, errors.ErrUserNotFound)
	})

	t.Run("should deny a banned creator", func(t *testing.T) {
		req := require.New(t)
		env := newGroupTestEnv(t, "alice")
		req.NoError(env.users.SetBanned("alice", true))

		_, err := env.svc.Create("alice", "ops", nil, domain.RulePromote)
		req.ErrorIs(err, errors.ErrUserBanned)
	})
}

func TestGroupService_JoinFlow(t *testing.T) {
	req := require.New(t)
	env := newGroupTestEnv(t, "alice", "bob", "carol")

	group, err := env.svc.Create("alice", "ops", nil, domain.RulePromote)
	req.NoError(err)

	// Bob asks twice; the second request is silently absorbed.
	req.NoError(env.svc.RequestJoin("bob", group.ID))
	req.NoError(env.svc.RequestJoin("bob", group.ID))

	// Pending members cannot see the group yet.
	_, err = env.svc.Get("bob", group.ID)
	req.ErrorIs(err, errors.ErrNotAMember)

	// Only admins approve; carol is not even a member.
	req.NoError(env.svc.RequestJoin("carol", group.ID))
	req.ErrorIs(env.svc.ApproveRequest("carol", group.ID, "bob"), errors.ErrNotAMember)

	req.NoError(env.svc.ApproveRequest("alice", group.ID, "bob"))
	got, err := env.svc.Get("bob", group.ID)
	req.NoError(err)
	req.True(got.IsMember("bob"))

	// A plain member cannot approve either.
	req.ErrorIs(env.svc.ApproveRequest("bob", group.ID, "carol"), errors.ErrPermissionDenied)

	// Rejecting drops the request without granting membership.
	req.NoError(env.svc.RejectRequest("alice", group.ID, "carol"))
	got, err = env.svc.Get("alice", group.ID)
	req.NoError(err)
	req.False(got.IsMember("carol"))
	req.ErrorIs(env.svc.ApproveRequest("alice", group.ID, "carol"), errors.ErrNotPending)
}

func TestGroupService_BanMember(t *testing.T) {
	t.Run("should expel the target", func(t *testing.T) {
		req := require.New(t)
		env := newGroupTestEnv(t, "alice", "bob")

		group, err := env.svc.Create("alice", "ops", []string{"bob"}, domain.RulePromote)
		req.NoError(err)

		req.NoError(env.svc.BanMember("alice", group.ID, "bob"))
		got, err := env.svc.Get("alice", group.ID)
		req.NoError(err)
		req.False(got.IsMember("bob"))

		// Expelled members can ask to come back.
		req.NoError(env.svc.RequestJoin("bob", group.ID))
	})

	t.Run("should refuse self-ban", func(t *testing.T) {
		req := require.New(t)
		env := newGroupTestEnv(t, "alice", "bob")

		group, err := env.svc.Create("alice", "ops", []string{"bob"}, domain.RulePromote)
		req.NoError(err)

		req.ErrorIs(env.svc.BanMember("alice", group.ID, "alice"), errors.ErrInvalidOperation)
	})

	t.Run("should require admin privilege", func(t *testing.T) {
		req := require.New(t)
		env := newGroupTestEnv(t, "alice", "bob", "carol")

		group, err := env.svc.Create("alice", "ops", []string{"bob", "carol"}, domain.RulePromote)
		req.NoError(err)

		req.ErrorIs(env.svc.BanMember("bob", group.ID, "carol"), errors.ErrPermissionDenied)
	})
}

func TestGroupService_LastAdminRule(t *testing.T) {
	t.Run("promote rule elevates the earliest joiner", func(t *testing.T) {
		req := require.New(t)
		env := newGroupTestEnv(t, "alice", "bob", "carol")

		group, err := env.svc.Create("alice", "ops", []string{"bob", "carol"}, domain.RulePromote)
		req.NoError(err)

		req.NoError(env.svc.Leave("alice", group.ID))

		got, err := env.groups.Get(group.ID)
		req.NoError(err)
		req.False(got.IsMember("alice"))
		req.Equal([]string{"bob"}, got.Admins)
	})

	t.Run("delete rule tears the group down", func(t *testing.T) {
		req := require.New(t)
		env := newGroupTestEnv(t, "alice", "bob")

		group, err := env.svc.Create("alice", "ops", []string{"bob"}, domain.RuleDelete)
		req.NoError(err)

		req.NoError(env.svc.Leave("alice", group.ID))

		_, err = env.groups.Get(group.ID)
		req.ErrorIs(err, errors.ErrGroupNotFound)
	})

	t.Run("last member leaving deletes regardless of rule", func(t *testing.T) {
		req := require.New(t)
		env := newGroupTestEnv(t, "alice")

		group, err := env.svc.Create("alice", "solo", nil, domain.RulePromote)
		req.NoError(err)

		req.NoError(env.svc.Leave("alice", group.ID))

		_, err = env.groups.Get(group.ID)
		req.ErrorIs(err, errors.ErrGroupNotFound)
	})
}

func TestGroupService_Delete(t *testing.T) {
	req := require.New(t)
	env := newGroupTestEnv(t, "alice", "bob")

	group, err := env.svc.Create("alice", "ops", []string{"bob"}, domain.RulePromote)
	req.NoError(err)

	req.ErrorIs(env.svc.Delete("bob", group.ID), errors.ErrPermissionDenied)
	req.NoError(env.svc.Delete("alice", group.ID))

	req.ErrorIs(env.svc.Delete("alice", group.ID), errors.ErrGroupNotFound)
}

func TestGroupService_ListFor(t *testing.T) {
	req := require.New(t)
	env := newGroupTestEnv(t, "alice", "bob")

	_, err := env.svc.Create("alice", "ops", nil, domain.RulePromote)
	req.NoError(err)
	_, err = env.svc.Create("alice", "dev", []string{"bob"}, domain.RulePromote)
	req.NoError(err)

	mine, err := env.svc.ListFor("alice")
	req.NoError(err)
	req.Len(mine, 2)

	theirs, err := env.svc.ListFor("bob")
	req.NoError(err)
	req.Len(theirs, 1)
	req.Equal("dev", theirs[0].Name)
}
