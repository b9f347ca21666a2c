package domain

import (
	"testing"

	"chat-hub/errors"

	"github.com/stretchr/testify/require"
)

func TestNewGroup_ForcesCreatorIntoAdminsAndMembers(t *testing.T) {
	req := require.New(t)

	g, err := NewGroup("g1", "Team", "u1", []string{"u3", "u2", "u1"}, RulePromote)
	req.NoError(err)
	req.Equal([]string{"u1", "u2", "u3"}, g.Members)
	req.Equal([]string{"u1"}, g.Admins)
	req.Empty(g.Pending)
	req.NoError(g.CheckInvariants())
}

func TestNewGroup_EmptyNameFails(t *testing.T) {
	_, err := NewGroup("g1", "", "u1", nil, RulePromote)
	require.ErrorIs(t, err, errors.ErrValidation)
}

func TestGroup_RequestJoin_IsIdempotent(t *testing.T) {
	req := require.New(t)
	g, err := NewGroup("g1", "Team", "u1", nil, RulePromote)
	req.NoError(err)

	req.NoError(g.RequestJoin("u2"))
	req.NoError(g.RequestJoin("u2"))
	req.Equal([]string{"u2"}, g.Pending)
}

func TestGroup_RequestJoin_MemberConflicts(t *testing.T) {
	g, err := NewGroup("g1", "Team", "u1", nil, RulePromote)
	require.NoError(t, err)
	require.ErrorIs(t, g.RequestJoin("u1"), errors.ErrAlreadyMember)
}

func TestGroup_ApproveMovesPendingToMembers(t *testing.T) {
	req := require.New(t)
	g, err := NewGroup("g1", "Team", "u1", nil, RulePromote)
	req.NoError(err)

	req.NoError(g.RequestJoin("u2"))
	req.NoError(g.Approve("u2"))
	req.Empty(g.Pending)
	req.True(g.IsMember("u2"))
	req.False(g.IsAdmin("u2"))
	req.NoError(g.CheckInvariants())
}

func TestGroup_ApproveWithoutRequestFails(t *testing.T) {
	g, err := NewGroup("g1", "Team", "u1", nil, RulePromote)
	require.NoError(t, err)
	require.ErrorIs(t, g.Approve("u2"), errors.ErrNotPending)
}

func TestGroup_RemoveMember_PromotesEarliestJoiner(t *testing.T) {
	req := require.New(t)
	g, err := NewGroup("g1", "Team", "a", []string{"c", "b"}, RulePromote)
	req.NoError(err)

	deleted, err := g.RemoveMember("a")
	req.NoError(err)
	req.False(deleted)
	req.Equal([]string{"b", "c"}, g.Members)
	req.Equal([]string{"b"}, g.Admins)
	req.NoError(g.CheckInvariants())
}

func TestGroup_RemoveMember_PromotionFollowsApprovalOrder(t *testing.T) {
	req := require.New(t)
	g, err := NewGroup("g1", "Team", "a", nil, RulePromote)
	req.NoError(err)

	// z joined before b, so z is promoted despite the higher id.
	req.NoError(g.RequestJoin("z"))
	req.NoError(g.Approve("z"))
	req.NoError(g.RequestJoin("b"))
	req.NoError(g.Approve("b"))

	deleted, err := g.RemoveMember("a")
	req.NoError(err)
	req.False(deleted)
	req.Equal([]string{"z"}, g.Admins)
}

func TestGroup_RemoveMember_DeleteRuleTearsGroupDown(t *testing.T) {
	req := require.New(t)
	g, err := NewGroup("g1", "Team", "a", []string{"b", "c"}, RuleDelete)
	req.NoError(err)

	deleted, err := g.RemoveMember("a")
	req.NoError(err)
	req.True(deleted)
}

func TestGroup_RemoveLastMemberDeletesRegardlessOfRule(t *testing.T) {
	req := require.New(t)
	g, err := NewGroup("g1", "Team", "a", nil, RulePromote)
	req.NoError(err)

	deleted, err := g.RemoveMember("a")
	req.NoError(err)
	req.True(deleted)
}
