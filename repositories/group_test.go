package repositories

import (
	"testing"

	"chat-hub/domain"
	"chat-hub/errors"

	"github.com/stretchr/testify/require"
)

func TestGroupRepository_SaveAndGet(t *testing.T) {
	req := require.New(t)
	repo := NewGroupRepository(openTestDB(t))

	group, err := domain.NewGroup("g1", "Team", "u1", []string{"u2"}, domain.RulePromote)
	req.NoError(err)
	req.NoError(repo.Save(group))

	fetched, err := repo.Get("g1")
	req.NoError(err)
	req.Equal(group.Name, fetched.Name)
	req.Equal(group.Members, fetched.Members)
	req.Equal(group.Admins, fetched.Admins)
	req.Equal(domain.RulePromote, fetched.Rule)
}

func TestGroupRepository_DeleteMakesGroupUnresolvable(t *testing.T) {
	req := require.New(t)
	repo := NewGroupRepository(openTestDB(t))

	group, err := domain.NewGroup("g1", "Team", "u1", nil, domain.RuleDelete)
	req.NoError(err)
	req.NoError(repo.Save(group))

	req.NoError(repo.Delete("g1"))
	_, err = repo.Get("g1")
	req.ErrorIs(err, errors.ErrGroupNotFound)

	req.ErrorIs(repo.Delete("g1"), errors.ErrGroupNotFound)
}

func TestGroupRepository_ListForReturnsOnlyMemberships(t *testing.T) {
	req := require.New(t)
	repo := NewGroupRepository(openTestDB(t))

	team, err := domain.NewGroup("g1", "Team", "u1", []string{"u2"}, domain.RulePromote)
	req.NoError(err)
	req.NoError(repo.Save(team))

	other, err := domain.NewGroup("g2", "Another", "u3", nil, domain.RulePromote)
	req.NoError(err)
	req.NoError(repo.Save(other))

	groups, err := repo.ListFor("u2")
	req.NoError(err)
	req.Len(groups, 1)
	req.Equal("Team", groups[0].Name)

	none, err := repo.ListFor("stranger")
	req.NoError(err)
	req.Empty(none)
}
