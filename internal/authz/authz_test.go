package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hiprompt/internal/domain"
)

var (
	anon = domain.AnonymousSession()
	u1   = domain.AuthenticatedSession(domain.Identity{ID: "u1", Email: "u1@x.com"})
	u2   = domain.AuthenticatedSession(domain.Identity{ID: "u2", Email: "u2@x.com"})
)

func TestCanView(t *testing.T) {
	sessions := []domain.Session{anon, domain.UnknownSession(), u1, u2}

	t.Run("PublicVisibleToEveryone", func(t *testing.T) {
		p := domain.Prompt{ID: "p", AuthorID: "u1", IsPublic: true}
		for _, s := range sessions {
			assert.True(t, CanView(s, p), "state %s", s.State)
		}
	})

	t.Run("PrivateVisibleOnlyToOwner", func(t *testing.T) {
		p1 := domain.Prompt{ID: "P1", AuthorID: "u1", IsPublic: false}
		assert.False(t, CanView(anon, p1))
		assert.True(t, CanView(u1, p1))
		assert.False(t, CanView(u2, p1))
	})
}

func TestCanMutate(t *testing.T) {
	p := domain.Prompt{ID: "p", AuthorID: "u1", IsPublic: true}

	assert.False(t, CanMutate(anon, p))
	assert.True(t, CanMutate(u1, p))
	assert.False(t, CanMutate(u2, p))

	t.Run("EmptyAuthorNeverMutable", func(t *testing.T) {
		blank := domain.Session{State: domain.StateAuthenticated, Identity: &domain.Identity{}}
		assert.False(t, CanMutate(blank, domain.Prompt{}))
	})

	t.Run("MutateImpliesCreator", func(t *testing.T) {
		creator := u1
		for _, s := range []domain.Session{anon, u1, u2} {
			if CanMutate(s, p) {
				assert.True(t, CanMutate(creator, p))
				assert.Equal(t, creator.UserID(), s.UserID())
			}
		}
	})
}

func TestFilterVisible(t *testing.T) {
	prompts := []domain.Prompt{
		{ID: "a", AuthorID: "u1", IsPublic: true},
		{ID: "b", AuthorID: "u1", IsPublic: false},
		{ID: "c", AuthorID: "u2", IsPublic: false},
		{ID: "d", AuthorID: "u2", IsPublic: true},
	}

	ids := func(ps []domain.Prompt) []string {
		out := []string{}
		for _, p := range ps {
			out = append(out, p.ID)
		}
		return out
	}

	assert.Equal(t, []string{"a", "d"}, ids(FilterVisible(anon, prompts)))
	assert.Equal(t, []string{"a", "b", "d"}, ids(FilterVisible(u1, prompts)))
	assert.Equal(t, []string{"a", "c", "d"}, ids(FilterVisible(u2, prompts)))
}
