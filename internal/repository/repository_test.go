package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hiprompt/internal/domain"
	"hiprompt/internal/gateway"
	"hiprompt/internal/gateway/memory"
	"hiprompt/internal/repository"
	apperrors "hiprompt/pkg/errors"
)

const password = "secret1"

func setup(t *testing.T) (*memory.Gateway, gateway.User) {
	t.Helper()
	g := memory.New()
	user := g.CreateUser("ada@example.com", password, "Ada Lovelace")
	_, err := g.SignInWithPassword(context.Background(), user.Email, password)
	require.NoError(t, err)
	return g, user
}

func strPtr(s string) *string { return &s }

func TestPromptStore(t *testing.T) {
	ctx := context.Background()

	t.Run("create and get with joins", func(t *testing.T) {
		g, user := setup(t)
		catID := g.SeedCategory("Coding")
		store := repository.NewPromptStore(g)

		created, err := store.Create(ctx, repository.NewPrompt{
			Title:      "SQL helper",
			Content:    "Write a query that...",
			CategoryID: strPtr(catID),
			AuthorID:   user.ID,
			IsPublic:   true,
			Tags:       domain.NewTags("sql", "ai"),
		})
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, 0, created.LikesCount)

		got, err := store.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "SQL helper", got.Title)
		assert.Equal(t, []string{"sql", "ai"}, got.Tags.ToSlice())
		require.NotNil(t, got.Author)
		assert.Equal(t, "Ada Lovelace", got.Author.DisplayName())
		require.NotNil(t, got.Category)
		assert.Equal(t, "Coding", got.Category.Name)
	})

	t.Run("missing prompt is not found", func(t *testing.T) {
		g, _ := setup(t)
		_, err := repository.NewPromptStore(g).Get(ctx, "nope")
		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("list filters and orders newest first", func(t *testing.T) {
		g, user := setup(t)
		store := repository.NewPromptStore(g)
		catID := g.SeedCategory("Writing")

		for _, p := range []repository.NewPrompt{
			{Title: "Old public", Content: "x", AuthorID: user.ID, IsPublic: true},
			{Title: "Private", Content: "x", AuthorID: user.ID, IsPublic: false},
			{Title: "Essay outline", Content: "x", AuthorID: user.ID, IsPublic: true, CategoryID: strPtr(catID), Description: strPtr("long form writing")},
		} {
			_, err := store.Create(ctx, p)
			require.NoError(t, err)
		}

		public := true
		all, err := store.List(ctx, repository.PromptQuery{Public: &public})
		require.NoError(t, err)
		assert.Equal(t, []string{"Essay outline", "Old public"}, titlesOf(all))

		byCategory, err := store.List(ctx, repository.PromptQuery{CategoryID: catID})
		require.NoError(t, err)
		assert.Equal(t, []string{"Essay outline"}, titlesOf(byCategory))

		searched, err := store.List(ctx, repository.PromptQuery{Search: "LONG FORM"})
		require.NoError(t, err)
		assert.Equal(t, []string{"Essay outline"}, titlesOf(searched))

		mine, err := store.List(ctx, repository.PromptQuery{AuthorID: user.ID})
		require.NoError(t, err)
		assert.Len(t, mine, 3)

		empty, err := store.List(ctx, repository.PromptQuery{Search: "nothing matches"})
		require.NoError(t, err)
		assert.NotNil(t, empty)
		assert.Empty(t, empty)
	})

	t.Run("update and counters", func(t *testing.T) {
		g, user := setup(t)
		store := repository.NewPromptStore(g)
		p, err := store.Create(ctx, repository.NewPrompt{Title: "T", Content: "C", AuthorID: user.ID, IsPublic: true})
		require.NoError(t, err)

		updated, err := store.Update(ctx, p.ID, map[string]interface{}{"title": "New title"})
		require.NoError(t, err)
		assert.Equal(t, "New title", updated.Title)

		require.NoError(t, store.SetCount(ctx, p.ID, repository.ColumnViewsCount, 4))
		n, err := store.Count(ctx, p.ID, repository.ColumnViewsCount)
		require.NoError(t, err)
		assert.Equal(t, 4, n)

		require.NoError(t, store.SetCount(ctx, p.ID, repository.ColumnLikesCount, -3))
		n, err = store.Count(ctx, p.ID, repository.ColumnLikesCount)
		require.NoError(t, err)
		assert.Equal(t, 0, n)

		_, err = store.Update(ctx, "missing", map[string]interface{}{"title": "x"})
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("gateway errors pass through", func(t *testing.T) {
		g, _ := setup(t)
		boom := apperrors.NewData(apperrors.ReasonUnavailable, "down")
		g.SetError("Select:prompts", boom)

		_, err := repository.NewPromptStore(g).List(ctx, repository.PromptQuery{})
		assert.True(t, errors.Is(err, boom))
	})
}

func TestLikeStore(t *testing.T) {
	ctx := context.Background()
	g, user := setup(t)
	prompts := repository.NewPromptStore(g)
	likes := repository.NewLikeStore(g)

	p, err := prompts.Create(ctx, repository.NewPrompt{Title: "T", Content: "C", AuthorID: user.ID, IsPublic: true})
	require.NoError(t, err)

	edges, err := likes.Find(ctx, p.ID, user.ID)
	require.NoError(t, err)
	assert.Empty(t, edges)

	edge, err := likes.Add(ctx, p.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, edge.PromptID)
	assert.Equal(t, user.ID, edge.UserID)

	_, err = likes.Add(ctx, p.ID, user.ID)
	assert.True(t, apperrors.IsConflict(err))

	edges, err = likes.Find(ctx, p.ID, user.ID)
	require.NoError(t, err)
	assert.Len(t, edges, 1)

	require.NoError(t, likes.Remove(ctx, p.ID, user.ID))
	edges, err = likes.Find(ctx, p.ID, user.ID)
	require.NoError(t, err)
	assert.Empty(t, edges)

	t.Run("atomic toggle", func(t *testing.T) {
		liked, count, err := likes.Toggle(ctx, memory.ToggleLikeRPC, p.ID)
		require.NoError(t, err)
		assert.True(t, liked)
		assert.Equal(t, 1, count)

		liked, count, err = likes.Toggle(ctx, memory.ToggleLikeRPC, p.ID)
		require.NoError(t, err)
		assert.False(t, liked)
		assert.Equal(t, 0, count)

		_, _, err = likes.Toggle(ctx, "no_such_fn", p.ID)
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestCategoryAndProfileStores(t *testing.T) {
	ctx := context.Background()
	g, user := setup(t)
	g.SeedCategory("Writing")
	g.SeedCategory("Coding")

	categories, err := repository.NewCategoryStore(g).List(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Coding", categories[0].Name)
	assert.Equal(t, "Writing", categories[1].Name)

	profiles := repository.NewProfileStore(g)
	profile, err := profiles.Get(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, profile)
	require.NotNil(t, profile.FullName)
	assert.Equal(t, "Ada Lovelace", *profile.FullName)

	missing, err := profiles.Get(ctx, "someone-else")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func titlesOf(prompts []domain.Prompt) []string {
	out := make([]string, 0, len(prompts))
	for _, p := range prompts {
		out = append(out, p.Title)
	}
	return out
}
