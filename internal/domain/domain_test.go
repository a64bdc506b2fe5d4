package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "hiprompt/pkg/errors"
)

func TestTags(t *testing.T) {
	t.Run("AddingSameTagTwiceKeepsOne", func(t *testing.T) {
		tags := Tags{}.Add("ai").Add("ai")
		assert.Equal(t, []string{"ai"}, tags.ToSlice())
	})

	t.Run("TrimsAndIgnoresEmpty", func(t *testing.T) {
		tags := NewTags("  writing ", "", "   ", "writing")
		assert.Equal(t, []string{"writing"}, tags.ToSlice())
	})

	t.Run("KeepsInsertionOrder", func(t *testing.T) {
		tags := NewTags("zeta", "alpha", "mid")
		assert.Equal(t, []string{"zeta", "alpha", "mid"}, tags.ToSlice())
	})

	t.Run("NeverExceedsMax", func(t *testing.T) {
		tags := Tags{}
		for i := 0; i < 25; i++ {
			tags = tags.Add(fmt.Sprintf("t%d", i%15))
		}
		assert.Equal(t, MaxTags, tags.Count())

		seen := map[string]bool{}
		for _, tag := range tags.ToSlice() {
			assert.False(t, seen[tag], "duplicate %q", tag)
			seen[tag] = true
		}
	})

	t.Run("AddIsImmutable", func(t *testing.T) {
		base := NewTags("a")
		_ = base.Add("b")
		assert.Equal(t, 1, base.Count())
	})

	t.Run("Remove", func(t *testing.T) {
		tags := NewTags("a", "b", "c").Remove("b")
		assert.Equal(t, []string{"a", "c"}, tags.ToSlice())
	})

	t.Run("EmptyMarshalsAsNull", func(t *testing.T) {
		data, err := json.Marshal(Tags{})
		require.NoError(t, err)
		assert.Equal(t, "null", string(data))

		data, err = json.Marshal(NewTags("x"))
		require.NoError(t, err)
		assert.Equal(t, `["x"]`, string(data))
	})

	t.Run("UnmarshalNormalizes", func(t *testing.T) {
		var tags Tags
		require.NoError(t, json.Unmarshal([]byte(`["a","a"," b "]`), &tags))
		assert.Equal(t, []string{"a", "b"}, tags.ToSlice())

		var empty Tags
		require.NoError(t, json.Unmarshal([]byte(`null`), &empty))
		assert.True(t, empty.IsEmpty())
	})
}

func TestPromptDraftValidate(t *testing.T) {
	t.Run("TrimsFields", func(t *testing.T) {
		d, err := PromptDraft{Title: "  Hi ", Content: " body ", Tags: []string{"ai", "ai"}}.Validate()
		require.NoError(t, err)
		assert.Equal(t, "Hi", d.Title)
		assert.Equal(t, "body", d.Content)
		assert.Equal(t, []string{"ai"}, d.Tags)
	})

	t.Run("RequiresTitleAndContent", func(t *testing.T) {
		_, err := PromptDraft{Title: "   ", Content: "x"}.Validate()
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
		assert.Contains(t, err.Error(), "title is required")

		_, err = PromptDraft{Title: "x"}.Validate()
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("RejectsLongTitle", func(t *testing.T) {
		_, err := PromptDraft{Title: strings.Repeat("a", 201), Content: "x"}.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at most 200")
	})

	t.Run("CapsTags", func(t *testing.T) {
		raw := make([]string, 0, 12)
		for i := 0; i < 12; i++ {
			raw = append(raw, fmt.Sprintf("t%d", i))
		}
		d, err := PromptDraft{Title: "x", Content: "y", Tags: raw}.Validate()
		require.NoError(t, err)
		assert.Len(t, d.Tags, MaxTags)
	})
}

func TestPromptPatchValidate(t *testing.T) {
	blank := " "
	_, err := PromptPatch{Title: &blank}.Validate()
	assert.True(t, apperrors.IsValidation(err))

	title := " New "
	p, err := PromptPatch{Title: &title}.Validate()
	require.NoError(t, err)
	assert.Equal(t, "New", *p.Title)
	assert.False(t, p.IsEmpty())
	assert.True(t, PromptPatch{}.IsEmpty())
}

func TestSession(t *testing.T) {
	assert.False(t, UnknownSession().IsResolved())
	assert.True(t, AnonymousSession().IsResolved())
	assert.Equal(t, "", AnonymousSession().UserID())

	s := AuthenticatedSession(Identity{ID: "u1", Email: "a@x.com"})
	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, "u1", s.UserID())
	assert.True(t, s.SameIdentity(AuthenticatedSession(Identity{ID: "u1", Email: "a@x.com"})))
	assert.False(t, s.SameIdentity(AuthenticatedSession(Identity{ID: "u1", Email: "b@x.com"})))
	assert.False(t, s.SameIdentity(AnonymousSession()))
}

func TestProfileSummaryDisplayName(t *testing.T) {
	name := "Ada"
	user := "ada"
	empty := ""
	var nilSummary *ProfileSummary

	assert.Equal(t, "Ada", (&ProfileSummary{FullName: &name, Username: &user}).DisplayName())
	assert.Equal(t, "ada", (&ProfileSummary{FullName: &empty, Username: &user}).DisplayName())
	assert.Equal(t, "Anonymous", nilSummary.DisplayName())
}
