package repository

import (
	"context"
	"strconv"

	"hiprompt/internal/domain"
	"hiprompt/internal/gateway"
	apperrors "hiprompt/pkg/errors"
)

// PromptStore reads and writes the prompts table.
type PromptStore struct {
	tables gateway.Tables
}

var _ PromptRepository = (*PromptStore)(nil)

func NewPromptStore(tables gateway.Tables) *PromptStore {
	return &PromptStore{tables: tables}
}

// List returns matching prompts, newest first.
func (s *PromptStore) List(ctx context.Context, q PromptQuery) ([]domain.Prompt, error) {
	query := gateway.Query{
		Columns: PromptColumns,
		Order:   []gateway.Order{{Column: "created_at", Ascending: false}},
		Limit:   q.Limit,
	}
	if q.Public != nil {
		query.Filters = append(query.Filters, gateway.Eq("is_public", strconv.FormatBool(*q.Public)))
	}
	if q.AuthorID != "" {
		query.Filters = append(query.Filters, gateway.Eq("author_id", q.AuthorID))
	}
	if q.CategoryID != "" {
		query.Filters = append(query.Filters, gateway.Eq("category_id", q.CategoryID))
	}
	if q.Search != "" {
		query.Search = &gateway.Search{Columns: []string{"title", "description"}, Term: q.Search}
	}

	raw, err := s.tables.Select(ctx, gateway.TablePrompts, query)
	if err != nil {
		return nil, err
	}
	var prompts []domain.Prompt
	if err := decode(raw, &prompts, "prompt list"); err != nil {
		return nil, err
	}
	if prompts == nil {
		prompts = []domain.Prompt{}
	}
	return prompts, nil
}

// Get returns one prompt. A prompt hidden by row-level security is
// indistinguishable from a missing one.
func (s *PromptStore) Get(ctx context.Context, id string) (domain.Prompt, error) {
	raw, err := s.tables.Select(ctx, gateway.TablePrompts, gateway.Query{
		Columns: PromptColumns,
		Filters: []gateway.Filter{byID(id)},
		Single:  true,
	})
	if err != nil {
		if apperrors.IsNotFound(err) {
			return domain.Prompt{}, apperrors.NotFound("prompt").WithCause(err)
		}
		return domain.Prompt{}, err
	}
	var p domain.Prompt
	if err := decode(raw, &p, "prompt"); err != nil {
		return domain.Prompt{}, err
	}
	return p, nil
}

// Count re-reads a single counter column.
func (s *PromptStore) Count(ctx context.Context, id string, column string) (int, error) {
	raw, err := s.tables.Select(ctx, gateway.TablePrompts, gateway.Query{
		Columns: column,
		Filters: []gateway.Filter{byID(id)},
		Single:  true,
	})
	if err != nil {
		if apperrors.IsNotFound(err) {
			return 0, apperrors.NotFound("prompt").WithCause(err)
		}
		return 0, err
	}
	var counters map[string]*int
	if err := decode(raw, &counters, "counter"); err != nil {
		return 0, err
	}
	if v := counters[column]; v != nil {
		return *v, nil
	}
	return 0, nil
}

func (s *PromptStore) Create(ctx context.Context, p NewPrompt) (domain.Prompt, error) {
	raw, err := s.tables.Insert(ctx, gateway.TablePrompts, p)
	if err != nil {
		return domain.Prompt{}, err
	}
	var created domain.Prompt
	if err := decode(raw, &created, "prompt"); err != nil {
		return domain.Prompt{}, err
	}
	return created, nil
}

// Update patches the prompt and returns the stored row. No affected row means
// the prompt is gone or not the caller's.
func (s *PromptStore) Update(ctx context.Context, id string, changes map[string]interface{}) (domain.Prompt, error) {
	raw, err := s.tables.Update(ctx, gateway.TablePrompts, changes, byID(id))
	if err != nil {
		return domain.Prompt{}, err
	}
	var rows []domain.Prompt
	if err := decode(raw, &rows, "prompt update"); err != nil {
		return domain.Prompt{}, err
	}
	if len(rows) == 0 {
		return domain.Prompt{}, apperrors.NotFound("prompt")
	}
	return rows[0], nil
}

// SetCount overwrites one counter column.
func (s *PromptStore) SetCount(ctx context.Context, id string, column string, value int) error {
	if value < 0 {
		value = 0
	}
	raw, err := s.tables.Update(ctx, gateway.TablePrompts, map[string]interface{}{column: value}, byID(id))
	if err != nil {
		return err
	}
	var rows []map[string]interface{}
	if err := decode(raw, &rows, "counter update"); err != nil {
		return err
	}
	if len(rows) == 0 {
		return apperrors.Forbidden("counter update was not applied")
	}
	return nil
}

func (s *PromptStore) Delete(ctx context.Context, id string) error {
	return s.tables.Delete(ctx, gateway.TablePrompts, byID(id))
}
