package repository

import (
	"context"

	"hiprompt/internal/domain"
	"hiprompt/internal/gateway"
	apperrors "hiprompt/pkg/errors"
)

type CategoryStore struct {
	tables gateway.Tables
}

var _ CategoryRepository = (*CategoryStore)(nil)

func NewCategoryStore(tables gateway.Tables) *CategoryStore {
	return &CategoryStore{tables: tables}
}

// List returns every category ordered by name.
func (s *CategoryStore) List(ctx context.Context) ([]domain.Category, error) {
	raw, err := s.tables.Select(ctx, gateway.TableCategories, gateway.Query{
		Columns: "*",
		Order:   []gateway.Order{{Column: "name", Ascending: true}},
	})
	if err != nil {
		return nil, err
	}
	var categories []domain.Category
	if err := decode(raw, &categories, "category list"); err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	return categories, nil
}

type ProfileStore struct {
	tables gateway.Tables
}

var _ ProfileRepository = (*ProfileStore)(nil)

func NewProfileStore(tables gateway.Tables) *ProfileStore {
	return &ProfileStore{tables: tables}
}

func (s *ProfileStore) Get(ctx context.Context, id string) (*domain.Profile, error) {
	raw, err := s.tables.Select(ctx, gateway.TableProfiles, gateway.Query{
		Columns: "*",
		Filters: []gateway.Filter{byID(id)},
		Single:  true,
	})
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	var p domain.Profile
	if err := decode(raw, &p, "profile"); err != nil {
		return nil, err
	}
	return &p, nil
}
