package domain

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "hiprompt/pkg/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// PromptDraft is user input for a new prompt.
type PromptDraft struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description" validate:"max=1000"`
	Content     string   `json:"content" validate:"required,max=20000"`
	CategoryID  string   `json:"category_id" validate:"omitempty,max=64"`
	IsPublic    bool     `json:"is_public"`
	Tags        []string `json:"tags" validate:"max=10,dive,max=50"`
}

// Normalize trims text fields and collapses tags into a set.
func (d PromptDraft) Normalize() PromptDraft {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	d.Content = strings.TrimSpace(d.Content)
	d.CategoryID = strings.TrimSpace(d.CategoryID)
	d.Tags = NewTags(d.Tags...).ToSlice()
	return d
}

// Validate normalizes the draft and checks it, returning the normalized copy.
func (d PromptDraft) Validate() (PromptDraft, error) {
	n := d.Normalize()
	if err := validate.Struct(n); err != nil {
		return n, validationError(err)
	}
	return n, nil
}

// PromptPatch carries the mutable prompt fields. Nil means unchanged.
// Empty Description or CategoryID clear the column.
type PromptPatch struct {
	Title       *string   `json:"title,omitempty" validate:"omitempty,max=200"`
	Description *string   `json:"description,omitempty" validate:"omitempty,max=1000"`
	Content     *string   `json:"content,omitempty" validate:"omitempty,max=20000"`
	CategoryID  *string   `json:"category_id,omitempty" validate:"omitempty,max=64"`
	IsPublic    *bool     `json:"is_public,omitempty"`
	Tags        *[]string `json:"tags,omitempty" validate:"omitempty,max=10,dive,max=50"`
}

func (p PromptPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Content == nil &&
		p.CategoryID == nil && p.IsPublic == nil && p.Tags == nil
}

// Validate trims text fields and rejects blank titles or bodies.
func (p PromptPatch) Validate() (PromptPatch, error) {
	trim := func(s *string) *string {
		if s == nil {
			return nil
		}
		v := strings.TrimSpace(*s)
		return &v
	}
	p.Title = trim(p.Title)
	p.Description = trim(p.Description)
	p.Content = trim(p.Content)
	p.CategoryID = trim(p.CategoryID)
	if p.Tags != nil {
		tags := NewTags(*p.Tags...).ToSlice()
		p.Tags = &tags
	}

	if p.Title != nil && *p.Title == "" {
		return p, apperrors.Validation("title is required")
	}
	if p.Content != nil && *p.Content == "" {
		return p, apperrors.Validation("content is required")
	}
	if err := validate.Struct(p); err != nil {
		return p, validationError(err)
	}
	return p, nil
}

func validationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return apperrors.Validation(err.Error())
	}

	fe := verrs[0]
	field := fe.Field()
	var msg string
	switch fe.Tag() {
	case "required":
		msg = fmt.Sprintf("%s is required", field)
	case "max":
		msg = fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		if fe.Kind() == reflect.Slice {
			msg = fmt.Sprintf("%s must have at most %s entries", field, fe.Param())
		}
	default:
		msg = fmt.Sprintf("%s is invalid", field)
	}
	return apperrors.Validation(msg).WithCause(err)
}

// ValidateStruct checks v against its validate tags.
func ValidateStruct(v interface{}) error {
	if err := validate.Struct(v); err != nil {
		return validationError(err)
	}
	return nil
}
