package domain

import (
	"encoding/json"
	"strings"
)

// MaxTags is the upper bound on tags attached to a prompt.
const MaxTags = 10

// Tags is an ordered set of prompt tags. Values are immutable: Add and Remove
// return a new set.
type Tags struct {
	values []string
}

// NewTags builds a set by adding each raw value in order.
func NewTags(raw ...string) Tags {
	t := Tags{}
	for _, tag := range raw {
		t = t.Add(tag)
	}
	return t
}

// Add appends tag after trimming. Empty strings, duplicates and additions
// past MaxTags are ignored.
func (t Tags) Add(tag string) Tags {
	tag = strings.TrimSpace(tag)
	if tag == "" || t.Contains(tag) || len(t.values) >= MaxTags {
		return t
	}

	values := make([]string, len(t.values), len(t.values)+1)
	copy(values, t.values)
	return Tags{values: append(values, tag)}
}

// Remove deletes tag by value.
func (t Tags) Remove(tag string) Tags {
	tag = strings.TrimSpace(tag)
	values := make([]string, 0, len(t.values))
	for _, existing := range t.values {
		if existing != tag {
			values = append(values, existing)
		}
	}
	return Tags{values: values}
}

// Contains checks if a tag exists
func (t Tags) Contains(tag string) bool {
	tag = strings.TrimSpace(tag)
	for _, existing := range t.values {
		if existing == tag {
			return true
		}
	}
	return false
}

// ToSlice returns the tags in insertion order.
func (t Tags) ToSlice() []string {
	out := make([]string, len(t.values))
	copy(out, t.values)
	return out
}

func (t Tags) Count() int    { return len(t.values) }
func (t Tags) IsEmpty() bool { return len(t.values) == 0 }

// MarshalJSON stores an empty set as null.
func (t Tags) MarshalJSON() ([]byte, error) {
	if len(t.values) == 0 {
		return []byte("null"), nil
	}
	return json.Marshal(t.values)
}

func (t *Tags) UnmarshalJSON(data []byte) error {
	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t = NewTags(raw...)
	return nil
}
