// Package authz mirrors the gateway's row-level security on the client.
// The gateway remains authoritative; a disagreement between the two is a bug.
package authz

import "hiprompt/internal/domain"

// CanView reports whether the session may see the prompt: public prompts are
// visible to everyone, private ones only to their author.
func CanView(s domain.Session, p domain.Prompt) bool {
	if p.IsPublic {
		return true
	}
	return s.Identity != nil && s.Identity.ID == p.AuthorID
}

// CanMutate reports whether the session may edit or delete the prompt.
func CanMutate(s domain.Session, p domain.Prompt) bool {
	return s.Identity != nil && s.Identity.ID != "" && s.Identity.ID == p.AuthorID
}

// FilterVisible keeps the prompts the session may view, preserving order.
func FilterVisible(s domain.Session, prompts []domain.Prompt) []domain.Prompt {
	out := make([]domain.Prompt, 0, len(prompts))
	for _, p := range prompts {
		if CanView(s, p) {
			out = append(out, p)
		}
	}
	return out
}
