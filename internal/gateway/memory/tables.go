package memory

import (
	"context"
	"encoding/json"
	"fmt"

	"hiprompt/internal/gateway"
	apperrors "hiprompt/pkg/errors"
)

// ToggleLikeRPC is the stored procedure served by RPC.
const ToggleLikeRPC = "toggle_prompt_like"

var counterColumns = map[string]bool{"likes_count": true, "views_count": true}

func (g *Gateway) Select(ctx context.Context, table string, q gateway.Query) (json.RawMessage, error) {
	sels, err := parseColumns(q.Columns)
	if err != nil {
		return nil, apperrors.NewData(apperrors.ReasonValidation, err.Error())
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.checkError("Select", table); err != nil {
		return nil, err
	}
	rows, ok := g.tables[table]
	if !ok {
		return nil, unknownTable(table)
	}

	uid := g.currentUserID()
	var found []row
	for _, r := range rows {
		if canSelect(table, r, uid) && matches(r, q.Filters) && matchesSearch(r, q.Search) {
			found = append(found, r)
		}
	}
	sortRows(found, q.Order)
	if q.Limit > 0 && len(found) > q.Limit {
		found = found[:q.Limit]
	}

	out := make([]row, 0, len(found))
	for _, r := range found {
		out = append(out, g.project(r, sels, uid))
	}

	if q.Single {
		if len(out) != 1 {
			return nil, apperrors.NewData(apperrors.ReasonNotFound,
				fmt.Sprintf("JSON object requested, multiple (or no) rows returned (%d rows)", len(out)))
		}
		return json.Marshal(out[0])
	}
	return json.Marshal(out)
}

func (g *Gateway) Insert(ctx context.Context, table string, values interface{}) (json.RawMessage, error) {
	r, err := toRow(values)
	if err != nil {
		return nil, apperrors.NewData(apperrors.ReasonValidation, err.Error())
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.checkError("Insert", table); err != nil {
		return nil, err
	}
	if _, ok := g.tables[table]; !ok {
		return nil, unknownTable(table)
	}

	uid := g.currentUserID()
	if err := g.checkInsert(table, r, uid); err != nil {
		return nil, err
	}

	g.applyDefaults(table, r)
	g.tables[table] = append(g.tables[table], r)
	return json.Marshal(r)
}

func (g *Gateway) checkInsert(table string, r row, uid string) error {
	switch table {
	case gateway.TablePrompts:
		if uid == "" || r["author_id"] != uid {
			return rlsViolation(table)
		}
		for _, col := range []string{"title", "content"} {
			if s, ok := r[col].(string); !ok || s == "" {
				return notNull(table, col)
			}
		}
	case gateway.TablePromptLikes:
		if uid == "" || r["user_id"] != uid {
			return rlsViolation(table)
		}
		promptID, _ := r["prompt_id"].(string)
		if !g.visiblePrompt(promptID, uid) {
			return apperrors.NewData(apperrors.ReasonValidation,
				`insert or update on table "prompt_likes" violates foreign key constraint "prompt_likes_prompt_id_fkey"`)
		}
		for _, existing := range g.tables[table] {
			if existing["prompt_id"] == promptID && existing["user_id"] == uid {
				return apperrors.NewData(apperrors.ReasonConflict,
					`duplicate key value violates unique constraint "prompt_likes_prompt_id_user_id_key"`)
			}
		}
	case gateway.TableProfiles:
		if uid == "" || r["id"] != uid {
			return rlsViolation(table)
		}
		for _, existing := range g.tables[table] {
			if existing["id"] == uid {
				return apperrors.NewData(apperrors.ReasonConflict,
					`duplicate key value violates unique constraint "profiles_pkey"`)
			}
		}
	default:
		return rlsViolation(table)
	}
	return nil
}

func (g *Gateway) Update(ctx context.Context, table string, patch interface{}, filters ...gateway.Filter) (json.RawMessage, error) {
	p, err := toRow(patch)
	if err != nil {
		return nil, apperrors.NewData(apperrors.ReasonValidation, err.Error())
	}
	delete(p, "id")

	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.checkError("Update", table); err != nil {
		return nil, err
	}
	rows, ok := g.tables[table]
	if !ok {
		return nil, unknownTable(table)
	}

	uid := g.currentUserID()
	updated := make([]row, 0)
	for _, r := range rows {
		if !matches(r, filters) || !canUpdate(table, r, p, uid) {
			continue
		}
		if author, ok := p["author_id"]; ok && author != r["author_id"] {
			return nil, rlsViolation(table)
		}
		for k, v := range p {
			r[k] = v
		}
		updated = append(updated, copyRow(r))
	}
	return json.Marshal(updated)
}

func (g *Gateway) Delete(ctx context.Context, table string, filters ...gateway.Filter) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.checkError("Delete", table); err != nil {
		return err
	}
	rows, ok := g.tables[table]
	if !ok {
		return unknownTable(table)
	}

	uid := g.currentUserID()
	kept := rows[:0]
	var removed []string
	for _, r := range rows {
		if matches(r, filters) && canDelete(table, r, uid) {
			removed = append(removed, r["id"].(string))
			continue
		}
		kept = append(kept, r)
	}
	g.tables[table] = kept

	if table == gateway.TablePrompts {
		for _, id := range removed {
			g.cascadeLikes(id)
		}
	}
	return nil
}

func (g *Gateway) cascadeLikes(promptID string) {
	likes := g.tables[gateway.TablePromptLikes]
	kept := likes[:0]
	for _, l := range likes {
		if l["prompt_id"] != promptID {
			kept = append(kept, l)
		}
	}
	g.tables[gateway.TablePromptLikes] = kept
}

// RPC serves toggle_prompt_like: it flips the caller's like and recomputes
// likes_count from the edges in one critical section.
func (g *Gateway) RPC(ctx context.Context, fn string, args interface{}) (json.RawMessage, error) {
	a, err := toRow(args)
	if err != nil {
		return nil, apperrors.NewData(apperrors.ReasonValidation, err.Error())
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.checkError("RPC", fn); err != nil {
		return nil, err
	}
	if fn != ToggleLikeRPC {
		return nil, apperrors.NewData(apperrors.ReasonNotFound, fmt.Sprintf("Could not find the function public.%s", fn))
	}

	uid := g.currentUserID()
	if uid == "" {
		return nil, rlsViolation(gateway.TablePromptLikes)
	}
	promptID, _ := a["prompt_id"].(string)
	prompt := g.findRow(gateway.TablePrompts, promptID)
	if prompt == nil || !canSelect(gateway.TablePrompts, prompt, uid) {
		return nil, apperrors.NotFound("prompt")
	}

	liked := true
	likes := g.tables[gateway.TablePromptLikes]
	kept := likes[:0]
	for _, l := range likes {
		if l["prompt_id"] == promptID && l["user_id"] == uid {
			liked = false
			continue
		}
		kept = append(kept, l)
	}
	g.tables[gateway.TablePromptLikes] = kept
	if liked {
		edge := row{"prompt_id": promptID, "user_id": uid}
		g.applyDefaults(gateway.TablePromptLikes, edge)
		g.tables[gateway.TablePromptLikes] = append(g.tables[gateway.TablePromptLikes], edge)
	}

	count := 0
	for _, l := range g.tables[gateway.TablePromptLikes] {
		if l["prompt_id"] == promptID {
			count++
		}
	}
	prompt["likes_count"] = float64(count)

	return json.Marshal(map[string]interface{}{"liked": liked, "likes_count": count})
}

func (g *Gateway) findRow(table, id string) row {
	for _, r := range g.tables[table] {
		if r["id"] == id {
			return r
		}
	}
	return nil
}

func (g *Gateway) visiblePrompt(id, uid string) bool {
	r := g.findRow(gateway.TablePrompts, id)
	return r != nil && canSelect(gateway.TablePrompts, r, uid)
}

func canSelect(table string, r row, uid string) bool {
	if table != gateway.TablePrompts {
		return true
	}
	if public, _ := r["is_public"].(bool); public {
		return true
	}
	return uid != "" && r["author_id"] == uid
}

func canUpdate(table string, r, patch row, uid string) bool {
	switch table {
	case gateway.TablePrompts:
		if uid != "" && r["author_id"] == uid {
			return true
		}
		if !canSelect(table, r, uid) {
			return false
		}
		for k := range patch {
			if !counterColumns[k] {
				return false
			}
		}
		return true
	case gateway.TableProfiles:
		return uid != "" && r["id"] == uid
	default:
		return false
	}
}

func canDelete(table string, r row, uid string) bool {
	if uid == "" {
		return false
	}
	switch table {
	case gateway.TablePrompts:
		return r["author_id"] == uid
	case gateway.TablePromptLikes:
		return r["user_id"] == uid
	default:
		return false
	}
}

func rlsViolation(table string) error {
	return apperrors.Forbidden(fmt.Sprintf("new row violates row-level security policy for table %q", table))
}

func notNull(table, column string) error {
	return apperrors.NewData(apperrors.ReasonValidation,
		fmt.Sprintf("null value in column %q of relation %q violates not-null constraint", column, table))
}

func unknownTable(table string) error {
	return apperrors.NewData(apperrors.ReasonNotFound, fmt.Sprintf("relation \"public.%s\" does not exist", table))
}
