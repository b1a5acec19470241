package search

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/loomworks/scout/pkg/schema"
	"github.com/loomworks/scout/pkg/store"
	"github.com/loomworks/scout/pkg/types"
)

// SearchProjects finds projects by name/description text and status.
func (s *Searcher) SearchProjects(ctx context.Context, p types.ProjectSearchParams) ([]types.ProjectResult, error) {
	ws, err := s.resolveContext(ctx, p.Context)
	if err != nil {
		return nil, err
	}
	limit := normalizeLimit(p.Limit, types.DefaultSearchLimit)

	q := store.Query{
		Filters: []store.ColumnFilter{wsFilter(ws.WorkspaceID)},
		OrderBy: "updated_at", Desc: true, Limit: limit,
	}
	if p.ClientID != "" {
		q.Filters = append(q.Filters, store.ColumnFilter{Column: "client_id", Op: store.OpEq, Value: p.ClientID})
	}
	if len(p.Status) > 0 {
		q.Filters = append(q.Filters, store.ColumnFilter{Column: "status", Op: store.OpIn, Value: columnValueVariants(scalarStatus, p.Status)})
	}
	if !p.IncludeArchived {
		q.Filters = append(q.Filters, notArchived())
	}
	if p.SearchText != "" {
		q.Text = &store.TextFilter{Columns: []string{"name", "description"}, Term: p.SearchText}
	}

	rows, err := s.store.QueryEntities(ctx, types.EntityProject, q)
	if err != nil {
		return nil, err
	}

	clientIDs := make(IDSet)
	for _, r := range rows {
		if cid := r.Str("client_id"); cid != "" {
			clientIDs[cid] = struct{}{}
		}
	}
	clientNames := s.entityNames(ctx, types.EntityClient, "name", clientIDs)

	results := make([]types.ProjectResult, 0, len(rows))
	for _, r := range rows {
		var proj types.Project
		if err := store.DecodeRecord(r, &proj); err != nil {
			s.logger.Warn("skipping undecodable project row", "id", r.Str("id"), "error", err)
			continue
		}
		results = append(results, types.ProjectResult{
			ID:          proj.ID,
			Name:        proj.Name,
			Description: proj.Description,
			Status:      proj.Status,
			ClientID:    proj.ClientID,
			ClientName:  clientNames[proj.ClientID],
			Archived:    proj.Archived,
			UpdatedAt:   proj.UpdatedAt,
		})
	}
	return results, nil
}

// GetProject returns one project by ID within the workspace.
func (s *Searcher) GetProject(ctx context.Context, wsCtx *types.WorkspaceContext, id string) (*types.ProjectResult, error) {
	ws, err := s.resolveContext(ctx, wsCtx)
	if err != nil {
		return nil, err
	}
	rec, err := s.store.GetEntity(ctx, types.EntityProject, id)
	if err != nil || rec.Str("workspace_id") != ws.WorkspaceID {
		return nil, fmt.Errorf("project not found: %w", store.ErrNotFound)
	}
	var proj types.Project
	if err := store.DecodeRecord(rec, &proj); err != nil {
		return nil, fmt.Errorf("project not found: %w", store.ErrNotFound)
	}
	return &types.ProjectResult{
		ID:          proj.ID,
		Name:        proj.Name,
		Description: proj.Description,
		Status:      proj.Status,
		ClientID:    proj.ClientID,
		Archived:    proj.Archived,
		UpdatedAt:   proj.UpdatedAt,
	}, nil
}

// SearchClients finds clients by name, email, or company text.
func (s *Searcher) SearchClients(ctx context.Context, p types.ClientSearchParams) ([]types.ClientResult, error) {
	ws, err := s.resolveContext(ctx, p.Context)
	if err != nil {
		return nil, err
	}
	limit := normalizeLimit(p.Limit, types.DefaultSearchLimit)

	q := store.Query{
		Filters: []store.ColumnFilter{wsFilter(ws.WorkspaceID)},
		OrderBy: "updated_at", Desc: true, Limit: limit,
	}
	if p.SearchText != "" {
		q.Text = &store.TextFilter{Columns: []string{"name", "email", "company"}, Term: p.SearchText}
	}

	rows, err := s.store.QueryEntities(ctx, types.EntityClient, q)
	if err != nil {
		return nil, err
	}

	results := make([]types.ClientResult, 0, len(rows))
	for _, r := range rows {
		var c types.Client
		if err := store.DecodeRecord(r, &c); err != nil {
			s.logger.Warn("skipping undecodable client row", "id", r.Str("id"), "error", err)
			continue
		}
		results = append(results, types.ClientResult{
			ID:        c.ID,
			Name:      c.Name,
			Email:     c.Email,
			Company:   c.Company,
			UpdatedAt: c.UpdatedAt,
		})
	}
	return results, nil
}

// SearchMembers finds workspace members joined with their profiles. The
// member-with-profile list is served from the injected cache (60s TTL) keyed
// by workspace and role filter; free-text filtering happens after the join
// so cached lists are reusable across searches.
func (s *Searcher) SearchMembers(ctx context.Context, p types.MemberSearchParams) ([]types.MemberResult, error) {
	ws, err := s.resolveContext(ctx, p.Context)
	if err != nil {
		return nil, err
	}
	limit := normalizeLimit(p.Limit, types.DefaultMemberLimit)

	members, err := s.memberList(ctx, ws.WorkspaceID, p.Role)
	if err != nil {
		return nil, err
	}

	results := make([]types.MemberResult, 0, len(members))
	term := strings.ToLower(p.SearchText)
	for _, m := range members {
		if term != "" &&
			!strings.Contains(strings.ToLower(m.Name), term) &&
			!strings.Contains(strings.ToLower(m.Email), term) {
			continue
		}
		results = append(results, m)
		if len(results) >= limit {
			break
		}
	}
	return results, nil
}

// memberList loads the member-with-profile list for one workspace and role
// filter, read-through cached. Stale reads up to the TTL are accepted; the
// cache is never used for authorization.
func (s *Searcher) memberList(ctx context.Context, workspaceID, role string) ([]types.MemberResult, error) {
	key := fmt.Sprintf("members/%s/%s", workspaceID, role)
	if raw, ok := s.cache.Get(key); ok {
		var cached []types.MemberResult
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
	}

	filters := []store.ColumnFilter{wsFilter(workspaceID)}
	if role != "" {
		filters = append(filters, store.ColumnFilter{Column: "role", Op: store.OpEq, Value: role})
	}
	rows, err := s.store.QueryEntities(ctx, types.EntityMember, store.Query{Filters: filters, OrderBy: "created_at"})
	if err != nil {
		return nil, err
	}

	userIDs := make([]string, 0, len(rows))
	for _, r := range rows {
		if uid := r.Str("user_id"); uid != "" {
			userIDs = append(userIDs, uid)
		}
	}
	profiles := s.profiles(ctx, userIDs)

	members := make([]types.MemberResult, 0, len(rows))
	for _, r := range rows {
		var m types.Member
		if err := store.DecodeRecord(r, &m); err != nil {
			s.logger.Warn("skipping undecodable member row", "id", r.Str("id"), "error", err)
			continue
		}
		mr := types.MemberResult{ID: m.ID, UserID: m.UserID, Role: m.Role}
		if prof, ok := profiles[m.UserID]; ok {
			mr.Name = prof.Name
			mr.Email = prof.Email
		}
		members = append(members, mr)
	}

	if raw, err := json.Marshal(members); err == nil {
		s.cache.Set(key, raw, s.cacheTTL)
	}
	return members, nil
}

// SearchPayments finds payments by title text, status, and due date.
func (s *Searcher) SearchPayments(ctx context.Context, p types.PaymentSearchParams) ([]types.PaymentResult, error) {
	ws, err := s.resolveContext(ctx, p.Context)
	if err != nil {
		return nil, err
	}
	limit := normalizeLimit(p.Limit, types.DefaultSearchLimit)
	scope := []store.ColumnFilter{wsFilter(ws.WorkspaceID)}

	var candidates IDSet
	dateNarrowed := false
	if !p.DueDate.Empty() {
		// Payments carry no custom properties; the date dimension reads the
		// column alone but still intersects like every other filter.
		set, err := s.dateDimension(ctx, ws, types.EntityPayment, nil, schema.PropDueDate, p.DueDate, "due_date", scope)
		if err != nil {
			return nil, err
		}
		dateNarrowed = set != nil
		if candidates = Intersect(candidates, set); len(candidates) == 0 {
			return []types.PaymentResult{}, nil
		}
	}

	q := store.Query{Filters: scope, OrderBy: "updated_at", Desc: true, Limit: limit}
	if p.ClientID != "" {
		q.Filters = append(q.Filters, store.ColumnFilter{Column: "client_id", Op: store.OpEq, Value: p.ClientID})
	}
	if p.ProjectID != "" {
		q.Filters = append(q.Filters, store.ColumnFilter{Column: "project_id", Op: store.OpEq, Value: p.ProjectID})
	}
	if len(p.Status) > 0 {
		q.Filters = append(q.Filters, store.ColumnFilter{Column: "status", Op: store.OpIn, Value: p.Status})
	}
	if candidates != nil {
		q.Filters = append(q.Filters, store.ColumnFilter{Column: "id", Op: store.OpIn, Value: candidates.Slice()})
	}
	if p.SearchText != "" {
		q.Text = &store.TextFilter{Columns: []string{"title"}, Term: p.SearchText}
	}

	rows, err := s.fetchMerged(ctx, types.EntityPayment, q, dateNarrowed)
	if err != nil {
		return nil, err
	}

	clientIDs := make(IDSet)
	for _, r := range rows {
		if cid := r.Str("client_id"); cid != "" {
			clientIDs[cid] = struct{}{}
		}
	}
	clientNames := s.entityNames(ctx, types.EntityClient, "name", clientIDs)

	results := make([]types.PaymentResult, 0, len(rows))
	for _, r := range rows {
		var pay types.Payment
		if err := store.DecodeRecord(r, &pay); err != nil {
			s.logger.Warn("skipping undecodable payment row", "id", r.Str("id"), "error", err)
			continue
		}
		results = append(results, types.PaymentResult{
			ID:          pay.ID,
			Title:       pay.Title,
			AmountCents: pay.AmountCents,
			Currency:    pay.Currency,
			Status:      pay.Status,
			ClientID:    pay.ClientID,
			ClientName:  clientNames[pay.ClientID],
			ProjectID:   pay.ProjectID,
			DueDate:     pay.DueDate,
			PaidAt:      pay.PaidAt,
			UpdatedAt:   pay.UpdatedAt,
		})
	}
	return results, nil
}
