package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/loomworks/scout/pkg/cache"
	"github.com/loomworks/scout/pkg/identity"
	"github.com/loomworks/scout/pkg/schema"
	"github.com/loomworks/scout/pkg/store"
	"github.com/loomworks/scout/pkg/tenant"
	"github.com/loomworks/scout/pkg/types"
)

// MemberCacheTTL bounds how stale a cached member list may be. The cache is
// never authoritative for security decisions; tenant scoping is enforced at
// the query level on every call.
const MemberCacheTTL = 60 * time.Second

// Searcher is the engine over one store. It is stateless per request; the
// injected member cache is the only shared mutable state.
type Searcher struct {
	store    store.Store
	tenant   tenant.Provider
	schema   *schema.Resolver
	identity identity.Lookup
	cache    cache.Cache
	cacheTTL time.Duration
	logger   *slog.Logger

	snippetWindow int
	contentDocCap int
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Searcher) { s.logger = l }
}

// WithCache sets the member-list cache. Defaults to an in-process map.
func WithCache(c cache.Cache) Option {
	return func(s *Searcher) { s.cache = c }
}

// WithMemberCacheTTL overrides MemberCacheTTL. Non-positive values keep the
// default.
func WithMemberCacheTTL(ttl time.Duration) Option {
	return func(s *Searcher) {
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithSnippetWindow overrides the default snippet context width for content
// searches that do not specify one.
func WithSnippetWindow(n int) Option {
	return func(s *Searcher) {
		if n > 0 {
			s.snippetWindow = n
		}
	}
}

// WithContentDocCap overrides how many documents a workspace-wide content
// search scans.
func WithContentDocCap(n int) Option {
	return func(s *Searcher) {
		if n > 0 {
			s.contentDocCap = n
		}
	}
}

// WithIdentity sets the profile lookup collaborator. Without one, member
// results carry user IDs but no names.
func WithIdentity(l identity.Lookup) Option {
	return func(s *Searcher) { s.identity = l }
}

// New builds a Searcher over the given store and tenant provider.
func New(st store.Store, tp tenant.Provider, opts ...Option) *Searcher {
	s := &Searcher{
		store:    st,
		tenant:   tp,
		schema:   schema.NewResolver(st),
		cache:    cache.NewMemory(),
		cacheTTL: MemberCacheTTL,
		logger:   slog.Default(),

		snippetWindow: types.DefaultSnippetWindow,
		contentDocCap: types.DefaultContentDocCap,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// resolveContext returns the pre-resolved workspace context when the caller
// supplied one, otherwise asks the tenant provider. Failure is fatal for the
// whole call.
func (s *Searcher) resolveContext(ctx context.Context, pre *types.WorkspaceContext) (types.WorkspaceContext, error) {
	if pre != nil && pre.WorkspaceID != "" {
		return *pre, nil
	}
	ws, err := s.tenant.ResolveContext(ctx)
	if err != nil {
		return types.WorkspaceContext{}, fmt.Errorf("resolve tenant context: %w", err)
	}
	return ws, nil
}

// normalizeLimit applies the per-type default and hard-caps nothing: callers
// may always override.
func normalizeLimit(limit, def int) int {
	if limit <= 0 {
		return def
	}
	return limit
}

// wsFilter is the standard tenant-scoping predicate for workspace-columned
// kinds.
func wsFilter(workspaceID string) store.ColumnFilter {
	return store.ColumnFilter{Column: "workspace_id", Op: store.OpEq, Value: workspaceID}
}

// workspaceProjectIDs returns the IDs of every project in the workspace.
// Tabs and blocks carry no workspace column; their scope check walks this
// ownership chain.
func (s *Searcher) workspaceProjectIDs(ctx context.Context, workspaceID string) ([]string, error) {
	rows, err := s.store.QueryEntities(ctx, types.EntityProject, store.Query{
		Filters: []store.ColumnFilter{wsFilter(workspaceID)},
	})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.Str("id"))
	}
	return ids, nil
}

// workspaceTabIDs returns the IDs of every tab whose project belongs to the
// workspace, optionally restricted to one project.
func (s *Searcher) workspaceTabIDs(ctx context.Context, workspaceID, projectID string) ([]string, error) {
	var projectIDs []string
	if projectID != "" {
		ok, err := s.projectInWorkspace(ctx, workspaceID, projectID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
		projectIDs = []string{projectID}
	} else {
		var err error
		projectIDs, err = s.workspaceProjectIDs(ctx, workspaceID)
		if err != nil {
			return nil, err
		}
	}
	if len(projectIDs) == 0 {
		return nil, nil
	}
	rows, err := s.store.QueryEntities(ctx, types.EntityTab, store.Query{
		Filters: []store.ColumnFilter{{Column: "project_id", Op: store.OpIn, Value: projectIDs}},
	})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.Str("id"))
	}
	return ids, nil
}

// projectInWorkspace verifies a project belongs to the workspace.
func (s *Searcher) projectInWorkspace(ctx context.Context, workspaceID, projectID string) (bool, error) {
	rec, err := s.store.GetEntity(ctx, types.EntityProject, projectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return rec.Str("workspace_id") == workspaceID, nil
}

// profiles batch-resolves user profiles through the identity collaborator.
// Best-effort: lookup failures degrade to an empty map.
func (s *Searcher) profiles(ctx context.Context, userIDs []string) map[string]types.Profile {
	if s.identity == nil || len(userIDs) == 0 {
		return nil
	}
	m, err := s.identity.ListProfiles(ctx, userIDs)
	if err != nil {
		s.logger.Warn("profile lookup failed", "error", err)
		return nil
	}
	return m
}

// entityNames batch-resolves the display names of a set of entities of one
// kind, for related-name enrichment. Lookup failures degrade to an empty
// map: enrichment is best-effort.
func (s *Searcher) entityNames(ctx context.Context, kind types.EntityType, nameColumn string, ids IDSet) map[string]string {
	if len(ids) == 0 {
		return nil
	}
	rows, err := s.store.QueryEntities(ctx, kind, store.Query{
		Filters: []store.ColumnFilter{{Column: "id", Op: store.OpIn, Value: ids.Slice()}},
	})
	if err != nil {
		s.logger.Warn("related-name lookup failed", "kind", kind, "error", err)
		return nil
	}
	names := make(map[string]string, len(rows))
	for _, r := range rows {
		names[r.Str("id")] = r.Str(nameColumn)
	}
	return names
}
