package scout

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/loomworks/scout/pkg/alert"
	"github.com/loomworks/scout/pkg/cache"
	"github.com/loomworks/scout/pkg/config"
	"github.com/loomworks/scout/pkg/identity"
	"github.com/loomworks/scout/pkg/logger"
	"github.com/loomworks/scout/pkg/search"
	"github.com/loomworks/scout/pkg/store"
	"github.com/loomworks/scout/pkg/telemetry"
	"github.com/loomworks/scout/pkg/tenant"
	"github.com/loomworks/scout/pkg/types"
)

// Scout is the main interface for searching a workspace. It covers every
// per-entity-type search, the cross-type orchestrator, content search, and
// fuzzy name resolution.
type Scout interface {
	// SearchAll fans a text query out across every selected entity type
	// concurrently and merges the results by relevance.
	SearchAll(ctx context.Context, p types.UnifiedSearchParams) (*types.UnifiedSearchResult, error)

	// Per-entity-type searches.
	SearchTasks(ctx context.Context, p types.TaskSearchParams) ([]types.TaskResult, error)
	SearchSubtasks(ctx context.Context, p types.SubtaskSearchParams) ([]types.SubtaskResult, error)
	SearchProjects(ctx context.Context, p types.ProjectSearchParams) ([]types.ProjectResult, error)
	SearchClients(ctx context.Context, p types.ClientSearchParams) ([]types.ClientResult, error)
	SearchMembers(ctx context.Context, p types.MemberSearchParams) ([]types.MemberResult, error)
	SearchTabs(ctx context.Context, p types.TabSearchParams) ([]types.TabResult, error)
	SearchBlocks(ctx context.Context, p types.BlockSearchParams) ([]types.BlockResult, error)
	SearchDocs(ctx context.Context, p types.DocSearchParams) ([]types.DocResult, error)
	SearchTables(ctx context.Context, p types.TableSearchParams) ([]types.TableResult, error)
	SearchTableRows(ctx context.Context, p types.TableRowSearchParams) ([]types.TableRowResult, error)
	SearchTimelineEvents(ctx context.Context, p types.TimelineEventSearchParams) ([]types.TimelineEventResult, error)
	SearchFiles(ctx context.Context, p types.FileSearchParams) ([]types.FileResult, error)
	SearchComments(ctx context.Context, p types.CommentSearchParams) ([]types.CommentResult, error)
	SearchPayments(ctx context.Context, p types.PaymentSearchParams) ([]types.PaymentResult, error)
	SearchTags(ctx context.Context, p types.TagSearchParams) ([]types.TagResult, error)
	SearchPropertyDefinitions(ctx context.Context, p types.PropertyDefSearchParams) ([]types.PropertyDefinition, error)
	SearchEntityLinks(ctx context.Context, p types.EntityLinkSearchParams) ([]types.EntityLinkResult, error)

	// GetProject fetches one project by ID, workspace-checked.
	GetProject(ctx context.Context, wsCtx *types.WorkspaceContext, id string) (*types.ProjectResult, error)

	// Content search inside rich-text documents.
	SearchDocContent(ctx context.Context, p types.DocContentSearchParams) (*types.DocContentResult, error)
	SearchWorkspaceContent(ctx context.Context, p types.WorkspaceContentSearchParams) ([]types.DocContentResult, error)

	// Fuzzy name resolution with confidence tiers.
	ResolveByName(ctx context.Context, p types.ResolveParams) ([]types.ResolvedEntity, error)
	ResolveField(ctx context.Context, wsCtx *types.WorkspaceContext, tableID, name string) ([]types.ResolvedEntity, error)
}

// Client is the main implementation of the Scout interface. It owns the
// store, cache, and telemetry lifecycles; the embedded Searcher does the
// work.
type Client struct {
	*search.Searcher

	config    *config.Config
	store     store.Store
	cache     cache.Cache
	logger    *slog.Logger
	telemetry *telemetry.ParquetHandler
}

var _ Scout = (*Client)(nil)

type clientOptions struct {
	tenantProvider tenant.Provider
	identityLookup identity.Lookup
	logger         *slog.Logger
}

// Option configures the client beyond what config files carry.
type Option func(*clientOptions)

// WithTenantProvider sets how the caller's workspace is resolved. Defaults
// to reading the identity the HTTP middleware stashed on the context.
func WithTenantProvider(p tenant.Provider) Option {
	return func(o *clientOptions) { o.tenantProvider = p }
}

// WithIdentityLookup sets the user-profile collaborator. It is wrapped in a
// circuit breaker when the config enables one.
func WithIdentityLookup(l identity.Lookup) Option {
	return func(o *clientOptions) { o.identityLookup = l }
}

// WithLogger overrides the config-built logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *clientOptions) { o.logger = l }
}

// NewClient creates a new Scout client from configuration.
func NewClient(cfg *config.Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		cfg = &config.Config{}
	}

	o := clientOptions{tenantProvider: tenant.ContextProvider{}}
	for _, opt := range opts {
		opt(&o)
	}

	log := o.logger
	var parquet *telemetry.ParquetHandler
	if log == nil {
		handler := logger.NewHandler(cfg.Log.Level, cfg.Log.Format)
		if cfg.Telemetry.ParquetPath != "" {
			ph, err := telemetry.NewParquetHandler(handler, cfg.Telemetry.ParquetPath)
			if err != nil {
				return nil, fmt.Errorf("init telemetry: %w", err)
			}
			parquet = ph
			handler = ph
		}
		log = slog.New(handler)
	}

	st, err := openStore(cfg.Database)
	if err != nil {
		return nil, err
	}

	if cfg.Database.SeedFile != "" {
		if err := applySeed(cfg.Database.SeedFile, st); err != nil {
			st.Close()
			return nil, err
		}
	}

	c := cache.Cache(cache.NewMemory())
	if cfg.Cache.Backend == "badger" {
		bs, ok := st.(*store.BadgerStore)
		if !ok {
			st.Close()
			return nil, fmt.Errorf("cache backend badger requires the badger database driver")
		}
		c = cache.NewBadger(bs.DB(), "cache")
	}

	lookup := o.identityLookup
	if lookup == nil {
		lookup = identity.NewStaticLookup(nil)
	}
	if cfg.CircuitBreaker.Enabled {
		var alerter alert.Alerter = &alert.NoOpAlerter{}
		if cfg.Alert.Enabled {
			alerter = alert.NewEmailAlerter(cfg.Alert, log)
		}
		lookup = identity.NewCircuitBreakerLookup(lookup, cfg.CircuitBreaker, alerter, "identity-lookup")
	}

	searcher := search.New(st, o.tenantProvider,
		search.WithLogger(log),
		search.WithCache(c),
		search.WithIdentity(lookup),
		search.WithMemberCacheTTL(time.Duration(cfg.Cache.MemberTTL)*time.Second),
		search.WithSnippetWindow(cfg.Search.SnippetWindow),
		search.WithContentDocCap(cfg.Search.ContentDocCap),
	)

	return &Client{
		Searcher:  searcher,
		config:    cfg,
		store:     st,
		cache:     c,
		logger:    log,
		telemetry: parquet,
	}, nil
}

// openStore builds the entity store named by the database config.
func openStore(cfg config.DatabaseConfig) (store.Store, error) {
	switch cfg.Driver {
	case "", "memory":
		return store.NewMemoryStore(), nil
	case "badger":
		return store.OpenBadger(cfg.URI)
	case "neo4j":
		return store.NewNeo4jStore(cfg.URI, cfg.Username, cfg.Password, cfg.Database)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// applySeed loads a YAML fixture into a writable store.
func applySeed(path string, st store.Store) error {
	w, ok := st.(store.Writer)
	if !ok {
		return fmt.Errorf("database driver does not accept seed data")
	}
	seed, err := store.LoadSeedFile(path)
	if err != nil {
		return err
	}
	return seed.Apply(context.Background(), w)
}

// GetStore returns the underlying entity store.
func (c *Client) GetStore() store.Store {
	return c.store
}

// GetLogger returns the client's logger.
func (c *Client) GetLogger() *slog.Logger {
	return c.logger
}

// GetConfig returns the client's configuration.
func (c *Client) GetConfig() *config.Config {
	return c.config
}

// Close flushes telemetry and closes the store.
func (c *Client) Close() error {
	if c.telemetry != nil {
		if err := c.telemetry.Flush(); err != nil {
			c.logger.Warn("flush telemetry", "error", err)
		}
	}
	return c.store.Close()
}
