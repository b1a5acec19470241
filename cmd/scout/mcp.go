package scout

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/firebase/genkit/go/genkit"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	scoutlib "github.com/loomworks/scout"
	"github.com/loomworks/scout/pkg/config"
	"github.com/loomworks/scout/pkg/tenant"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Model Context Protocol (MCP) server",
	Long: `Start the Model Context Protocol (MCP) server to expose workspace search
as MCP tools.

The MCP server provides tools for:
- Searching across all workspace entity types
- Searching one entity type with typed filters
- Searching inside document content
- Resolving free-form entity names to IDs

It is designed to work with MCP clients like Claude Desktop or other
compatible applications.`,
	RunE: runMCPServer,
}

var (
	mcpWorkspaceID string
	mcpUserID      string
)

func init() {
	rootCmd.AddCommand(mcpCmd)

	viper.AutomaticEnv()
	viper.BindEnv("mcp.workspace_id", "SCOUT_WORKSPACE_ID")
	viper.BindEnv("mcp.user_id", "SCOUT_USER_ID")
	viper.BindEnv("database.uri", "SCOUT_DB_URI")
	viper.BindEnv("database.username", "SCOUT_DB_USERNAME")
	viper.BindEnv("database.password", "SCOUT_DB_PASSWORD")

	mcpCmd.Flags().StringVar(&mcpWorkspaceID, "workspace-id", "", "Workspace the MCP session operates in")
	mcpCmd.Flags().StringVar(&mcpUserID, "user-id", "", "User the MCP session acts as")

	// Database flags
	mcpCmd.Flags().String("db-driver", "memory", "Database driver (memory, badger, neo4j)")
	mcpCmd.Flags().String("db-uri", "", "Database URI/path")
	mcpCmd.Flags().String("db-username", "", "Database username (neo4j only)")
	mcpCmd.Flags().String("db-password", "", "Database password (neo4j only)")
	mcpCmd.Flags().String("seed-file", "", "YAML workspace fixture loaded into embedded drivers")

	viper.BindPFlag("mcp.workspace_id", mcpCmd.Flags().Lookup("workspace-id"))
	viper.BindPFlag("mcp.user_id", mcpCmd.Flags().Lookup("user-id"))
	viper.BindPFlag("database.driver", mcpCmd.Flags().Lookup("db-driver"))
	viper.BindPFlag("database.uri", mcpCmd.Flags().Lookup("db-uri"))
	viper.BindPFlag("database.seed_file", mcpCmd.Flags().Lookup("seed-file"))
}

// MCPServer exposes a Scout client as MCP tools.
type MCPServer struct {
	client      *scoutlib.Client
	workspaceID string
	logger      *slog.Logger
}

func runMCPServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	workspaceID := viper.GetString("mcp.workspace_id")
	if workspaceID == "" {
		return fmt.Errorf("workspace ID is required (--workspace-id or SCOUT_WORKSPACE_ID)")
	}
	userID := viper.GetString("mcp.user_id")
	if userID == "" {
		userID = "mcp"
	}

	client, err := scoutlib.NewClient(cfg,
		scoutlib.WithTenantProvider(tenant.StaticProvider{WorkspaceID: workspaceID, UserID: userID}),
	)
	if err != nil {
		return fmt.Errorf("failed to initialize scout: %w", err)
	}
	defer client.Close()

	s := &MCPServer{
		client:      client,
		workspaceID: workspaceID,
		logger:      client.GetLogger(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- s.Run(ctx)
	}()

	select {
	case err := <-serverErrChan:
		if err != nil && err != context.Canceled {
			return fmt.Errorf("MCP server error: %w", err)
		}
		return nil
	case sig := <-sigChan:
		fmt.Printf("\nReceived signal: %v\n", sig)
		cancel()

		select {
		case <-time.After(10 * time.Second):
			return fmt.Errorf("server shutdown timeout")
		case <-serverErrChan:
			fmt.Println("MCP server stopped gracefully")
			return nil
		}
	}
}

// Run initializes Genkit, registers the tools, and blocks until the context
// is canceled.
func (s *MCPServer) Run(ctx context.Context) error {
	s.logger.Info("Starting Genkit MCP server", "workspace_id", s.workspaceID)

	g := genkit.Init(ctx)
	s.RegisterTools(g)

	s.logger.Info("MCP server is ready to accept requests")

	<-ctx.Done()
	return ctx.Err()
}

// RegisterTools registers all MCP tools with Genkit
func (s *MCPServer) RegisterTools(g *genkit.Genkit) {
	genkit.DefineTool(g, "search_workspace",
		"Search across every entity type in the workspace by text, merged by relevance.",
		s.SearchWorkspaceTool)

	genkit.DefineTool(g, "search_tasks",
		"Search tasks with typed filters: status, priority, assignee, tags, due date.",
		s.SearchTasksTool)

	genkit.DefineTool(g, "resolve_entity",
		"Resolve a free-form entity name ('the Q4 budget table') to concrete entity IDs with confidence tiers.",
		s.ResolveEntityTool)

	genkit.DefineTool(g, "search_doc_content",
		"Search inside one document's rich-text content and return snippets around each match.",
		s.SearchDocContentTool)
}
