package scout

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	scoutlib "github.com/loomworks/scout"
	"github.com/loomworks/scout/pkg/config"
	"github.com/loomworks/scout/pkg/tenant"
	"github.com/loomworks/scout/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search <text>",
	Short: "Run a one-shot unified search and print the results as JSON",
	Long: `Run a one-shot unified search against the configured store and print the
merged, relevance-ranked results as JSON.

With --seed-file the search runs against an in-memory store loaded from a
YAML workspace fixture, which is handy for trying out queries without a
running database.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <entity-type> <name>",
	Short: "Resolve a free-form entity name to candidate IDs",
	Args:  cobra.ExactArgs(2),
	RunE:  runResolve,
}

var (
	searchWorkspaceID string
	searchUserID      string
	searchTypes       string
	searchProjectID   string
	searchLimit       int
)

func init() {
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(resolveCmd)

	for _, c := range []*cobra.Command{searchCmd, resolveCmd} {
		c.Flags().StringVar(&searchWorkspaceID, "workspace-id", "", "Workspace to search in (required)")
		c.Flags().StringVar(&searchUserID, "user-id", "cli", "User to search as")
		c.Flags().StringVar(&searchProjectID, "project", "", "Rank results from this project first")
		c.Flags().IntVar(&searchLimit, "limit", 0, "Maximum results")
		c.Flags().String("db-driver", "memory", "Database driver (memory, badger, neo4j)")
		c.Flags().String("db-uri", "", "Database URI/path")
		c.Flags().String("db-username", "", "Database username (neo4j only)")
		c.Flags().String("db-password", "", "Database password (neo4j only)")
		c.Flags().String("seed-file", "", "YAML workspace fixture loaded into embedded drivers")
	}
	searchCmd.Flags().StringVar(&searchTypes, "types", "", "Comma-separated entity types to search (default: all)")
}

func newCLIClient(cmd *cobra.Command) (*scoutlib.Client, error) {
	if searchWorkspaceID == "" {
		return nil, fmt.Errorf("workspace ID is required (--workspace-id)")
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Flags().Changed("db-driver") {
		cfg.Database.Driver, _ = cmd.Flags().GetString("db-driver")
	}
	if cmd.Flags().Changed("db-uri") {
		cfg.Database.URI, _ = cmd.Flags().GetString("db-uri")
	}
	if cmd.Flags().Changed("db-username") {
		cfg.Database.Username, _ = cmd.Flags().GetString("db-username")
	}
	if cmd.Flags().Changed("db-password") {
		cfg.Database.Password, _ = cmd.Flags().GetString("db-password")
	}
	if cmd.Flags().Changed("seed-file") {
		cfg.Database.SeedFile, _ = cmd.Flags().GetString("seed-file")
	}

	return scoutlib.NewClient(cfg,
		scoutlib.WithTenantProvider(tenant.StaticProvider{WorkspaceID: searchWorkspaceID, UserID: searchUserID}),
	)
}

func runSearch(cmd *cobra.Command, args []string) error {
	client, err := newCLIClient(cmd)
	if err != nil {
		return err
	}
	defer client.Close()

	p := types.UnifiedSearchParams{
		SearchText:     args[0],
		ScopeProjectID: searchProjectID,
		Limit:          searchLimit,
	}
	if searchTypes != "" {
		for _, t := range strings.Split(searchTypes, ",") {
			p.EntityTypes = append(p.EntityTypes, types.EntityType(strings.TrimSpace(t)))
		}
	}

	result, err := client.SearchAll(context.Background(), p)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	return printJSON(result)
}

func runResolve(cmd *cobra.Command, args []string) error {
	client, err := newCLIClient(cmd)
	if err != nil {
		return err
	}
	defer client.Close()

	matches, err := client.ResolveByName(context.Background(), types.ResolveParams{
		EntityType:     types.EntityType(args[0]),
		Name:           args[1],
		ScopeProjectID: searchProjectID,
		Limit:          searchLimit,
	})
	if err != nil {
		return fmt.Errorf("resolve failed: %w", err)
	}

	return printJSON(matches)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
