package scout

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	scoutlib "github.com/loomworks/scout"
	"github.com/loomworks/scout/pkg/config"
	"github.com/loomworks/scout/pkg/server"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the Scout HTTP server",
	Long: `Start the Scout HTTP server to provide REST API access to workspace search.

The server provides endpoints for:
- Unified and per-entity-type search
- Content search inside documents
- Fuzzy entity name resolution
- Health checks

Configuration can be provided through config files, environment variables, or command-line flags.`,
	RunE: runServer,
}

var (
	serverHost string
	serverPort int
	serverMode string
)

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringVar(&serverHost, "host", "localhost", "Server host")
	serverCmd.Flags().IntVar(&serverPort, "port", 8080, "Server port")
	serverCmd.Flags().StringVar(&serverMode, "mode", "release", "Server mode (debug, release, test)")

	// Database flags
	serverCmd.Flags().String("db-driver", "memory", "Database driver (memory, badger, neo4j)")
	serverCmd.Flags().String("db-uri", "", "Database URI/path")
	serverCmd.Flags().String("db-username", "", "Database username (neo4j only)")
	serverCmd.Flags().String("db-password", "", "Database password (neo4j only)")
	serverCmd.Flags().String("db-database", "", "Database name (neo4j only)")
	serverCmd.Flags().String("seed-file", "", "YAML workspace fixture loaded into embedded drivers")

	// Telemetry flags
	serverCmd.Flags().String("telemetry-parquet-path", "", "Directory for error telemetry parquet files")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	overrideConfigWithFlags(cmd, cfg)

	client, err := scoutlib.NewClient(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize scout: %w", err)
	}
	defer client.Close()

	srv := server.New(cfg, client.Searcher, client.GetStore(), client.GetLogger())
	srv.Setup()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			serverErrChan <- err
		}
	}()

	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		fmt.Printf("\nReceived signal: %v\n", sig)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}

		fmt.Println("Server stopped gracefully")
		return nil
	}
}

func overrideConfigWithFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = serverHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = serverPort
	}
	if cmd.Flags().Changed("mode") {
		cfg.Server.Mode = serverMode
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
	if cmd.Flags().Changed("db-database") {
		cfg.Database.Database, _ = cmd.Flags().GetString("db-database")
	}
	if cmd.Flags().Changed("seed-file") {
		cfg.Database.SeedFile, _ = cmd.Flags().GetString("seed-file")
	}
	if cmd.Flags().Changed("telemetry-parquet-path") {
		cfg.Telemetry.ParquetPath, _ = cmd.Flags().GetString("telemetry-parquet-path")
	}
}
