// Package main is the entry point for the calc evaluation server.
package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/lemonberrylabs/calc/pkg/api"
	grpcapi "github.com/lemonberrylabs/calc/pkg/api/grpc"
	"github.com/lemonberrylabs/calc/pkg/config"
	"github.com/lemonberrylabs/calc/pkg/store"
	"github.com/lemonberrylabs/calc/web"
	"github.com/spf13/cobra"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:          "calc-server",
	Short:        "Arithmetic evaluation server (REST, gRPC and web UI)",
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Version = version + " (commit=" + commit + ", built=" + date + ")"
	rootCmd.SetVersionTemplate("calc-server version {{.Version}}\n")
	addFlags(rootCmd)
}

func addFlags(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "YAML config file (env CALC_CONFIG)")
	cmd.Flags().Int("port", 0, "HTTP server port (default 8787, env PORT)")
	cmd.Flags().Int("grpc-port", 0, "gRPC server port (default 8788, env GRPC_PORT)")
	cmd.Flags().String("host", "", "Bind address (default 0.0.0.0, env HOST)")
	cmd.Flags().Int("history-limit", 0, "Evaluations kept in memory (default 1000, env HISTORY_LIMIT)")
	cmd.Flags().Int("max-depth", 0, "Maximum parenthesis nesting (default 256, env MAX_DEPTH)")
	cmd.Flags().Bool("access-log", false, "Log every HTTP request")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves settings with precedence flag > env > file > default.
func loadConfig(cmd *cobra.Command, getenv func(string) string) (config.Config, error) {
	path := getenv("CALC_CONFIG")
	if v, _ := cmd.Flags().GetString("config"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if err := cfg.ApplyEnv(getenv); err != nil {
		return cfg, err
	}

	if v, _ := cmd.Flags().GetString("host"); v != "" {
		cfg.Host = v
	}
	if v, _ := cmd.Flags().GetInt("port"); v != 0 {
		cfg.Port = v
	}
	if v, _ := cmd.Flags().GetInt("grpc-port"); v != 0 {
		cfg.GRPCPort = v
	}
	if v, _ := cmd.Flags().GetInt("history-limit"); v != 0 {
		cfg.HistoryLimit = v
	}
	if v, _ := cmd.Flags().GetInt("max-depth"); v != 0 {
		cfg.MaxDepth = v
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, os.Getenv)
	if err != nil {
		return err
	}

	s := store.New(cfg.HistoryLimit)

	apiOpts := []api.Option{api.WithMaxDepth(cfg.MaxDepth)}
	if accessLog, _ := cmd.Flags().GetBool("access-log"); accessLog {
		apiOpts = append(apiOpts, api.WithAccessLog())
	}
	server := api.New(s, apiOpts...)

	ui := web.New(s, cfg.MaxDepth)
	ui.Register(server.App())

	// Start gRPC server
	grpcServer := grpcapi.New(s, cfg.MaxDepth)
	go func() {
		log.Printf("gRPC server listening on %s", cfg.GRPCAddr())
		if err := grpcServer.Serve(cfg.GRPCAddr()); err != nil {
			log.Fatalf("gRPC server error: %v", err)
		}
	}()

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("Shutting down calc-server...")
		grpcServer.GracefulStop()
		if err := server.Shutdown(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	}()

	log.Printf("calc-server listening on %s (history-limit=%d, max-depth=%d)",
		cfg.Addr(), cfg.HistoryLimit, cfg.MaxDepth)
	return server.Listen(cfg.Addr())
}
