// jobtrack is an MCP server for tracking job applications.
//
// Usage:
//
//	jobtrack serve              # stdio transport
//	jobtrack serve --http :8080 # HTTP/SSE transport
//	jobtrack login              # print the login URL
//	jobtrack version
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/RobinCoderZhao/jobtrack-mcp/internal/auth"
	"github.com/RobinCoderZhao/jobtrack-mcp/internal/config"
	"github.com/RobinCoderZhao/jobtrack-mcp/internal/session"
	"github.com/RobinCoderZhao/jobtrack-mcp/internal/storage"
	"github.com/RobinCoderZhao/jobtrack-mcp/internal/store"
	"github.com/RobinCoderZhao/jobtrack-mcp/internal/tools"
	"github.com/RobinCoderZhao/jobtrack-mcp/pkg/mcpserver"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "jobtrack",
		Short: "MCP server for tracking job applications",
		Long:  "jobtrack exposes a job-interview tracker (companies, roles, contacts, interview events) as MCP tools.",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(loginCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	var cfgPath, httpAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cfgPath, httpAddr)
		},
	}

	cmd.Flags().StringVarP(&cfgPath, "config", "c", defaultConfigPath(), "config file path")
	cmd.Flags().StringVar(&httpAddr, "http", "", "serve over HTTP on this address instead of stdio")
	return cmd
}

func loginCmd() *cobra.Command {
	var cfgPath string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Print the URL to log in to the application",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOrDefault(cfgPath)
			if err != nil {
				return err
			}
			fmt.Printf("Please login at %s\n", cfg.LoginURL)
			return nil
		},
	}

	cmd.Flags().StringVarP(&cfgPath, "config", "c", defaultConfigPath(), "config file path")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("jobtrack %s\n", version)
		},
	}
}

func runServe(cfgPath, httpAddr string) error {
	cfg, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		return err
	}
	if httpAddr != "" {
		cfg.HTTP.Addr = httpAddr
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	stdio := cfg.HTTP.Addr == ""
	logger, closeLogger, err := newLogger(cfg, stdio)
	if err != nil {
		return err
	}
	defer closeLogger()
	slog.SetDefault(logger)

	sessionPath := cfg.SessionFile
	if sessionPath == "" {
		if sessionPath, err = session.DefaultPath(); err != nil {
			return err
		}
	}
	sess := session.NewFileStore(sessionPath)

	accessToken, err := sess.Get(session.KeyAccessToken)
	if err != nil {
		return fmt.Errorf("no session: %w (run the login flow first)", err)
	}
	email := auth.EmailFromToken(accessToken)
	if email == "" {
		return fmt.Errorf("invalid access token payload")
	}

	recordStore, closeStore, err := openStore(cfg, accessToken)
	if err != nil {
		return err
	}
	defer closeStore()

	server := mcpserver.New("job-tracker-mcp", version)
	server.SetLogger(logger)
	server.Use(mcpserver.RecoveryMiddleware(logger))
	server.Use(mcpserver.LoggingMiddleware(logger))
	// Thread the caller identity through every request context.
	server.Use(func(next mcpserver.HandlerFunc) mcpserver.HandlerFunc {
		return func(ctx context.Context, req *mcpserver.JSONRPCRequest) *mcpserver.JSONRPCResponse {
			return next(auth.WithIdentity(ctx, email), req)
		}
	})

	server.RegisterTools(tools.All(tools.Deps{
		Store:    recordStore,
		Session:  sess,
		LoginURL: cfg.LoginURL,
		Logger:   logger,
	})...)

	logger.Info("MCP server starting", "user", email, "backend", cfg.Store.Backend)

	if stdio {
		return server.RunStdio(context.Background())
	}
	return server.RunHTTP(cfg.HTTP.Addr, cfg.HTTP.AuthToken)
}

func openStore(cfg config.Config, accessToken string) (store.Store, func(), error) {
	switch cfg.Store.Backend {
	case config.BackendSQLite:
		db, err := storage.Open(cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Migrate(context.Background(), store.Schema); err != nil {
			db.Close()
			return nil, nil, err
		}
		return store.NewSQLiteStore(db), func() { db.Close() }, nil
	default:
		return store.NewRESTStore(cfg.Store.URL, cfg.Store.AnonKey, accessToken), func() {}, nil
	}
}

// newLogger builds the process logger. On the stdio transport stdout is
// the protocol wire, so logs default to a file next to the session.
func newLogger(cfg config.Config, stdio bool) (*slog.Logger, func(), error) {
	var w io.Writer = os.Stderr
	closer := func() {}

	logFile := cfg.LogFile
	if logFile == "" && stdio {
		logFile = "mcp-tool.log"
	}
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
		closer = func() { f.Close() }
	}

	return slog.New(slog.NewTextHandler(w, nil)), closer, nil
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "jobtrack.yaml"
	}
	return filepath.Join(home, ".jobtrack", "config.yaml")
}
